package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/clusterlens/clusterlens/dtos"
	"github.com/clusterlens/clusterlens/shared"
	"github.com/clusterlens/clusterlens/utils"
)

type ReportsController struct {
	reportService shared.ReportService
	exportService shared.ExportService
}

func NewReportsController(reportService shared.ReportService, exportService shared.ExportService) *ReportsController {
	return &ReportsController{
		reportService: reportService,
		exportService: exportService,
	}
}

func (c *ReportsController) GetRunningVulnerabilities(ctx shared.Context) error {
	scope, err := scopeFromContext(ctx)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}

	resp, err := c.reportService.RunningVulnerabilities(scope)
	if err != nil {
		slog.Error("could not generate running vulnerabilities report", "err", err)
		return ctx.JSON(500, map[string]string{"error": "this report could not be generated"})
	}
	return ctx.JSON(200, resp)
}

func (c *ReportsController) GetRunningVulnerabilitiesSummary(ctx shared.Context) error {
	scope, err := scopeFromContext(ctx)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}

	resp, err := c.reportService.RunningVulnerabilitiesSummary(scope)
	if err != nil {
		slog.Error("could not generate running vulnerabilities summary", "err", err)
		return ctx.JSON(500, map[string]string{"error": "this report could not be generated"})
	}
	return ctx.JSON(200, resp)
}

func (c *ReportsController) GetRunningVulnerabilitiesCsv(ctx shared.Context) error {
	scope, err := scopeFromContext(ctx)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}

	file, err := c.exportService.RunningVulnerabilitiesCsv(scope)
	if err != nil {
		slog.Error("could not generate running vulnerabilities csv", "err", err)
		return ctx.JSON(500, map[string]string{"error": "this report could not be generated"})
	}
	return writeCsv(ctx, file)
}

func (c *ReportsController) GetVulnerabilityExport(ctx shared.Context) error {
	scope, err := scopeFromContext(ctx)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}

	resp, err := c.reportService.VulnerabilityExport(scope)
	if err != nil {
		slog.Error("could not generate vulnerability export", "err", err)
		return ctx.JSON(500, map[string]string{"error": "this report could not be generated"})
	}
	return ctx.JSON(200, resp)
}

func (c *ReportsController) GetVulnerabilityExportCsv(ctx shared.Context) error {
	scope, err := scopeFromContext(ctx)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}

	file, err := c.exportService.VulnerabilityExportCsv(scope)
	if err != nil {
		slog.Error("could not generate vulnerability export csv", "err", err)
		return ctx.JSON(500, map[string]string{"error": "this report could not be generated"})
	}
	return writeCsv(ctx, file)
}

func (c *ReportsController) GetHistoricalVulnerabilities(ctx shared.Context) error {
	scope, err := scopeFromContext(ctx)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	startDate, endDate, err := dateRangeFromContext(ctx)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}

	resp, err := c.reportService.HistoricalVulnerabilities(scope.ClusterID, startDate, endDate, scope.Namespaces, scope.Limit)
	if err != nil {
		slog.Error("could not generate historical vulnerabilities report", "err", err)
		return ctx.JSON(500, map[string]string{"error": "this report could not be generated"})
	}
	return ctx.JSON(200, resp)
}

func (c *ReportsController) GetHistoricalVulnerabilitiesCsv(ctx shared.Context) error {
	scope, err := scopeFromContext(ctx)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	startDate, endDate, err := dateRangeFromContext(ctx)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}

	file, err := c.exportService.HistoricalVulnerabilitiesCsv(scope.ClusterID, startDate, endDate, scope.Namespaces)
	if err != nil {
		slog.Error("could not generate historical vulnerabilities csv", "err", err)
		return ctx.JSON(500, map[string]string{"error": "this report could not be generated"})
	}
	return writeCsv(ctx, file)
}

func (c *ReportsController) GetWorstImages(ctx shared.Context) error {
	scope, err := scopeFromContext(ctx)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}

	startDate, err := optionalDateParam(ctx, "startDate")
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	endDate, err := optionalDateParam(ctx, "endDate")
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}

	resp, err := c.reportService.WorstImages(scope.ClusterID, startDate, endDate, scope.Namespaces)
	if err != nil {
		slog.Error("could not generate worst images report", "err", err)
		return ctx.JSON(500, map[string]string{"error": "this report could not be generated"})
	}
	return ctx.JSON(200, resp)
}

func (c *ReportsController) GetVulnerabilityDifference(ctx shared.Context) error {
	scope, err := scopeFromContext(ctx)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	startDate, endDate, err := dateRangeFromContext(ctx)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}

	resp, err := c.reportService.VulnerabilityDifference(scope.ClusterID, startDate, endDate, scope)
	if err != nil {
		slog.Error("could not generate vulnerability difference report", "err", err)
		return ctx.JSON(500, map[string]string{"error": "this report could not be generated"})
	}
	return ctx.JSON(200, resp)
}

func (c *ReportsController) GetVulnerabilityDifferenceCsv(ctx shared.Context) error {
	scope, err := scopeFromContext(ctx)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	startDate, endDate, err := dateRangeFromContext(ctx)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}

	file, err := c.exportService.VulnerabilityDifferenceCsv(scope.ClusterID, startDate, endDate, scope)
	if err != nil {
		slog.Error("could not generate vulnerability difference csv", "err", err)
		return ctx.JSON(500, map[string]string{"error": "this report could not be generated"})
	}
	return writeCsv(ctx, file)
}

func writeCsv(ctx shared.Context, file dtos.CSVFileDTO) error {
	ctx.Response().Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, file.Filename))
	return ctx.Blob(http.StatusOK, "text/csv", []byte(file.CSV))
}

// scopeFromContext parses the report scope. Dates are shape-checked here;
// the engine itself assumes well-formed scope values.
func scopeFromContext(ctx shared.Context) (dtos.ReportScope, error) {
	clusterID, err := strconv.Atoi(ctx.Param("clusterId"))
	if err != nil {
		return dtos.ReportScope{}, fmt.Errorf("invalid cluster id")
	}

	scope := dtos.ReportScope{
		ClusterID:  clusterID,
		Namespaces: ctx.QueryParams()["namespaces"],
		Severities: utils.Map(ctx.QueryParams()["severities"], func(s string) dtos.Severity {
			return dtos.Severity(s)
		}),
	}

	if fixable := ctx.QueryParam("isFixable"); fixable != "" {
		scope.IsFixable = utils.Ptr(fixable == "true")
	}
	if compliant := ctx.QueryParam("isCompliant"); compliant != "" {
		scope.IsCompliant = utils.Ptr(compliant == "true")
	}
	if page := ctx.QueryParam("page"); page != "" {
		p, err := strconv.Atoi(page)
		if err != nil {
			return dtos.ReportScope{}, fmt.Errorf("invalid page")
		}
		scope.Page = &p
	}
	if limit := ctx.QueryParam("limit"); limit != "" {
		l, err := strconv.Atoi(limit)
		if err != nil {
			return dtos.ReportScope{}, fmt.Errorf("invalid limit")
		}
		scope.Limit = &l
	}
	targetDate, err := optionalDateParam(ctx, "date")
	if err != nil {
		return dtos.ReportScope{}, err
	}
	scope.TargetDate = targetDate

	return scope, nil
}

func dateRangeFromContext(ctx shared.Context) (string, string, error) {
	startDate := ctx.QueryParam("startDate")
	endDate := ctx.QueryParam("endDate")
	if _, err := time.Parse("2006-01-02", startDate); err != nil {
		return "", "", fmt.Errorf("startDate must be a YYYY-MM-DD date")
	}
	if _, err := time.Parse("2006-01-02", endDate); err != nil {
		return "", "", fmt.Errorf("endDate must be a YYYY-MM-DD date")
	}
	return startDate, endDate, nil
}

func optionalDateParam(ctx shared.Context, name string) (*string, error) {
	value := ctx.QueryParam(name)
	if value == "" {
		return nil, nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return nil, fmt.Errorf("%s must be a YYYY-MM-DD date", name)
	}
	return &value, nil
}
