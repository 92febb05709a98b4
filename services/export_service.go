package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/clusterlens/clusterlens/dtos"
	"github.com/clusterlens/clusterlens/monitoring"
	"github.com/clusterlens/clusterlens/shared"
	"github.com/clusterlens/clusterlens/utils"
)

// exportPageSize is the fixed batch size the CSV exports fetch rows in, so
// an export never asks the store for an unbounded result set in one call.
const exportPageSize = 50

const timestampLayout = "2006-01-02-03-04-05"

type exportService struct {
	reportService shared.ReportService

	now func() time.Time
}

func NewExportService(reportService shared.ReportService) *exportService {
	return &exportService{
		reportService: reportService,
		now:           time.Now,
	}
}

// VulnerabilityExportCsv renders the per-issue listing for a scope. Trailer
// metadata lines are appended after the data rows, not prepended. The whole
// document is assembled before any byte is returned; a failing page fails
// the export as a whole.
func (s *exportService) VulnerabilityExportCsv(scope dtos.ReportScope) (dtos.CSVFileDTO, error) {
	lines := []string{utils.BuildCsvLine([]string{
		"Image", "Image ID", "Namespaces", "Scanner Name", "CVE", "Package", "Is Fixable?", "Running?", "Severity",
	})}

	err := s.forEachPage(
		func(page, limit int) (int, int, error) {
			pageScope := scope
			pageScope.Page = &page
			pageScope.Limit = &limit
			resp, err := s.reportService.VulnerabilityExport(pageScope)
			if err != nil {
				return 0, 0, err
			}
			for _, row := range resp.Results {
				pkg := row.PackageName
				if pkg == "" {
					pkg = "n/a"
				}
				lines = append(lines, utils.BuildCsvLine([]string{
					row.Image,
					strconv.Itoa(row.ImageID),
					strings.Join(row.Namespaces, ","),
					row.ScannerName,
					row.Type,
					pkg,
					strconv.FormatBool(row.IsFixable),
					strconv.FormatBool(row.RunningInCluster),
					string(row.Severity),
				}))
			}
			return len(resp.Results), resp.Count, nil
		},
	)
	if err != nil {
		monitoring.CsvExportFailures.Inc()
		return dtos.CSVFileDTO{}, err
	}

	reportDate := s.today()
	if scope.TargetDate != nil {
		reportDate = *scope.TargetDate
	}
	lines = append(lines,
		utils.BuildCsvLine([]string{fmt.Sprintf("Scanned %s", reportDate)}),
		utils.BuildCsvLine([]string{fmt.Sprintf("Generated %s", s.now().Format("2006-01-02 15:04:05"))}),
	)

	monitoring.CsvExportsGenerated.Inc()
	return dtos.CSVFileDTO{
		Filename: fmt.Sprintf("Vulnerability-Export-%s.csv", reportDate),
		CSV:      strings.Join(lines, "\n"),
	}, nil
}

// RunningVulnerabilitiesCsv renders the per-image rollup for a scope.
func (s *exportService) RunningVulnerabilitiesCsv(scope dtos.ReportScope) (dtos.CSVFileDTO, error) {
	lines := []string{utils.BuildCsvLine([]string{
		"Image", "Namespace(s)", "Compliance", "Date Scanned",
		"Critical Issues", "Major Issues", "Medium Issues", "Low Issues", "Negligible Issues",
		"Critical Fixable Issues", "Major Fixable Issues", "Medium Fixable Issues", "Low Fixable Issues", "Negligible Fixable Issues",
	})}

	err := s.forEachPage(
		func(page, limit int) (int, int, error) {
			pageScope := scope
			pageScope.Page = &page
			pageScope.Limit = &limit
			resp, err := s.reportService.RunningVulnerabilities(pageScope)
			if err != nil {
				return 0, 0, err
			}
			for _, row := range resp.Results {
				lastScanned := ""
				if row.LastScanned != nil {
					lastScanned = row.LastScanned.Format(dateLayout)
				}
				lines = append(lines, utils.BuildCsvLine([]string{
					row.Image,
					strings.Join(row.Namespaces, ","),
					row.ComplianceState,
					lastScanned,
					strconv.Itoa(row.TotalCritical),
					strconv.Itoa(row.TotalMajor),
					strconv.Itoa(row.TotalMedium),
					strconv.Itoa(row.TotalLow),
					strconv.Itoa(row.TotalNegligible),
					strconv.Itoa(row.TotalFixableCritical),
					strconv.Itoa(row.TotalFixableMajor),
					strconv.Itoa(row.TotalFixableMedium),
					strconv.Itoa(row.TotalFixableLow),
					strconv.Itoa(row.TotalFixableNegligible),
				}))
			}
			return len(resp.Results), resp.Count, nil
		},
	)
	if err != nil {
		monitoring.CsvExportFailures.Inc()
		return dtos.CSVFileDTO{}, err
	}

	monitoring.CsvExportsGenerated.Inc()
	return dtos.CSVFileDTO{
		Filename: fmt.Sprintf("Running-Vulnerabilities-%s.csv", s.now().Format(timestampLayout)),
		CSV:      strings.Join(lines, "\n"),
	}, nil
}

// HistoricalVulnerabilitiesCsv renders the per-date totals across a range.
func (s *exportService) HistoricalVulnerabilitiesCsv(clusterID int, startDate, endDate string, namespaces []string) (dtos.CSVFileDTO, error) {
	resp, err := s.reportService.HistoricalVulnerabilities(clusterID, startDate, endDate, namespaces, nil)
	if err != nil {
		monitoring.CsvExportFailures.Inc()
		return dtos.CSVFileDTO{}, err
	}

	lines := []string{utils.BuildCsvLine([]string{
		"Date Scanned",
		"Critical Issues", "Major Issues", "Medium Issues", "Low Issues", "Negligible Issues",
		"Critical Fixable Issues", "Major Fixable Issues", "Medium Fixable Issues", "Low Fixable Issues", "Negligible Fixable Issues",
	})}
	for _, row := range resp.Results {
		lines = append(lines, utils.BuildCsvLine([]string{
			row.SavedDate,
			strconv.Itoa(row.TotalCritical),
			strconv.Itoa(row.TotalMajor),
			strconv.Itoa(row.TotalMedium),
			strconv.Itoa(row.TotalLow),
			strconv.Itoa(row.TotalNegligible),
			strconv.Itoa(row.TotalFixableCritical),
			strconv.Itoa(row.TotalFixableMajor),
			strconv.Itoa(row.TotalFixableMedium),
			strconv.Itoa(row.TotalFixableLow),
			strconv.Itoa(row.TotalFixableNegligible),
		}))
	}

	monitoring.CsvExportsGenerated.Inc()
	return dtos.CSVFileDTO{
		Filename: fmt.Sprintf("Historical-Vulnerabilities-%s.csv", s.now().Format(timestampLayout)),
		CSV:      strings.Join(lines, "\n"),
	}, nil
}

// VulnerabilityDifferenceCsv renders the itemized new/fixed listings between
// two dates, one status-tagged row per finding occurrence.
func (s *exportService) VulnerabilityDifferenceCsv(clusterID int, startDate, endDate string, scope dtos.ReportScope) (dtos.CSVFileDTO, error) {
	diff, err := s.reportService.VulnerabilityDifference(clusterID, startDate, endDate, scope)
	if err != nil {
		monitoring.CsvExportFailures.Inc()
		return dtos.CSVFileDTO{}, err
	}

	lines := []string{utils.BuildCsvLine([]string{
		"Status", "Image", "Image ID", "Namespaces", "Scanner Name", "CVE", "Is Fixable?", "Running?", "Severity",
	})}
	appendRows := func(status string, rows []dtos.VulnerabilityRowDTO) {
		for _, row := range rows {
			lines = append(lines, utils.BuildCsvLine([]string{
				status,
				row.Image,
				strconv.Itoa(row.ImageID),
				strings.Join(row.Namespaces, ","),
				row.ScannerName,
				row.Type,
				strconv.FormatBool(row.IsFixable),
				strconv.FormatBool(row.RunningInCluster),
				string(row.Severity),
			}))
		}
	}
	appendRows("New", diff.NewVulnerabilities)
	appendRows("Fixed", diff.FixedVulnerabilities)

	monitoring.CsvExportsGenerated.Inc()
	return dtos.CSVFileDTO{
		Filename: fmt.Sprintf("Vulnerability-Difference-%s-to-%s.csv", startDate, endDate),
		CSV:      strings.Join(lines, "\n"),
	}, nil
}

func (s *exportService) today() string {
	return s.now().Format(dateLayout)
}

// forEachPage drives fetch in fixed-size batches until the reported total is
// reached. fetch returns the page's row count and the pre-pagination total.
// An empty page before the total is reached stops the loop as well, so a
// store shrinking mid-export cannot spin it.
func (s *exportService) forEachPage(fetch func(page, limit int) (int, int, error)) error {
	seen := 0
	for page := 0; ; page++ {
		got, total, err := fetch(page, exportPageSize)
		if err != nil {
			return err
		}
		seen += got
		if seen >= total || got == 0 {
			return nil
		}
	}
}
