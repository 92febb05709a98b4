package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clusterlens/clusterlens/controllers"
)

type APIV1Router struct {
	*echo.Group
}

// NewAPIV1Router mounts the report and scan endpoints under /api/v1.
func NewAPIV1Router(
	server *echo.Echo,
	reportsController *controllers.ReportsController,
	scanController *controllers.ScanController,
	clusterController *controllers.ClusterController,
) APIV1Router {
	apiV1Router := server.Group("/api/v1")

	apiV1Router.GET("/health/", func(ctx echo.Context) error {
		return ctx.String(200, "ok")
	})
	apiV1Router.GET("/metrics/", echo.WrapHandler(promhttp.Handler()))

	apiV1Router.GET("/clusters/", clusterController.List)
	apiV1Router.GET("/clusters/:clusterId/", clusterController.Read)

	clusterRouter := apiV1Router.Group("/clusters/:clusterId/reports")

	clusterRouter.GET("/vulnerabilities/", reportsController.GetRunningVulnerabilities)
	clusterRouter.GET("/vulnerabilities/summary/", reportsController.GetRunningVulnerabilitiesSummary)
	clusterRouter.GET("/vulnerabilities/download/", reportsController.GetRunningVulnerabilitiesCsv)

	clusterRouter.GET("/vulnerability-export/", reportsController.GetVulnerabilityExport)
	clusterRouter.GET("/vulnerability-export/download/", reportsController.GetVulnerabilityExportCsv)

	clusterRouter.GET("/historical-vulnerabilities/", reportsController.GetHistoricalVulnerabilities)
	clusterRouter.GET("/historical-vulnerabilities/download/", reportsController.GetHistoricalVulnerabilitiesCsv)

	clusterRouter.GET("/worst-images/", reportsController.GetWorstImages)

	clusterRouter.GET("/vulnerability-difference/", reportsController.GetVulnerabilityDifference)
	clusterRouter.GET("/vulnerability-difference/download/", reportsController.GetVulnerabilityDifferenceCsv)

	apiV1Router.POST("/scan-results/", scanController.SaveScanResult)

	return APIV1Router{Group: apiV1Router}
}
