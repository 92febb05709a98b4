package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/clusterlens/clusterlens/controllers"
	"github.com/clusterlens/clusterlens/daemons"
	"github.com/clusterlens/clusterlens/database/repositories"
	"github.com/clusterlens/clusterlens/router"
	"github.com/clusterlens/clusterlens/services"
	"github.com/clusterlens/clusterlens/shared"

	_ "github.com/lib/pq"
)

func main() {
	shared.LoadConfig() // nolint: errcheck
	shared.InitLogger()

	db, err := shared.DatabaseFactory()
	if err != nil {
		slog.Error("could not connect to database", "err", err)
		os.Exit(1)
	}

	clusterRepository := repositories.NewClusterRepository(db)
	reportRepository := repositories.NewReportRepository(db)
	scanResultRepository := repositories.NewScanResultRepository(db)
	snapshotRepository := repositories.NewSnapshotRepository(db)

	reportService := services.NewReportService(reportRepository)
	exportService := services.NewExportService(reportService)
	scanService := services.NewScanService(scanResultRepository)
	snapshotService := services.NewSnapshotService(snapshotRepository)

	reportsController := controllers.NewReportsController(reportService, exportService)
	scanController := controllers.NewScanController(scanService)
	clusterController := controllers.NewClusterController(clusterRepository)

	daemons.NewSnapshotDaemon(snapshotService).Start(context.Background())

	server := echo.New()
	server.HideBanner = true
	server.Use(middleware.Recover())

	router.NewAPIV1Router(server, reportsController, scanController, clusterController)

	for _, route := range server.Routes() {
		if route.Method != "echo_route_not_found" {
			slog.Info(route.Path, "method", route.Method)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Error("failed to start server", "err", server.Start(":"+port).Error())
}
