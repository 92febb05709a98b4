package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/clusterlens/clusterlens/database/repositories"
	"github.com/clusterlens/clusterlens/dtos"
	"github.com/clusterlens/clusterlens/services"
	"github.com/clusterlens/clusterlens/shared"
)

func NewExportCommand() *cobra.Command {
	export := cobra.Command{
		Use:   "export",
		Short: "Write vulnerability reports as csv files",
	}

	export.AddCommand(newVulnerabilitiesCommand())
	export.AddCommand(newHistoricalCommand())
	export.AddCommand(newDifferenceCommand())

	export.PersistentFlags().IntP("cluster", "c", 0, "Cluster id to report on")
	export.PersistentFlags().StringArrayP("namespaces", "n", nil, "Namespaces to include (default all)")
	export.PersistentFlags().StringP("out", "o", ".", "Directory to write the csv file to")

	return &export
}

func newVulnerabilitiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "vulnerabilities",
		Short: "Export the full list of vulnerabilities running in the cluster",
		RunE: func(cmd *cobra.Command, args []string) error {
			exportService, err := exportServiceFactory()
			if err != nil {
				return err
			}
			scope, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}
			file, err := exportService.VulnerabilityExportCsv(scope)
			if err != nil {
				return err
			}
			return writeFile(cmd, file)
		},
	}
}

func newHistoricalCommand() *cobra.Command {
	historical := &cobra.Command{
		Use:   "historical",
		Short: "Export per-day vulnerability totals over a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			exportService, err := exportServiceFactory()
			if err != nil {
				return err
			}
			scope, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}
			startDate, _ := cmd.Flags().GetString("start-date")
			endDate, _ := cmd.Flags().GetString("end-date")
			file, err := exportService.HistoricalVulnerabilitiesCsv(scope.ClusterID, startDate, endDate, scope.Namespaces)
			if err != nil {
				return err
			}
			return writeFile(cmd, file)
		},
	}
	historical.Flags().String("start-date", "", "Range start (YYYY-MM-DD)")
	historical.Flags().String("end-date", "", "Range end (YYYY-MM-DD)")
	return historical
}

func newDifferenceCommand() *cobra.Command {
	difference := &cobra.Command{
		Use:   "difference",
		Short: "Export new and fixed vulnerabilities between two dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			exportService, err := exportServiceFactory()
			if err != nil {
				return err
			}
			scope, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}
			startDate, _ := cmd.Flags().GetString("start-date")
			endDate, _ := cmd.Flags().GetString("end-date")
			file, err := exportService.VulnerabilityDifferenceCsv(scope.ClusterID, startDate, endDate, scope)
			if err != nil {
				return err
			}
			return writeFile(cmd, file)
		},
	}
	difference.Flags().String("start-date", "", "Comparison start (YYYY-MM-DD)")
	difference.Flags().String("end-date", "", "Comparison end (YYYY-MM-DD)")
	return difference
}

func exportServiceFactory() (shared.ExportService, error) {
	shared.LoadConfig() // nolint
	db, err := shared.DatabaseFactory()
	if err != nil {
		slog.Error("could not connect to database", "err", err)
		return nil, err
	}
	return services.NewExportService(services.NewReportService(repositories.NewReportRepository(db))), nil
}

func scopeFromFlags(cmd *cobra.Command) (dtos.ReportScope, error) {
	clusterID, _ := cmd.Flags().GetInt("cluster")
	if clusterID == 0 {
		return dtos.ReportScope{}, fmt.Errorf("a cluster id is required")
	}
	namespaces, _ := cmd.Flags().GetStringArray("namespaces")
	return dtos.ReportScope{
		ClusterID:  clusterID,
		Namespaces: namespaces,
	}, nil
}

func writeFile(cmd *cobra.Command, file dtos.CSVFileDTO) error {
	out, _ := cmd.Flags().GetString("out")
	path := filepath.Join(out, file.Filename)
	if err := os.WriteFile(path, []byte(file.CSV), 0644); err != nil {
		return err
	}
	slog.Info("report written", "path", path)
	return nil
}
