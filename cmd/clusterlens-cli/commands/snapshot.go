package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/clusterlens/clusterlens/database/repositories"
	"github.com/clusterlens/clusterlens/services"
	"github.com/clusterlens/clusterlens/shared"
)

func NewSnapshotCommand() *cobra.Command {
	snapshot := cobra.Command{
		Use:   "snapshot",
		Short: "Manage daily membership snapshots",
	}

	snapshot.AddCommand(newCaptureCommand())
	return &snapshot
}

func newCaptureCommand() *cobra.Command {
	capture := &cobra.Command{
		Use:   "capture",
		Short: "Capture the membership snapshot for a date (defaults to today)",
		RunE: func(cmd *cobra.Command, args []string) error {
			shared.LoadConfig() // nolint
			db, err := shared.DatabaseFactory()
			if err != nil {
				slog.Error("could not connect to database", "err", err)
				return err
			}

			date, _ := cmd.Flags().GetString("date")
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}

			snapshotService := services.NewSnapshotService(repositories.NewSnapshotRepository(db))
			return snapshotService.CaptureDaily(date)
		},
	}

	capture.Flags().StringP("date", "d", "", "Date to capture (YYYY-MM-DD)")

	return capture
}
