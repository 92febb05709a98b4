package services

import (
	"log/slog"

	"github.com/clusterlens/clusterlens/monitoring"
	"github.com/clusterlens/clusterlens/shared"
)

type snapshotService struct {
	snapshotRepository shared.SnapshotRepository
}

func NewSnapshotService(snapshotRepository shared.SnapshotRepository) *snapshotService {
	return &snapshotService{
		snapshotRepository: snapshotRepository,
	}
}

// CaptureDaily writes the daily membership snapshot for the given calendar
// date. Capturing is idempotent per date: when rows already exist the call
// is a no-op, so the daemon and the CLI can both trigger it safely.
func (s *snapshotService) CaptureDaily(date string) error {
	exists, err := s.snapshotRepository.HasSnapshotForDate(date)
	if err != nil {
		return err
	}
	if exists {
		slog.Debug("namespace snapshot already captured", "date", date)
		return nil
	}

	rows, err := s.snapshotRepository.CaptureDate(date)
	if err != nil {
		return err
	}

	monitoring.SnapshotCaptures.Inc()
	monitoring.SnapshotRowsWritten.Add(float64(rows))
	slog.Info("captured namespace snapshot", "date", date, "rows", rows)
	return nil
}
