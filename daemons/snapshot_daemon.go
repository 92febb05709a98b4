package daemons

import (
	"context"
	"log/slog"
	"time"

	"github.com/clusterlens/clusterlens/shared"
)

const snapshotCheckInterval = 1 * time.Hour

type SnapshotDaemon struct {
	snapshotService shared.SnapshotService
	now             func() time.Time
}

func NewSnapshotDaemon(snapshotService shared.SnapshotService) *SnapshotDaemon {
	return &SnapshotDaemon{
		snapshotService: snapshotService,
		now:             time.Now,
	}
}

// Start captures a membership snapshot for the current date once per check
// interval. CaptureDaily is idempotent, so waking up more than once per day
// is harmless.
func (daemon *SnapshotDaemon) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(snapshotCheckInterval)
		defer ticker.Stop()

		daemon.capture()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				daemon.capture()
			}
		}
	}()
}

func (daemon *SnapshotDaemon) capture() {
	start := time.Now()
	date := daemon.now().Format("2006-01-02")
	if err := daemon.snapshotService.CaptureDaily(date); err != nil {
		slog.Error("could not capture membership snapshot", "err", err, "date", date)
		return
	}
	slog.Info("membership snapshot check finished", "date", date, "duration", time.Since(start))
}
