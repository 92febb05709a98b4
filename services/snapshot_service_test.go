package services

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotRepository struct {
	captured map[string]int

	hasErr     error
	captureErr error
}

func newFakeSnapshotRepository() *fakeSnapshotRepository {
	return &fakeSnapshotRepository{captured: map[string]int{}}
}

func (f *fakeSnapshotRepository) HasSnapshotForDate(date string) (bool, error) {
	if f.hasErr != nil {
		return false, f.hasErr
	}
	_, ok := f.captured[date]
	return ok, nil
}

func (f *fakeSnapshotRepository) CaptureDate(date string) (int, error) {
	if f.captureErr != nil {
		return 0, f.captureErr
	}
	f.captured[date]++
	return 7, nil
}

func TestCaptureDaily(t *testing.T) {
	t.Run("captures a fresh date once", func(t *testing.T) {
		repo := newFakeSnapshotRepository()
		svc := NewSnapshotService(repo)

		require.NoError(t, svc.CaptureDaily("2026-09-01"))
		assert.Equal(t, 1, repo.captured["2026-09-01"])
	})

	t.Run("second capture of the same date is a no-op", func(t *testing.T) {
		repo := newFakeSnapshotRepository()
		svc := NewSnapshotService(repo)

		require.NoError(t, svc.CaptureDaily("2026-09-01"))
		require.NoError(t, svc.CaptureDaily("2026-09-01"))
		assert.Equal(t, 1, repo.captured["2026-09-01"])
	})

	t.Run("distinct dates capture independently", func(t *testing.T) {
		repo := newFakeSnapshotRepository()
		svc := NewSnapshotService(repo)

		require.NoError(t, svc.CaptureDaily("2026-09-01"))
		require.NoError(t, svc.CaptureDaily("2026-09-02"))
		assert.Len(t, repo.captured, 2)
	})

	t.Run("existence check errors surface", func(t *testing.T) {
		repo := newFakeSnapshotRepository()
		repo.hasErr = errors.New("store went away")
		svc := NewSnapshotService(repo)

		assert.Error(t, svc.CaptureDaily("2026-09-01"))
	})

	t.Run("capture errors surface", func(t *testing.T) {
		repo := newFakeSnapshotRepository()
		repo.captureErr = errors.New("store went away")
		svc := NewSnapshotService(repo)

		assert.Error(t, svc.CaptureDaily("2026-09-01"))
	})
}
