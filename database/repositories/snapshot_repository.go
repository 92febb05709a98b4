package repositories

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/clusterlens/clusterlens/database/models"
)

type snapshotRepository struct {
	db *gorm.DB
	*GormRepository[int, models.HistoryKubernetesImage]
}

func NewSnapshotRepository(db *gorm.DB) *snapshotRepository {
	return &snapshotRepository{
		db:             db,
		GormRepository: newGormRepository[int, models.HistoryKubernetesImage](db),
	}
}

func (r *snapshotRepository) HasSnapshotForDate(date string) (bool, error) {
	var count int64
	err := r.db.Model(&models.HistoryKubernetesImage{}).
		Where("saved_date = ?", date).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "could not check for existing snapshot")
	}
	return count > 0, nil
}

// CaptureDate copies the live namespace memberships into the history table
// for the given calendar date, one row per (image, namespace). Returns the
// number of rows written. Idempotence is the caller's concern; this method
// just inserts.
func (r *snapshotRepository) CaptureDate(date string) (int, error) {
	result := r.db.Exec(`
INSERT INTO history_kubernetes_images (cluster_id, image_id, image, image_hash, namespace, saved_date, created_at)
SELECT ki.cluster_id, ki.image_id, ki.image, ki.image_hash, ki.namespace, ?, NOW()
FROM kubernetes_images ki
JOIN images i ON i.id = ki.image_id AND i.deleted_at IS NULL
JOIN clusters c ON c.id = ki.cluster_id AND c.deleted_at IS NULL`, date)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "could not capture namespace snapshot")
	}
	return int(result.RowsAffected), nil
}
