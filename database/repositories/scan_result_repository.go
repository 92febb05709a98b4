package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/clusterlens/clusterlens/database/models"
	"github.com/clusterlens/clusterlens/dtos"
)

type scanResultRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.ImageScanResult]
}

func NewScanResultRepository(db *gorm.DB) *scanResultRepository {
	return &scanResultRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.ImageScanResult](db),
	}
}

// SaveScanResult appends one scanner execution: in a single transaction the
// previous latest rows of the image lose their is_latest flag, the new
// result and its issues are inserted, and the image's last_scanned and
// compliance state are updated. After commit at most one row per image
// carries is_latest across all scanners combined.
func (r *scanResultRepository) SaveScanResult(result dtos.ScanResultDTO) (models.ImageScanResult, error) {
	now := time.Now()

	scanResult := models.ImageScanResult{
		ID:          uuid.New(),
		ImageID:     result.ImageID,
		ScannerID:   result.ScannerID,
		ScannerName: result.ScannerName,
		IsLatest:    true,
		CreatedAt:   now,
	}

	for _, issue := range result.Issues {
		switch issue.Severity.Rank() {
		case 5:
			scanResult.CriticalIssues++
		case 4:
			scanResult.MajorIssues++
		case 3:
			scanResult.MediumIssues++
		case 2:
			scanResult.LowIssues++
		case 1:
			scanResult.NegligibleIssues++
		}

		scanResult.Issues = append(scanResult.Issues, models.ImageScanResultIssue{
			ID:               uuid.New(),
			ImageResultsID:   scanResult.ID,
			ScannerName:      issue.ScannerName,
			Type:             issue.Type,
			Severity:         issue.Severity,
			IsFixable:        issue.IsFixable,
			PackageName:      issue.PackageName,
			InstalledVersion: issue.InstalledVersion,
			FixedVersion:     issue.FixedVersion,
			CreatedAt:        now,
		})
	}

	err := r.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ImageScanResult{}).
			Where("image_id = ? AND is_latest = ?", result.ImageID, true).
			Update("is_latest", false).Error; err != nil {
			return errors.Wrap(err, "could not supersede previous scan results")
		}

		if err := tx.Create(&scanResult).Error; err != nil {
			return errors.Wrap(err, "could not insert scan result")
		}

		updates := map[string]any{
			"last_scanned": now,
		}
		if result.ComplianceState != "" {
			updates["scan_results"] = result.ComplianceState
		}
		if err := tx.Model(&models.Image{}).
			Where("id = ?", result.ImageID).
			Updates(updates).Error; err != nil {
			return errors.Wrap(err, "could not update image scan metadata")
		}
		return nil
	})
	if err != nil {
		return models.ImageScanResult{}, err
	}

	return scanResult, nil
}
