package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImageScanResult is one execution record of one scanner against one image.
// At most one row per image carries IsLatest across all scanners combined;
// superseded rows get the flag flipped in the same transaction that inserts
// the new one. Rows are append-only apart from that flip and soft deletes.
type ImageScanResult struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	ImageID     int       `json:"imageId" gorm:"not null;index"`
	ScannerID   int       `json:"scannerId"`
	ScannerName string    `json:"scannerName" gorm:"type:text"`
	IsLatest    bool      `json:"isLatest" gorm:"index"`

	// Per-severity totals, denormalized at insert time for the trend queries.
	CriticalIssues   int `json:"criticalIssues"`
	MajorIssues      int `json:"majorIssues"`
	MediumIssues     int `json:"mediumIssues"`
	LowIssues        int `json:"lowIssues"`
	NegligibleIssues int `json:"negligibleIssues"`

	Issues []ImageScanResultIssue `json:"issues" gorm:"foreignKey:ImageResultsID"`

	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}

func (ImageScanResult) TableName() string {
	return "image_scan_results"
}
