package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clusterlens/clusterlens/dtos"
)

// ImageScanResultIssue is one CVE or check failure reported by one scanner
// run. The same logical finding is re-inserted verbatim on every scan, so
// rows are identified logically by (image, severity, type, scanner, fixable)
// rather than by this surrogate id. Never updated in place except WasFixed
// and soft delete.
type ImageScanResultIssue struct {
	ID             uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	ImageResultsID uuid.UUID `json:"imageResultsId" gorm:"column:image_results_id;type:uuid;not null;index"`

	ScannerName string        `json:"scannerName" gorm:"type:text"`
	Type        string        `json:"type" gorm:"type:text"` // CVE or check id
	Severity    dtos.Severity `json:"severity" gorm:"type:text"`
	IsFixable   bool          `json:"isFixable"`
	WasFixed    bool          `json:"wasFixed"`

	PackageName      string `json:"packageName" gorm:"type:text"`
	InstalledVersion string `json:"installedVersion" gorm:"type:text"`
	FixedVersion     string `json:"fixedVersion" gorm:"type:text"`

	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}

func (ImageScanResultIssue) TableName() string {
	return "image_scan_results_issues"
}
