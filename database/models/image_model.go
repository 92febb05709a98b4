package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Compliance states an image can be in after policy evaluation. The scan
// pipeline writes these; the reporting engine only filters on them.
const (
	ComplianceStateCompliant    = "Compliant"
	ComplianceStateNonCompliant = "Non-compliant"
	ComplianceStateUnscanned    = "Unscanned"
)

// Image is one container image observed in a cluster. RunningInCluster and
// ComplianceState are maintained by the scan pipeline.
type Image struct {
	ID        int     `json:"id" gorm:"primaryKey"`
	Name      string  `json:"name" gorm:"type:text;not null"`
	Tag       string  `json:"tag" gorm:"type:text;not null"`
	ClusterID int     `json:"clusterId" gorm:"not null;index"`
	Cluster   Cluster `json:"-"`

	DockerImageHash  string     `json:"dockerImageHash" gorm:"column:docker_image_hash;type:text"`
	RunningInCluster bool       `json:"runningInCluster"`
	LastScanned      *time.Time `json:"lastScanned"`
	// ComplianceState lives in the legacy scan_results column.
	ComplianceState string `json:"complianceState" gorm:"column:scan_results;type:text;default:'Unscanned'"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}

func (Image) TableName() string {
	return "images"
}

// DisplayName is the name:tag form every report row shows.
func (i Image) DisplayName() string {
	return fmt.Sprintf("%s:%s", i.Name, i.Tag)
}
