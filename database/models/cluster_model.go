package models

import (
	"time"

	"gorm.io/gorm"
)

// Cluster is one registered Kubernetes cluster. Soft-deleted clusters are
// excluded from every aggregation.
type Cluster struct {
	ID   int    `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:text;not null"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}

func (Cluster) TableName() string {
	return "clusters"
}
