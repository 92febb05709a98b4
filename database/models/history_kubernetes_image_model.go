package models

import "time"

// HistoryKubernetesImage is one daily snapshot row: the given image was
// observed running in the given namespace on SavedDate. One batch insert per
// calendar day, rows are never mutated and retained indefinitely. This table
// is the authoritative membership source for any date other than today.
type HistoryKubernetesImage struct {
	ID        int    `json:"id" gorm:"primaryKey"`
	ClusterID int    `json:"clusterId" gorm:"not null;index"`
	ImageID   int    `json:"imageId" gorm:"not null;index"`
	Image     string `json:"image" gorm:"type:text"` // name:tag
	ImageHash string `json:"imageHash" gorm:"type:text"`
	Namespace string `json:"namespace" gorm:"type:text;not null"`
	// SavedDate is the calendar date in YYYY-MM-DD form.
	SavedDate string `json:"savedDate" gorm:"type:date;not null;index"`

	CreatedAt time.Time `json:"createdAt"`
}

func (HistoryKubernetesImage) TableName() string {
	return "history_kubernetes_images"
}
