package models

import "time"

// KubernetesImage is the live association of an image to a namespace it is
// currently running in. Many rows per image when it runs in several
// namespaces. This table answers membership questions for "today".
type KubernetesImage struct {
	ID        int    `json:"id" gorm:"primaryKey"`
	ClusterID int    `json:"clusterId" gorm:"not null;index"`
	ImageID   int    `json:"imageId" gorm:"not null;index"`
	Namespace string `json:"namespace" gorm:"type:text;not null"`
	Image     string `json:"image" gorm:"type:text"` // name:tag
	ImageHash string `json:"imageHash" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (KubernetesImage) TableName() string {
	return "kubernetes_images"
}
