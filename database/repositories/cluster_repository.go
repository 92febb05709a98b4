package repositories

import (
	"gorm.io/gorm"

	"github.com/clusterlens/clusterlens/database/models"
)

type clusterRepository struct {
	db *gorm.DB
	*GormRepository[int, models.Cluster]
}

func NewClusterRepository(db *gorm.DB) *clusterRepository {
	return &clusterRepository{
		db:             db,
		GormRepository: newGormRepository[int, models.Cluster](db),
	}
}
