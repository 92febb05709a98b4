package controllers

import (
	"log/slog"
	"strconv"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/clusterlens/clusterlens/shared"
)

type ClusterController struct {
	clusterRepository shared.ClusterRepository
}

func NewClusterController(clusterRepository shared.ClusterRepository) *ClusterController {
	return &ClusterController{clusterRepository: clusterRepository}
}

func (c *ClusterController) List(ctx shared.Context) error {
	clusters, err := c.clusterRepository.All()
	if err != nil {
		slog.Error("could not list clusters", "err", err)
		return ctx.JSON(500, map[string]string{"error": "could not list clusters"})
	}
	return ctx.JSON(200, clusters)
}

func (c *ClusterController) Read(ctx shared.Context) error {
	clusterID, err := strconv.Atoi(ctx.Param("clusterId"))
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": "invalid cluster id"})
	}

	cluster, err := c.clusterRepository.Read(clusterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.JSON(404, map[string]string{"error": "could not find cluster"})
		}
		slog.Error("could not read cluster", "err", err, "clusterId", clusterID)
		return ctx.JSON(500, map[string]string{"error": "could not read cluster"})
	}
	return ctx.JSON(200, cluster)
}
