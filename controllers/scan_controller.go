package controllers

import (
	"log/slog"

	"github.com/clusterlens/clusterlens/dtos"
	"github.com/clusterlens/clusterlens/shared"
)

type ScanController struct {
	scanService shared.ScanService
}

func NewScanController(scanService shared.ScanService) *ScanController {
	return &ScanController{scanService: scanService}
}

func (c *ScanController) SaveScanResult(ctx shared.Context) error {
	var result dtos.ScanResultDTO
	if err := ctx.Bind(&result); err != nil {
		return ctx.JSON(400, map[string]string{"error": "unable to process scan result"})
	}

	if err := c.scanService.SaveScanResult(result); err != nil {
		slog.Error("could not save scan result", "err", err, "imageId", result.ImageID)
		return ctx.JSON(500, map[string]string{"error": "could not save scan result"})
	}
	return ctx.JSON(200, map[string]string{"status": "saved"})
}
