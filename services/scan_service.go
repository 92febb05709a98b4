package services

import (
	"log/slog"

	"github.com/clusterlens/clusterlens/dtos"
	"github.com/clusterlens/clusterlens/monitoring"
	"github.com/clusterlens/clusterlens/shared"
)

type scanService struct {
	scanResultRepository shared.ScanResultRepository
}

func NewScanService(scanResultRepository shared.ScanResultRepository) *scanService {
	return &scanService{
		scanResultRepository: scanResultRepository,
	}
}

// SaveScanResult appends one scanner execution delivered by the scan
// pipeline. Issues arrive already normalized; this engine stores them as-is
// and never rewrites them afterwards.
func (s *scanService) SaveScanResult(result dtos.ScanResultDTO) error {
	saved, err := s.scanResultRepository.SaveScanResult(result)
	if err != nil {
		slog.Error("could not save scan result", "imageId", result.ImageID, "scanner", result.ScannerName, "err", err)
		return err
	}

	monitoring.ScanResultsSaved.Inc()
	slog.Info("saved scan result",
		"imageId", result.ImageID,
		"scanner", result.ScannerName,
		"issues", len(saved.Issues),
	)
	return nil
}
