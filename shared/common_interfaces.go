package shared

import (
	"github.com/clusterlens/clusterlens/database/models"
	"github.com/clusterlens/clusterlens/dtos"
)

// ReportRepository provides the normalized row projections the reporting
// engine aggregates in-process. Implementations only ever read.
type ReportRepository interface {
	// CurrentMemberships resolves scope against the live kubernetes_images
	// association: one row per (image, namespace) currently running.
	CurrentMemberships(clusterID int, namespaces []string, isCompliant *bool) ([]dtos.MembershipRow, error)
	// SnapshotMemberships resolves scope against the daily snapshot for the
	// given date. The rows still point at the image's current latest scan,
	// so historical reports show membership as of the date but finding
	// content as of today.
	SnapshotMemberships(clusterID int, date string, namespaces []string, isCompliant *bool) ([]dtos.MembershipRow, error)
	// SnapshotMembershipsBetween returns snapshot rows with their saved
	// dates for every date in the inclusive range that has rows. With
	// runningOnly set, images no longer running in the cluster are
	// excluded; the per-date totals count them, the worst-image rating
	// does not.
	SnapshotMembershipsBetween(clusterID int, startDate, endDate *string, namespaces []string, runningOnly bool) ([]dtos.SnapshotMembershipRow, error)
	// MembershipDates returns one row per (image, date) for dates in the
	// given set on which the image had a snapshot row.
	MembershipDates(clusterID int, dates []string, namespaces []string) ([]dtos.MembershipDateRow, error)
	// LatestIssues returns the issue rows of each image's latest scan
	// result, unfiltered; severity and fixable filtering happens in the
	// service so the alias table is consulted in exactly one place.
	LatestIssues(imageIDs []int) ([]dtos.IssueRow, error)
}

// ScanResultRepository is the append-only write path for scanner executions.
type ScanResultRepository interface {
	SaveScanResult(result dtos.ScanResultDTO) (models.ImageScanResult, error)
}

// SnapshotRepository maintains the daily membership snapshots.
type SnapshotRepository interface {
	HasSnapshotForDate(date string) (bool, error)
	CaptureDate(date string) (int, error)
}

type ClusterRepository interface {
	All() ([]models.Cluster, error)
	Read(id int) (models.Cluster, error)
}

type ReportService interface {
	RunningVulnerabilities(scope dtos.ReportScope) (dtos.VulnerabilitySummaryPageDTO, error)
	RunningVulnerabilitiesSummary(scope dtos.ReportScope) (dtos.SummaryTotalsDTO, error)
	VulnerabilityExport(scope dtos.ReportScope) (dtos.VulnerabilityRowPageDTO, error)
	HistoricalVulnerabilities(clusterID int, startDate, endDate string, namespaces []string, limit *int) (dtos.HistoricalTotalsPageDTO, error)
	WorstImages(clusterID int, startDate, endDate *string, namespaces []string) ([]dtos.WorstImagesDTO, error)
	VulnerabilityDifference(clusterID int, startDate, endDate string, scope dtos.ReportScope) (dtos.DifferenceDTO, error)
}

type ExportService interface {
	VulnerabilityExportCsv(scope dtos.ReportScope) (dtos.CSVFileDTO, error)
	RunningVulnerabilitiesCsv(scope dtos.ReportScope) (dtos.CSVFileDTO, error)
	HistoricalVulnerabilitiesCsv(clusterID int, startDate, endDate string, namespaces []string) (dtos.CSVFileDTO, error)
	VulnerabilityDifferenceCsv(clusterID int, startDate, endDate string, scope dtos.ReportScope) (dtos.CSVFileDTO, error)
}

type ScanService interface {
	SaveScanResult(result dtos.ScanResultDTO) error
}

type SnapshotService interface {
	CaptureDaily(date string) error
}
