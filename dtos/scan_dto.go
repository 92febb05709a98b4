package dtos

// ScanIssueDTO is one normalized finding as delivered by the scan pipeline.
type ScanIssueDTO struct {
	ScannerName      string   `json:"scannerName"`
	Type             string   `json:"type"`
	Severity         Severity `json:"severity"`
	IsFixable        bool     `json:"isFixable"`
	PackageName      string   `json:"packageName"`
	InstalledVersion string   `json:"installedVersion"`
	FixedVersion     string   `json:"fixedVersion"`
}

// ScanResultDTO is the payload of one scanner execution against one image.
// ComplianceState is computed by the scan pipeline's policy evaluation; the
// reporting engine only stores it.
type ScanResultDTO struct {
	ImageID         int            `json:"imageId"`
	ScannerID       int            `json:"scannerId"`
	ScannerName     string         `json:"scannerName"`
	ComplianceState string         `json:"complianceState"`
	Issues          []ScanIssueDTO `json:"issues"`
}
