package dtos

import (
	"fmt"
	"time"
)

// ReportScope selects which images a report covers. A cluster id that does
// not exist simply matches nothing; scope values are advisory and never
// validated against the cluster registry.
type ReportScope struct {
	ClusterID   int        `json:"clusterId"`
	Namespaces  []string   `json:"namespaces,omitempty"`
	Severities  []Severity `json:"severities,omitempty"`
	IsFixable   *bool      `json:"isFixable,omitempty"`
	IsCompliant *bool      `json:"isCompliant,omitempty"`
	// TargetDate in YYYY-MM-DD form. Nil or today selects the live
	// namespace membership, anything else the historical snapshot.
	TargetDate *string `json:"targetDate,omitempty"`
	Page       *int    `json:"page,omitempty"`
	Limit      *int    `json:"limit,omitempty"`
}

// VulnerabilitySummaryDTO is one per-image rollup row: issue counts on the
// image's latest scan, broken down by severity and fixability.
type VulnerabilitySummaryDTO struct {
	ImageID          int        `json:"imageId"`
	Image            string     `json:"image"` // name:tag
	RunningInCluster bool       `json:"runningInCluster"`
	Namespaces       []string   `json:"namespaces"`
	ComplianceState  string     `json:"complianceState"`
	LastScanned      *time.Time `json:"lastScanned"`

	TotalCritical   int `json:"totalCritical"`
	TotalMajor      int `json:"totalMajor"`
	TotalMedium     int `json:"totalMedium"`
	TotalLow        int `json:"totalLow"`
	TotalNegligible int `json:"totalNegligible"`

	TotalFixableCritical   int `json:"totalFixableCritical"`
	TotalFixableMajor      int `json:"totalFixableMajor"`
	TotalFixableMedium     int `json:"totalFixableMedium"`
	TotalFixableLow        int `json:"totalFixableLow"`
	TotalFixableNegligible int `json:"totalFixableNegligible"`
}

// Total is the sum over all severity buckets of the row.
func (s VulnerabilitySummaryDTO) Total() int {
	return s.TotalCritical + s.TotalMajor + s.TotalMedium + s.TotalLow + s.TotalNegligible
}

// VulnerabilitySummaryPageDTO is a page of rollup rows. Count is the number
// of distinct images in scope before pagination.
type VulnerabilitySummaryPageDTO struct {
	Count   int                       `json:"count"`
	Results []VulnerabilitySummaryDTO `json:"results"`
}

// SummaryTotalsDTO is the single cluster-wide rollup row: the column-wise sum
// of every per-image row in scope.
type SummaryTotalsDTO struct {
	TotalCritical   int `json:"totalCritical"`
	TotalMajor      int `json:"totalMajor"`
	TotalMedium     int `json:"totalMedium"`
	TotalLow        int `json:"totalLow"`
	TotalNegligible int `json:"totalNegligible"`

	TotalFixableCritical   int `json:"totalFixableCritical"`
	TotalFixableMajor      int `json:"totalFixableMajor"`
	TotalFixableMedium     int `json:"totalFixableMedium"`
	TotalFixableLow        int `json:"totalFixableLow"`
	TotalFixableNegligible int `json:"totalFixableNegligible"`
}

// HistoricalTotalsDTO is one per-date rollup row across a date range.
type HistoricalTotalsDTO struct {
	SavedDate string `json:"savedDate"`

	TotalCritical   int `json:"totalCritical"`
	TotalMajor      int `json:"totalMajor"`
	TotalMedium     int `json:"totalMedium"`
	TotalLow        int `json:"totalLow"`
	TotalNegligible int `json:"totalNegligible"`

	TotalFixableCritical   int `json:"totalFixableCritical"`
	TotalFixableMajor      int `json:"totalFixableMajor"`
	TotalFixableMedium     int `json:"totalFixableMedium"`
	TotalFixableLow        int `json:"totalFixableLow"`
	TotalFixableNegligible int `json:"totalFixableNegligible"`
}

// HistoricalTotalsPageDTO is a page of per-date totals.
type HistoricalTotalsPageDTO struct {
	Count   int                   `json:"count"`
	Results []HistoricalTotalsDTO `json:"results"`
}

// WorstImagesDTO counts, for one calendar date, how many images fall into
// each worst-severity bucket. SafeImages counts images whose latest scan
// reported no issues.
type WorstImagesDTO struct {
	SavedDate        string `json:"savedDate"`
	CriticalImages   int    `json:"criticalImages"`
	MajorImages      int    `json:"majorImages"`
	MediumImages     int    `json:"mediumImages"`
	LowImages        int    `json:"lowImages"`
	NegligibleImages int    `json:"negligibleImages"`
	SafeImages       int    `json:"safeImages"`
}

// VulnerabilityRowDTO is one finding row as exposed by the per-issue export
// and the itemized diff listings.
type VulnerabilityRowDTO struct {
	ScannerName      string   `json:"scannerName"`
	ImageID          int      `json:"imageId"`
	Image            string   `json:"image"`
	RunningInCluster bool     `json:"runningInCluster"`
	Type             string   `json:"type"` // CVE or check id
	Severity         Severity `json:"severity"`
	IsFixable        bool     `json:"isFixable"`
	Namespaces       []string `json:"namespaces"`
	PackageName      string   `json:"packageName"`
	InstalledVersion string   `json:"installedVersion"`
	FixedVersion     string   `json:"fixedVersion"`
}

// IdentityKey identifies the logical finding independent of the Issue row
// that carries it: the same CVE re-reported by the same scanner for the same
// image on every scan is one identity. Severity enters by rank so the
// Major/High alias cannot split an identity.
func (r VulnerabilityRowDTO) IdentityKey() string {
	return fmt.Sprintf("%d|%d|%s|%s|%t", r.ImageID, r.Severity.Rank(), r.Type, r.ScannerName, r.IsFixable)
}

// VulnerabilityRowPageDTO is a page of finding rows. Count is the total
// number of matching rows before any limit.
type VulnerabilityRowPageDTO struct {
	Count   int                   `json:"count"`
	Results []VulnerabilityRowDTO `json:"results"`
}

// DifferenceDTO is the result of comparing two calendar dates.
//
// The scalar counts are membership based: they answer "did the image carrying
// this finding stop or start running between the two dates". The itemized
// listings are content based bag differences of the two finding-row
// projections. The two deliberately measure different things and their
// magnitudes can disagree for the same call; callers get both.
type DifferenceDTO struct {
	NewCount        int `json:"newCount"`
	FixedCount      int `json:"fixedCount"`
	PersistentCount int `json:"persistentCount"`

	NewVulnerabilities   []VulnerabilityRowDTO `json:"newVulnerabilities"`
	FixedVulnerabilities []VulnerabilityRowDTO `json:"fixedVulnerabilities"`
}

// CSVFileDTO is a rendered CSV export.
type CSVFileDTO struct {
	Filename string `json:"filename"`
	CSV      string `json:"csv"`
}
