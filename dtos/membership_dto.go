package dtos

import "time"

// MembershipRow is one (image, namespace) membership as resolved from either
// the live association table or a daily snapshot.
type MembershipRow struct {
	ImageID          int        `json:"imageId"`
	Image            string     `json:"image"` // name:tag
	RunningInCluster bool       `json:"runningInCluster"`
	ComplianceState  string     `json:"complianceState"`
	LastScanned      *time.Time `json:"lastScanned"`
	Namespace        string     `json:"namespace"`
}

// SnapshotMembershipRow is a snapshot membership together with its calendar
// date, used by the worst-image trend.
type SnapshotMembershipRow struct {
	ImageID   int    `json:"imageId"`
	Image     string `json:"image"`
	SavedDate string `json:"savedDate"`
	Namespace string `json:"namespace"`
}

// MembershipDateRow records that an image had a snapshot row on a date.
type MembershipDateRow struct {
	ImageID   int    `json:"imageId"`
	SavedDate string `json:"savedDate"`
}

// IssueRow is one issue of an image's latest scan result, projected for
// in-process aggregation.
type IssueRow struct {
	ImageID          int      `json:"imageId"`
	ScannerName      string   `json:"scannerName"`
	Type             string   `json:"type"`
	Severity         Severity `json:"severity"`
	IsFixable        bool     `json:"isFixable"`
	PackageName      string   `json:"packageName"`
	InstalledVersion string   `json:"installedVersion"`
	FixedVersion     string   `json:"fixedVersion"`
}
