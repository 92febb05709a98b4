package dtos

// Severity is the classification scanners attach to an issue. The scale is
// totally ordered; Rank is the single source of truth for that order and is
// what every rollup, filter and rating consults.
type Severity string

const (
	SeverityCritical   Severity = "Critical"
	SeverityHigh       Severity = "High"
	SeverityMajor      Severity = "Major"
	SeverityMedium     Severity = "Medium"
	SeverityLow        Severity = "Low"
	SeverityNegligible Severity = "Negligible"
)

// severityRanks maps each label to its rank. Major and High share rank 4:
// scanners write "High", some report in the UI and API say "Major". They are
// the same bucket and must stay interchangeable in every filter and count.
var severityRanks = map[Severity]int{
	SeverityCritical:   5,
	SeverityHigh:       4,
	SeverityMajor:      4,
	SeverityMedium:     3,
	SeverityLow:        2,
	SeverityNegligible: 1,
}

// Rank returns the numeric rank of a severity, 0 for anything unrecognized.
func (s Severity) Rank() int {
	return severityRanks[s]
}

// RatingClean is the per-image rating bucket for an image whose latest scan
// reported no issues at all.
const RatingClean = 0

// ExpandSeverityAliases returns the filter list with the Major/High alias
// applied in both directions, so filtering on either label matches rows
// stored under the other.
func ExpandSeverityAliases(severities []Severity) []Severity {
	if len(severities) == 0 {
		return severities
	}
	expanded := make([]Severity, 0, len(severities)+1)
	seen := make(map[Severity]bool, len(severities)+1)
	add := func(s Severity) {
		if !seen[s] {
			seen[s] = true
			expanded = append(expanded, s)
		}
	}
	for _, s := range severities {
		add(s)
		switch s {
		case SeverityMajor:
			add(SeverityHigh)
		case SeverityHigh:
			add(SeverityMajor)
		}
	}
	return expanded
}

// MatchesSeverityFilter reports whether a stored severity passes the given
// filter. An empty filter matches everything. Matching is rank based, so the
// Major/High alias holds regardless of which label the row or the filter uses.
func MatchesSeverityFilter(stored Severity, filter []Severity) bool {
	if len(filter) == 0 {
		return true
	}
	for _, f := range filter {
		if f.Rank() == stored.Rank() && f.Rank() != 0 {
			return true
		}
		if f == stored {
			return true
		}
	}
	return false
}

// WorstSeverityRank returns the highest rank among the given severities,
// RatingClean when the slice is empty.
func WorstSeverityRank(severities []Severity) int {
	worst := RatingClean
	for _, s := range severities {
		if r := s.Rank(); r > worst {
			worst = r
		}
	}
	return worst
}
