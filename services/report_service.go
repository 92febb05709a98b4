package services

import (
	"slices"
	"strings"
	"time"

	"github.com/clusterlens/clusterlens/dtos"
	"github.com/clusterlens/clusterlens/monitoring"
	"github.com/clusterlens/clusterlens/shared"
	"github.com/clusterlens/clusterlens/utils"
)

const dateLayout = "2006-01-02"

// membershipResolver is the seam between the "current" and "as-of-date" data
// paths. Every report resolves its image scope through one of the two
// implementations and is otherwise oblivious to which table backed it.
type membershipResolver interface {
	memberships(clusterID int, namespaces []string, isCompliant *bool) ([]dtos.MembershipRow, error)
}

type liveMembershipResolver struct {
	repository shared.ReportRepository
}

func (r liveMembershipResolver) memberships(clusterID int, namespaces []string, isCompliant *bool) ([]dtos.MembershipRow, error) {
	return r.repository.CurrentMemberships(clusterID, namespaces, isCompliant)
}

type snapshotMembershipResolver struct {
	repository shared.ReportRepository
	date       string
}

func (r snapshotMembershipResolver) memberships(clusterID int, namespaces []string, isCompliant *bool) ([]dtos.MembershipRow, error) {
	return r.repository.SnapshotMemberships(clusterID, r.date, namespaces, isCompliant)
}

type reportService struct {
	reportRepository shared.ReportRepository

	// now is swapped out in tests; "today" decides which membership source
	// a report reads from.
	now func() time.Time
}

func NewReportService(reportRepository shared.ReportRepository) *reportService {
	return &reportService{
		reportRepository: reportRepository,
		now:              time.Now,
	}
}

func (s *reportService) today() string {
	return s.now().Format(dateLayout)
}

// resolverFor picks the live membership source when the target date is
// absent or today, the snapshot source otherwise.
func (s *reportService) resolverFor(targetDate *string) membershipResolver {
	if targetDate == nil || *targetDate == s.today() {
		return liveMembershipResolver{repository: s.reportRepository}
	}
	return snapshotMembershipResolver{repository: s.reportRepository, date: *targetDate}
}

// imageInScope is one image of the resolved scope with its namespaces
// aggregated, the grouping key of every per-image rollup.
type imageInScope struct {
	imageID          int
	image            string
	runningInCluster bool
	complianceState  string
	lastScanned      *time.Time
	namespaces       []string
}

func groupMemberships(rows []dtos.MembershipRow) []imageInScope {
	byImage := utils.GroupBy(rows, func(r dtos.MembershipRow) int { return r.ImageID })

	images := make([]imageInScope, 0, len(byImage))
	for _, group := range byImage {
		first := group[0]
		img := imageInScope{
			imageID:          first.ImageID,
			image:            first.Image,
			runningInCluster: first.RunningInCluster,
			complianceState:  first.ComplianceState,
			lastScanned:      first.LastScanned,
			namespaces: utils.UniqueSorted(utils.Map(group, func(r dtos.MembershipRow) string {
				return r.Namespace
			})),
		}
		images = append(images, img)
	}

	// newest scan first, image name as a stable tie break
	slices.SortFunc(images, func(a, b imageInScope) int {
		switch {
		case a.lastScanned == nil && b.lastScanned == nil:
		case a.lastScanned == nil:
			return 1
		case b.lastScanned == nil:
			return -1
		case a.lastScanned.After(*b.lastScanned):
			return -1
		case b.lastScanned.After(*a.lastScanned):
			return 1
		}
		return strings.Compare(b.image, a.image)
	})
	return images
}

func filterIssues(issues []dtos.IssueRow, severities []dtos.Severity, isFixable *bool) []dtos.IssueRow {
	return utils.Filter(issues, func(issue dtos.IssueRow) bool {
		if !dtos.MatchesSeverityFilter(issue.Severity, severities) {
			return false
		}
		if isFixable != nil && issue.IsFixable != *isFixable {
			return false
		}
		return true
	})
}

func countIssues(row *dtos.VulnerabilitySummaryDTO, issues []dtos.IssueRow) {
	for _, issue := range issues {
		switch issue.Severity.Rank() {
		case 5:
			row.TotalCritical++
			if issue.IsFixable {
				row.TotalFixableCritical++
			}
		case 4:
			row.TotalMajor++
			if issue.IsFixable {
				row.TotalFixableMajor++
			}
		case 3:
			row.TotalMedium++
			if issue.IsFixable {
				row.TotalFixableMedium++
			}
		case 2:
			row.TotalLow++
			if issue.IsFixable {
				row.TotalFixableLow++
			}
		case 1:
			row.TotalNegligible++
			if issue.IsFixable {
				row.TotalFixableNegligible++
			}
		}
	}
}

// RunningVulnerabilities rolls issue counts up per image for the requested
// scope. Count is the number of distinct images in scope regardless of
// pagination. An unknown cluster id yields an empty result, not an error.
func (s *reportService) RunningVulnerabilities(scope dtos.ReportScope) (dtos.VulnerabilitySummaryPageDTO, error) {
	monitoring.RollupReportsGenerated.Inc()

	members, err := s.resolverFor(scope.TargetDate).memberships(scope.ClusterID, scope.Namespaces, scope.IsCompliant)
	if err != nil {
		return dtos.VulnerabilitySummaryPageDTO{}, err
	}

	images := groupMemberships(members)
	count := len(images)
	images = paginate(images, scope.Page, scope.Limit)

	issuesByImage, err := s.issuesByImage(images, scope.Severities, scope.IsFixable)
	if err != nil {
		return dtos.VulnerabilitySummaryPageDTO{}, err
	}

	results := make([]dtos.VulnerabilitySummaryDTO, 0, len(images))
	for _, img := range images {
		row := dtos.VulnerabilitySummaryDTO{
			ImageID:          img.imageID,
			Image:            img.image,
			RunningInCluster: img.runningInCluster,
			Namespaces:       img.namespaces,
			ComplianceState:  img.complianceState,
			LastScanned:      img.lastScanned,
		}
		countIssues(&row, issuesByImage[img.imageID])
		results = append(results, row)
	}

	return dtos.VulnerabilitySummaryPageDTO{Count: count, Results: results}, nil
}

// RunningVulnerabilitiesSummary returns the column-wise sum of every
// per-image rollup row in scope, without pagination.
func (s *reportService) RunningVulnerabilitiesSummary(scope dtos.ReportScope) (dtos.SummaryTotalsDTO, error) {
	scope.Page = nil
	scope.Limit = nil

	page, err := s.RunningVulnerabilities(scope)
	if err != nil {
		return dtos.SummaryTotalsDTO{}, err
	}

	return utils.Reduce(page.Results, func(sum dtos.SummaryTotalsDTO, row dtos.VulnerabilitySummaryDTO) dtos.SummaryTotalsDTO {
		sum.TotalCritical += row.TotalCritical
		sum.TotalMajor += row.TotalMajor
		sum.TotalMedium += row.TotalMedium
		sum.TotalLow += row.TotalLow
		sum.TotalNegligible += row.TotalNegligible
		sum.TotalFixableCritical += row.TotalFixableCritical
		sum.TotalFixableMajor += row.TotalFixableMajor
		sum.TotalFixableMedium += row.TotalFixableMedium
		sum.TotalFixableLow += row.TotalFixableLow
		sum.TotalFixableNegligible += row.TotalFixableNegligible
		return sum
	}, dtos.SummaryTotalsDTO{}), nil
}

// VulnerabilityExport lists one row per issue of every image in scope.
// Count is the number of matching rows before the limit is applied.
func (s *reportService) VulnerabilityExport(scope dtos.ReportScope) (dtos.VulnerabilityRowPageDTO, error) {
	rows, err := s.findingRows(s.resolverFor(scope.TargetDate), scope)
	if err != nil {
		return dtos.VulnerabilityRowPageDTO{}, err
	}

	count := len(rows)
	if scope.Limit != nil {
		offset := utils.OrDefault(scope.Page, 0) * *scope.Limit
		switch {
		case offset < 0 || *scope.Limit < 0 || offset >= len(rows):
			rows = []dtos.VulnerabilityRowDTO{}
		case offset+*scope.Limit > len(rows):
			rows = rows[offset:]
		default:
			rows = rows[offset : offset+*scope.Limit]
		}
	}

	return dtos.VulnerabilityRowPageDTO{Count: count, Results: rows}, nil
}

// findingRows builds the full finding-row projection for a scope through
// the given membership resolver, ordered by (imageID, type).
func (s *reportService) findingRows(resolver membershipResolver, scope dtos.ReportScope) ([]dtos.VulnerabilityRowDTO, error) {
	members, err := resolver.memberships(scope.ClusterID, scope.Namespaces, scope.IsCompliant)
	if err != nil {
		return nil, err
	}

	images := groupMemberships(members)
	issuesByImage, err := s.issuesByImage(images, scope.Severities, scope.IsFixable)
	if err != nil {
		return nil, err
	}

	rows := make([]dtos.VulnerabilityRowDTO, 0, len(images))
	for _, img := range images {
		for _, issue := range issuesByImage[img.imageID] {
			rows = append(rows, dtos.VulnerabilityRowDTO{
				ScannerName:      issue.ScannerName,
				ImageID:          img.imageID,
				Image:            img.image,
				RunningInCluster: img.runningInCluster,
				Type:             issue.Type,
				Severity:         issue.Severity,
				IsFixable:        issue.IsFixable,
				Namespaces:       img.namespaces,
				PackageName:      issue.PackageName,
				InstalledVersion: issue.InstalledVersion,
				FixedVersion:     issue.FixedVersion,
			})
		}
	}

	slices.SortFunc(rows, func(a, b dtos.VulnerabilityRowDTO) int {
		if a.ImageID != b.ImageID {
			return a.ImageID - b.ImageID
		}
		return strings.Compare(a.Type, b.Type)
	})
	return rows, nil
}

func (s *reportService) issuesByImage(images []imageInScope, severities []dtos.Severity, isFixable *bool) (map[int][]dtos.IssueRow, error) {
	imageIDs := utils.Map(images, func(img imageInScope) int { return img.imageID })

	issues, err := s.reportRepository.LatestIssues(imageIDs)
	if err != nil {
		return nil, err
	}
	issues = filterIssues(issues, severities, isFixable)
	return utils.GroupBy(issues, func(issue dtos.IssueRow) int { return issue.ImageID }), nil
}

// HistoricalVulnerabilities sums issue counts per snapshot date across the
// given range. Snapshot membership is joined to each image's current latest
// scan, so older dates reflect today's finding content. Images that have
// since stopped running still count toward the dates they were observed on.
func (s *reportService) HistoricalVulnerabilities(clusterID int, startDate, endDate string, namespaces []string, limit *int) (dtos.HistoricalTotalsPageDTO, error) {
	snapshots, err := s.reportRepository.SnapshotMembershipsBetween(clusterID, utils.EmptyThenNil(startDate), utils.EmptyThenNil(endDate), namespaces, false)
	if err != nil {
		return dtos.HistoricalTotalsPageDTO{}, err
	}

	imagesByDate := imageSetsByDate(snapshots)

	allImageIDs := utils.Unique(utils.Map(snapshots, func(r dtos.SnapshotMembershipRow) int { return r.ImageID }))
	issues, err := s.reportRepository.LatestIssues(allImageIDs)
	if err != nil {
		return dtos.HistoricalTotalsPageDTO{}, err
	}
	issuesByImage := utils.GroupBy(issues, func(issue dtos.IssueRow) int { return issue.ImageID })

	dates := sortedDates(imagesByDate)
	// newest first, matching the dashboard's trend table
	slices.Reverse(dates)

	results := make([]dtos.HistoricalTotalsDTO, 0, len(dates))
	for _, date := range dates {
		row := dtos.HistoricalTotalsDTO{SavedDate: date}
		var counts dtos.VulnerabilitySummaryDTO
		for imageID := range imagesByDate[date] {
			countIssues(&counts, issuesByImage[imageID])
		}
		row.TotalCritical = counts.TotalCritical
		row.TotalMajor = counts.TotalMajor
		row.TotalMedium = counts.TotalMedium
		row.TotalLow = counts.TotalLow
		row.TotalNegligible = counts.TotalNegligible
		row.TotalFixableCritical = counts.TotalFixableCritical
		row.TotalFixableMajor = counts.TotalFixableMajor
		row.TotalFixableMedium = counts.TotalFixableMedium
		row.TotalFixableLow = counts.TotalFixableLow
		row.TotalFixableNegligible = counts.TotalFixableNegligible
		results = append(results, row)
	}

	count := len(results)
	if limit != nil && len(results) > *limit {
		results = results[:*limit]
	}

	return dtos.HistoricalTotalsPageDTO{Count: count, Results: results}, nil
}

// WorstImages rates every image in scope by the worst severity on its latest
// scan, per snapshot date, and counts images per rating bucket. Images with
// no issues land in SafeImages. Only dates with at least one snapshot row
// appear; the series is ordered ascending by date and gaps are not filled.
// Images no longer running in the cluster are not rated.
func (s *reportService) WorstImages(clusterID int, startDate, endDate *string, namespaces []string) ([]dtos.WorstImagesDTO, error) {
	snapshots, err := s.reportRepository.SnapshotMembershipsBetween(clusterID, startDate, endDate, namespaces, true)
	if err != nil {
		return nil, err
	}

	imagesByDate := imageSetsByDate(snapshots)

	allImageIDs := utils.Unique(utils.Map(snapshots, func(r dtos.SnapshotMembershipRow) int { return r.ImageID }))
	issues, err := s.reportRepository.LatestIssues(allImageIDs)
	if err != nil {
		return nil, err
	}
	issuesByImage := utils.GroupBy(issues, func(issue dtos.IssueRow) int { return issue.ImageID })

	ratings := make(map[int]int, len(allImageIDs))
	for _, imageID := range allImageIDs {
		ratings[imageID] = dtos.WorstSeverityRank(utils.Map(issuesByImage[imageID], func(issue dtos.IssueRow) dtos.Severity {
			return issue.Severity
		}))
	}

	results := make([]dtos.WorstImagesDTO, 0, len(imagesByDate))
	for _, date := range sortedDates(imagesByDate) {
		row := dtos.WorstImagesDTO{SavedDate: date}
		for imageID := range imagesByDate[date] {
			switch ratings[imageID] {
			case 5:
				row.CriticalImages++
			case 4:
				row.MajorImages++
			case 3:
				row.MediumImages++
			case 2:
				row.LowImages++
			case 1:
				row.NegligibleImages++
			case dtos.RatingClean:
				row.SafeImages++
			}
		}
		results = append(results, row)
	}
	return results, nil
}

// VulnerabilityDifference compares two calendar dates.
//
// The scalar counts follow the membership-date strategy: a finding counts as
// fixed when its image has no snapshot row on the end date, as new when it
// has none on the start date, and as persistent when it has both. That
// answers "did the image stop or start running", not "did the finding change
// while the image kept running".
//
// The itemized listings are bag differences of the two finding-row
// projections (duplicates preserved, one occurrence cancelled per matching
// opposite row). The start date always reads the snapshot table; an end date
// of today falls back to the live membership since the daily snapshot may
// not exist yet. A limit caps the listings, never the counts.
//
// Severity and fixable scope apply to both strategies. Compliance scope
// applies to neither: a two-date comparison ignores it.
func (s *reportService) VulnerabilityDifference(clusterID int, startDate, endDate string, scope dtos.ReportScope) (dtos.DifferenceDTO, error) {
	monitoring.DifferenceReportsGenerated.Inc()

	scope.ClusterID = clusterID
	scope.IsCompliant = nil

	diff := dtos.DifferenceDTO{
		NewVulnerabilities:   []dtos.VulnerabilityRowDTO{},
		FixedVulnerabilities: []dtos.VulnerabilityRowDTO{},
	}

	// strategy 1: membership-date sets
	dateRows, err := s.reportRepository.MembershipDates(clusterID, []string{startDate, endDate}, scope.Namespaces)
	if err != nil {
		return dtos.DifferenceDTO{}, err
	}
	datesByImage := make(map[int]map[string]bool)
	for _, row := range dateRows {
		if datesByImage[row.ImageID] == nil {
			datesByImage[row.ImageID] = make(map[string]bool)
		}
		datesByImage[row.ImageID][row.SavedDate] = true
	}

	visibleImageIDs := make([]int, 0, len(datesByImage))
	for imageID := range datesByImage {
		visibleImageIDs = append(visibleImageIDs, imageID)
	}
	slices.Sort(visibleImageIDs)

	issues, err := s.reportRepository.LatestIssues(visibleImageIDs)
	if err != nil {
		return dtos.DifferenceDTO{}, err
	}
	issues = filterIssues(issues, scope.Severities, scope.IsFixable)

	for _, issue := range issues {
		dates := datesByImage[issue.ImageID]
		if !dates[endDate] {
			diff.FixedCount++
		}
		if !dates[startDate] {
			diff.NewCount++
		}
		if dates[startDate] && dates[endDate] {
			diff.PersistentCount++
		}
	}

	// strategy 2: row-level bag difference
	startRows, err := s.findingRows(snapshotMembershipResolver{repository: s.reportRepository, date: startDate}, scope)
	if err != nil {
		return dtos.DifferenceDTO{}, err
	}
	endRows, err := s.findingRows(s.resolverFor(&endDate), scope)
	if err != nil {
		return dtos.DifferenceDTO{}, err
	}

	identity := func(r dtos.VulnerabilityRowDTO) string { return r.IdentityKey() }
	fixed := utils.SubtractAll(startRows, endRows, identity)
	created := utils.SubtractAll(endRows, startRows, identity)

	if scope.Limit != nil {
		if len(fixed) > *scope.Limit {
			fixed = fixed[:*scope.Limit]
		}
		if len(created) > *scope.Limit {
			created = created[:*scope.Limit]
		}
	}
	diff.FixedVulnerabilities = fixed
	diff.NewVulnerabilities = created

	return diff, nil
}

func paginate(images []imageInScope, page, limit *int) []imageInScope {
	if limit == nil {
		return images
	}
	offset := utils.OrDefault(page, 0) * *limit
	if offset >= len(images) || offset < 0 || *limit < 0 {
		return []imageInScope{}
	}
	end := offset + *limit
	if end > len(images) {
		end = len(images)
	}
	return images[offset:end]
}

func imageSetsByDate(snapshots []dtos.SnapshotMembershipRow) map[string]map[int]bool {
	byDate := make(map[string]map[int]bool)
	for _, row := range snapshots {
		if byDate[row.SavedDate] == nil {
			byDate[row.SavedDate] = make(map[int]bool)
		}
		byDate[row.SavedDate][row.ImageID] = true
	}
	return byDate
}

func sortedDates(byDate map[string]map[int]bool) []string {
	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	slices.Sort(dates)
	return dates
}
