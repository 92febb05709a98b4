package repositories

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/clusterlens/clusterlens/dtos"
)

// reportRepository produces the normalized row projections the report
// service aggregates in-process. It only ever reads; no locking is taken, so
// a multi-page export may observe a store state that changes between pages.
type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *reportRepository {
	return &reportRepository{
		db: db,
	}
}

func (r *reportRepository) CurrentMemberships(clusterID int, namespaces []string, isCompliant *bool) ([]dtos.MembershipRow, error) {
	rows := []dtos.MembershipRow{}

	query := r.db.Table("images AS i").
		Select("i.id AS image_id, CONCAT(i.name, ':', i.tag) AS image, i.running_in_cluster, i.scan_results AS compliance_state, i.last_scanned, ki.namespace").
		Joins("JOIN clusters c ON c.id = i.cluster_id AND c.deleted_at IS NULL").
		Joins("JOIN kubernetes_images ki ON ki.image_id = i.id AND ki.cluster_id = i.cluster_id").
		Where("i.running_in_cluster = ?", true).
		Where("i.deleted_at IS NULL").
		Where("i.cluster_id = ?", clusterID)

	if len(namespaces) > 0 {
		query = query.Where("ki.namespace IN ?", namespaces)
	}
	query = applyComplianceFilter(query, isCompliant)

	if err := query.Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "could not load current namespace memberships")
	}
	return rows, nil
}

// SnapshotMemberships resolves membership from the daily snapshot for the
// given date. Image display data and compliance come from the live images
// row, and downstream the issues come from the image's current latest scan:
// historical reports show membership as of the date but finding content as
// of today. Like the live path, images no longer running in the cluster are
// excluded.
func (r *reportRepository) SnapshotMemberships(clusterID int, date string, namespaces []string, isCompliant *bool) ([]dtos.MembershipRow, error) {
	rows := []dtos.MembershipRow{}

	query := r.db.Table("history_kubernetes_images AS hki").
		Select("i.id AS image_id, CONCAT(i.name, ':', i.tag) AS image, i.running_in_cluster, i.scan_results AS compliance_state, i.last_scanned, hki.namespace").
		Joins("JOIN images i ON i.id = hki.image_id AND i.cluster_id = hki.cluster_id AND i.deleted_at IS NULL").
		Joins("JOIN clusters c ON c.id = i.cluster_id AND c.deleted_at IS NULL").
		Where("i.running_in_cluster = ?", true).
		Where("hki.cluster_id = ?", clusterID).
		Where("hki.saved_date = ?", date)

	if len(namespaces) > 0 {
		query = query.Where("hki.namespace IN ?", namespaces)
	}
	query = applyComplianceFilter(query, isCompliant)

	if err := query.Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "could not load namespace snapshot memberships")
	}
	return rows, nil
}

func (r *reportRepository) SnapshotMembershipsBetween(clusterID int, startDate, endDate *string, namespaces []string, runningOnly bool) ([]dtos.SnapshotMembershipRow, error) {
	rows := []dtos.SnapshotMembershipRow{}

	query := r.db.Table("history_kubernetes_images AS hki").
		Select("hki.image_id, hki.image, hki.namespace, TO_CHAR(hki.saved_date, 'YYYY-MM-DD') AS saved_date").
		Joins("JOIN images i ON i.id = hki.image_id AND i.cluster_id = hki.cluster_id AND i.deleted_at IS NULL").
		Where("hki.cluster_id = ?", clusterID)

	if runningOnly {
		query = query.Where("i.running_in_cluster = ?", true)
	}
	if startDate != nil {
		query = query.Where("hki.saved_date >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("hki.saved_date <= ?", *endDate)
	}
	if len(namespaces) > 0 {
		query = query.Where("hki.namespace IN ?", namespaces)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "could not load snapshot memberships for date range")
	}
	return rows, nil
}

func (r *reportRepository) MembershipDates(clusterID int, dates []string, namespaces []string) ([]dtos.MembershipDateRow, error) {
	if len(dates) == 0 {
		return []dtos.MembershipDateRow{}, nil
	}
	rows := []dtos.MembershipDateRow{}

	query := r.db.Table("history_kubernetes_images AS hki").
		Select("DISTINCT hki.image_id, TO_CHAR(hki.saved_date, 'YYYY-MM-DD') AS saved_date").
		Joins("JOIN images i ON i.id = hki.image_id AND i.cluster_id = hki.cluster_id AND i.deleted_at IS NULL").
		Where("hki.cluster_id = ?", clusterID).
		Where("hki.saved_date IN ?", dates)

	if len(namespaces) > 0 {
		query = query.Where("hki.namespace IN ?", namespaces)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "could not load membership dates")
	}
	return rows, nil
}

func (r *reportRepository) LatestIssues(imageIDs []int) ([]dtos.IssueRow, error) {
	if len(imageIDs) == 0 {
		return []dtos.IssueRow{}, nil
	}
	rows := []dtos.IssueRow{}

	err := r.db.Table("image_scan_results AS isr").
		Select("isr.image_id, isrs.scanner_name, isrs.type, isrs.severity, isrs.is_fixable, isrs.package_name, isrs.installed_version, isrs.fixed_version").
		Joins("JOIN image_scan_results_issues isrs ON isrs.image_results_id = isr.id AND isrs.deleted_at IS NULL").
		Where("isr.is_latest = ?", true).
		Where("isr.deleted_at IS NULL").
		Where("isr.image_id IN ?", imageIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not load latest scan issues")
	}
	return rows, nil
}

func applyComplianceFilter(query *gorm.DB, isCompliant *bool) *gorm.DB {
	if isCompliant == nil {
		return query
	}
	if *isCompliant {
		return query.Where("i.scan_results = ?", "Compliant")
	}
	return query.Where("i.scan_results = ?", "Non-compliant")
}
