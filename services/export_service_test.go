package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterlens/clusterlens/dtos"
	"github.com/clusterlens/clusterlens/utils"
)

// fakeReporter serves a fixed row universe and honors page/limit the way the
// real report service does, so the export paging loop can be driven end to
// end without a store.
type fakeReporter struct {
	summaryRows []dtos.VulnerabilitySummaryDTO
	exportRows  []dtos.VulnerabilityRowDTO
	historical  []dtos.HistoricalTotalsDTO
	difference  dtos.DifferenceDTO

	failFromPage *int
	pagesServed  int
}

func slicePage[T any](rows []T, page, limit *int) []T {
	if limit == nil {
		return rows
	}
	offset := 0
	if page != nil {
		offset = *page * *limit
	}
	if offset >= len(rows) || offset < 0 {
		return []T{}
	}
	end := offset + *limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func (f *fakeReporter) RunningVulnerabilities(scope dtos.ReportScope) (dtos.VulnerabilitySummaryPageDTO, error) {
	if f.failFromPage != nil && scope.Page != nil && *scope.Page >= *f.failFromPage {
		return dtos.VulnerabilitySummaryPageDTO{}, errors.New("store went away")
	}
	f.pagesServed++
	return dtos.VulnerabilitySummaryPageDTO{
		Count:   len(f.summaryRows),
		Results: slicePage(f.summaryRows, scope.Page, scope.Limit),
	}, nil
}

func (f *fakeReporter) RunningVulnerabilitiesSummary(scope dtos.ReportScope) (dtos.SummaryTotalsDTO, error) {
	return dtos.SummaryTotalsDTO{}, nil
}

func (f *fakeReporter) VulnerabilityExport(scope dtos.ReportScope) (dtos.VulnerabilityRowPageDTO, error) {
	if f.failFromPage != nil && scope.Page != nil && *scope.Page >= *f.failFromPage {
		return dtos.VulnerabilityRowPageDTO{}, errors.New("store went away")
	}
	f.pagesServed++
	return dtos.VulnerabilityRowPageDTO{
		Count:   len(f.exportRows),
		Results: slicePage(f.exportRows, scope.Page, scope.Limit),
	}, nil
}

func (f *fakeReporter) HistoricalVulnerabilities(clusterID int, startDate, endDate string, namespaces []string, limit *int) (dtos.HistoricalTotalsPageDTO, error) {
	return dtos.HistoricalTotalsPageDTO{Count: len(f.historical), Results: f.historical}, nil
}

func (f *fakeReporter) WorstImages(clusterID int, startDate, endDate *string, namespaces []string) ([]dtos.WorstImagesDTO, error) {
	return nil, nil
}

func (f *fakeReporter) VulnerabilityDifference(clusterID int, startDate, endDate string, scope dtos.ReportScope) (dtos.DifferenceDTO, error) {
	return f.difference, nil
}

func newTestExportService(reporter *fakeReporter) *exportService {
	svc := NewExportService(reporter)
	svc.now = func() time.Time { return testClock }
	return svc
}

func summaryRows(n int) []dtos.VulnerabilitySummaryDTO {
	rows := make([]dtos.VulnerabilitySummaryDTO, n)
	for i := range rows {
		rows[i] = dtos.VulnerabilitySummaryDTO{
			ImageID:         i + 1,
			Image:           fmt.Sprintf("image-%d:latest", i+1),
			Namespaces:      []string{"default"},
			ComplianceState: "Compliant",
		}
	}
	return rows
}

func exportRow(imageID int, cve string) dtos.VulnerabilityRowDTO {
	return dtos.VulnerabilityRowDTO{
		ScannerName:      "trivy",
		ImageID:          imageID,
		Image:            fmt.Sprintf("image-%d:latest", imageID),
		RunningInCluster: true,
		Type:             cve,
		Severity:         dtos.SeverityHigh,
		Namespaces:       []string{"default"},
		PackageName:      "openssl",
	}
}

func TestRunningVulnerabilitiesCsv(t *testing.T) {
	t.Run("every row lands in the file exactly once", func(t *testing.T) {
		reporter := &fakeReporter{summaryRows: summaryRows(120)}
		svc := newTestExportService(reporter)

		file, err := svc.RunningVulnerabilitiesCsv(dtos.ReportScope{ClusterID: 1})
		require.NoError(t, err)

		lines := strings.Split(file.CSV, "\n")
		// 1 header + 120 data rows
		require.Len(t, lines, 121)
		assert.Contains(t, lines[0], "Image,Namespace(s),Compliance")
		assert.True(t, strings.HasPrefix(lines[1], "image-1:latest,"))
		assert.True(t, strings.HasPrefix(lines[120], "image-120:latest,"))
		// 120 rows at a page size of 50 means three fetches
		assert.Equal(t, 3, reporter.pagesServed)
	})

	t.Run("filename carries the generation timestamp", func(t *testing.T) {
		svc := newTestExportService(&fakeReporter{summaryRows: summaryRows(1)})

		file, err := svc.RunningVulnerabilitiesCsv(dtos.ReportScope{ClusterID: 1})
		require.NoError(t, err)
		assert.Equal(t, "Running-Vulnerabilities-2026-09-01-10-30-00.csv", file.Filename)
	})

	t.Run("empty scope still yields the header", func(t *testing.T) {
		svc := newTestExportService(&fakeReporter{})

		file, err := svc.RunningVulnerabilitiesCsv(dtos.ReportScope{ClusterID: 1})
		require.NoError(t, err)
		assert.Len(t, strings.Split(file.CSV, "\n"), 1)
	})

	t.Run("a failing page fails the whole export", func(t *testing.T) {
		reporter := &fakeReporter{
			summaryRows:  summaryRows(120),
			failFromPage: utils.Ptr(1),
		}
		svc := newTestExportService(reporter)

		file, err := svc.RunningVulnerabilitiesCsv(dtos.ReportScope{ClusterID: 1})
		require.Error(t, err)
		assert.Empty(t, file.CSV)
		assert.Empty(t, file.Filename)
	})
}

func TestVulnerabilityExportCsv(t *testing.T) {
	t.Run("trailer lines come after the data rows", func(t *testing.T) {
		reporter := &fakeReporter{exportRows: []dtos.VulnerabilityRowDTO{
			exportRow(1, "CVE-2026-1111"),
			exportRow(2, "CVE-2026-2222"),
		}}
		svc := newTestExportService(reporter)

		file, err := svc.VulnerabilityExportCsv(dtos.ReportScope{ClusterID: 1})
		require.NoError(t, err)

		lines := strings.Split(file.CSV, "\n")
		// 1 header + 2 data rows + 2 trailer lines
		require.Len(t, lines, 5)
		assert.Contains(t, lines[1], "CVE-2026-1111")
		assert.Equal(t, "Scanned 2026-09-01", lines[3])
		assert.Equal(t, "Generated 2026-09-01 10:30:00", lines[4])
	})

	t.Run("filename carries the report date", func(t *testing.T) {
		svc := newTestExportService(&fakeReporter{})

		file, err := svc.VulnerabilityExportCsv(dtos.ReportScope{ClusterID: 1})
		require.NoError(t, err)
		assert.Equal(t, "Vulnerability-Export-2026-09-01.csv", file.Filename)
	})

	t.Run("target date overrides the report date", func(t *testing.T) {
		svc := newTestExportService(&fakeReporter{})

		file, err := svc.VulnerabilityExportCsv(dtos.ReportScope{
			ClusterID:  1,
			TargetDate: utils.Ptr("2026-08-15"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Vulnerability-Export-2026-08-15.csv", file.Filename)
		assert.Contains(t, file.CSV, "Scanned 2026-08-15")
	})

	t.Run("missing package name renders as n/a", func(t *testing.T) {
		row := exportRow(1, "CVE-2026-1111")
		row.PackageName = ""
		svc := newTestExportService(&fakeReporter{exportRows: []dtos.VulnerabilityRowDTO{row}})

		file, err := svc.VulnerabilityExportCsv(dtos.ReportScope{ClusterID: 1})
		require.NoError(t, err)
		assert.Contains(t, strings.Split(file.CSV, "\n")[1], ",n/a,")
	})
}

func TestHistoricalVulnerabilitiesCsv(t *testing.T) {
	t.Run("one line per date plus the header", func(t *testing.T) {
		reporter := &fakeReporter{historical: []dtos.HistoricalTotalsDTO{
			{SavedDate: "2026-08-31", TotalCritical: 2, TotalFixableCritical: 1},
			{SavedDate: "2026-08-30", TotalMedium: 4},
		}}
		svc := newTestExportService(reporter)

		file, err := svc.HistoricalVulnerabilitiesCsv(1, "2026-08-01", "2026-08-31", nil)
		require.NoError(t, err)

		lines := strings.Split(file.CSV, "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "2026-08-31,2,0,0,0,0,1,0,0,0,0", lines[1])
		assert.Equal(t, "2026-08-30,0,0,4,0,0,0,0,0,0,0", lines[2])
	})
}

func TestVulnerabilityDifferenceCsv(t *testing.T) {
	t.Run("new and fixed rows are status tagged", func(t *testing.T) {
		reporter := &fakeReporter{difference: dtos.DifferenceDTO{
			NewVulnerabilities:   []dtos.VulnerabilityRowDTO{exportRow(2, "CVE-2026-2222")},
			FixedVulnerabilities: []dtos.VulnerabilityRowDTO{exportRow(1, "CVE-2026-1111")},
		}}
		svc := newTestExportService(reporter)

		file, err := svc.VulnerabilityDifferenceCsv(1, "2026-08-01", "2026-08-15", dtos.ReportScope{})
		require.NoError(t, err)

		lines := strings.Split(file.CSV, "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[1], "New,"))
		assert.Contains(t, lines[1], "CVE-2026-2222")
		assert.True(t, strings.HasPrefix(lines[2], "Fixed,"))
		assert.Contains(t, lines[2], "CVE-2026-1111")
		assert.Equal(t, "Vulnerability-Difference-2026-08-01-to-2026-08-15.csv", file.Filename)
	})
}
