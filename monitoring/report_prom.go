package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var RollupReportsGenerated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "clusterlens_reports_rollup_generated_total",
	Help: "The total number of vulnerability rollup reports generated",
})

var DifferenceReportsGenerated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "clusterlens_reports_difference_generated_total",
	Help: "The total number of vulnerability difference reports generated",
})

var CsvExportsGenerated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "clusterlens_reports_csv_exports_total",
	Help: "The total number of CSV exports generated",
})

var CsvExportFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "clusterlens_reports_csv_export_failures_total",
	Help: "The total number of CSV exports that failed before returning bytes",
})

var SnapshotCaptures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "clusterlens_snapshot_captures_total",
	Help: "The total number of daily namespace snapshot captures",
})

var SnapshotRowsWritten = promauto.NewCounter(prometheus.CounterOpts{
	Name: "clusterlens_snapshot_rows_written_total",
	Help: "The total number of namespace snapshot rows written",
})

var ScanResultsSaved = promauto.NewCounter(prometheus.CounterOpts{
	Name: "clusterlens_scan_results_saved_total",
	Help: "The total number of scan results appended to the finding store",
})
