package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filecat_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filecat_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filecat_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filecat_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filecat_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBRowsAffected = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filecat_db_rows_affected",
			Help:    "Number of rows affected by write operations",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filecat_db_connections_open",
			Help: "Number of open database connections",
		},
	)
)

// Operation metrics
var (
	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filecat_scan_runs_total",
			Help: "Total number of scan operations started",
		},
	)

	ScanIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filecat_scan_is_running",
			Help: "Whether a scan operation is currently running (1 or 0)",
		},
	)

	ScanLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filecat_scan_last_run_duration_seconds",
			Help: "Duration of the last completed scan in seconds",
		},
	)

	ScanFilesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filecat_scan_files_processed_total",
			Help: "Total number of files examined across all scans",
		},
	)

	ScanFilesCategorized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filecat_scan_files_categorized_total",
			Help: "Total number of files categorized across all scans",
		},
	)

	CleanupRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filecat_cleanup_runs_total",
			Help: "Total number of cleanup operations started",
		},
	)

	CleanupIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filecat_cleanup_is_running",
			Help: "Whether a cleanup operation is currently running (1 or 0)",
		},
	)

	OperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filecat_operation_errors_total",
			Help: "Total number of operations that ended in the error state",
		},
		[]string{"operation"},
	)
)
