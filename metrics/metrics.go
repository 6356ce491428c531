package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and path
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackathon_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hackathon_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// RequestInProgress counts HTTP requests currently being processed
	RequestInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hackathon_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method", "path"},
	)

	// RateLimiterRejections counts rejected requests due to rate limiting
	RateLimiterRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackathon_rate_limiter_rejections_total",
			Help: "Total number of requests rejected by rate limiter",
		},
		[]string{"ip"},
	)

	// DatabaseOperationDuration measures database operation duration
	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hackathon_db_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// MemoryStats tracks memory usage stats
	MemoryStats = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hackathon_memory_stats_bytes",
			Help: "Memory statistics in bytes",
		},
		[]string{"type"},
	)

	// GoroutineCount tracks the number of goroutines
	GoroutineCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hackathon_goroutine_count",
			Help: "Number of goroutines",
		},
	)

	// RoundTransitions counts start, stop and toggle actions applied to rounds
	RoundTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackathon_round_transitions_total",
			Help: "Total number of round lifecycle actions applied",
		},
		[]string{"action"},
	)

	// DisplayAllocations counts display requests by outcome: created, reused or empty
	DisplayAllocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackathon_display_allocations_total",
			Help: "Total number of subtask display requests by outcome",
		},
		[]string{"outcome"},
	)

	// Selections counts selection attempts by result
	Selections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackathon_selections_total",
			Help: "Total number of subtask selection attempts by result",
		},
		[]string{"result"},
	)

	// PairsAllocated counts pairs that received shared options
	PairsAllocated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hackathon_pairs_allocated_total",
			Help: "Total number of pairs published with shared options",
		},
	)

	// ScoresRecorded counts judge scores written, by single or dual mode
	ScoresRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackathon_scores_recorded_total",
			Help: "Total number of judge scores recorded",
		},
		[]string{"mode"},
	)

	// Submissions counts stored submissions, created or updated
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackathon_submissions_total",
			Help: "Total number of submissions stored",
		},
		[]string{"result"},
	)
)

// RecordDBOperation records the duration of a database operation
func RecordDBOperation(operation string, table string, startTime time.Time) {
	duration := time.Since(startTime).Seconds()
	DatabaseOperationDuration.WithLabelValues(operation, table).Observe(duration)
}
