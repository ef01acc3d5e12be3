package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Journal metrics
	EntriesCreated  prometheus.Counter
	EntriesDeleted  prometheus.Counter
	CascadeRuns     prometheus.Counter
	CascadeAborts   prometheus.Counter
	CascadeDuration prometheus.Histogram
	JournalReorders prometheus.Counter

	// Attendance metrics
	AttendanceActions *prometheus.CounterVec
	StatsCacheHits    *prometheus.CounterVec
	StatsPollRetries  prometheus.Counter

	// Sync metrics
	SavesDropped   prometheus.Counter
	StaleResponses prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Journal metrics
		EntriesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dayledger_entries_created_total",
			Help: "Total number of ledger entries created",
		}),
		EntriesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dayledger_entries_deleted_total",
			Help: "Total number of ledger entries deleted",
		}),
		CascadeRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dayledger_cascade_runs_total",
			Help: "Total number of journal recompute cascades",
		}),
		CascadeAborts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dayledger_cascade_aborts_total",
			Help: "Total number of cascades aborted partway",
		}),
		CascadeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dayledger_cascade_duration_seconds",
			Help:    "Duration of journal recompute cascades",
			Buckets: prometheus.DefBuckets,
		}),
		JournalReorders: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dayledger_journal_reorders_total",
			Help: "Total number of journal reorders",
		}),

		// Attendance metrics
		AttendanceActions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dayledger_attendance_actions_total",
				Help: "Total attendance log actions by kind",
			},
			[]string{"action"},
		),
		StatsCacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dayledger_stats_cache_requests_total",
				Help: "Attendance stats cache requests by outcome",
			},
			[]string{"outcome"},
		),
		StatsPollRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dayledger_stats_poll_retries_total",
			Help: "Total retries while polling attendance stats",
		}),

		// Sync metrics
		SavesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dayledger_saves_dropped_total",
			Help: "Total saves dropped because one was already in flight",
		}),
		StaleResponses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dayledger_stale_responses_total",
			Help: "Total remote responses discarded as stale",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dayledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dayledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "dayledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dayledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),
	}
}
