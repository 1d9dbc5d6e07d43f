package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	LedgerOperations *prometheus.CounterVec
	EntryAmount      *prometheus.HistogramVec

	// Business operation metrics
	DepositsConfirmed  *prometheus.CounterVec
	WithdrawalsPaid    *prometheus.CounterVec
	TransfersCompleted *prometheus.CounterVec
	SwapsCompleted     *prometheus.CounterVec
	RewardsGranted     *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished    prometheus.Counter
	OutboxPublishError prometheus.Counter
	OutboxBacklog      prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Ledger metrics
		LedgerOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Total balance operations by kind and business type",
			},
			[]string{"operation", "biz_type"},
		),
		EntryAmount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_entry_amount",
				Help:    "Absolute ledger entry amounts",
				Buckets: []float64{0.01, 0.1, 1, 10, 100, 1000, 10000, 100000},
			},
			[]string{"currency"},
		),

		// Business operation metrics
		DepositsConfirmed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_deposits_confirmed_total",
				Help: "Total deposits confirmed",
			},
			[]string{"currency"},
		),
		WithdrawalsPaid: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_withdrawals_paid_total",
				Help: "Total withdrawals paid out",
			},
			[]string{"currency"},
		),
		TransfersCompleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transfers_completed_total",
				Help: "Total internal transfers completed",
			},
			[]string{"currency"},
		),
		SwapsCompleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_swaps_completed_total",
				Help: "Total swaps completed by currency pair",
			},
			[]string{"from_currency", "to_currency"},
		),
		RewardsGranted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_rewards_granted_total",
				Help: "Total rewards granted",
			},
			[]string{"currency"},
		),

		// Outbox metrics
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxPublishError: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_outbox_publish_errors_total",
			Help: "Total outbox publish failures",
		}),
		OutboxBacklog: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_outbox_backlog",
			Help: "Unpublished outbox events observed at last poll",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
