package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// mutation outcomes per (entity, verb)
	MutationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregate_mutation_total",
			Help: "Total number of aggregate mutations by entity, verb and outcome",
		},
		[]string{"entity", "verb", "outcome"},
	)

	// business-rule denials by reason code
	RuleDenialTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregate_rule_denial_total",
			Help: "Total number of mutations denied by a business rule",
		},
		[]string{"code"},
	)

	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// database query latency (seconds)
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "table"},
	)

	// aggregate snapshot cache hits/misses
	SnapshotLookupTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregate_snapshot_lookup_total",
			Help: "Aggregate snapshot cache lookups by result",
		},
		[]string{"result"}, // result: hit, miss, error
	)
)

func RecordMutation(entity, verb, outcome string) {
	MutationTotal.WithLabelValues(entity, verb, outcome).Inc()
}

func RecordRuleDenial(code string) {
	RuleDenialTotal.WithLabelValues(code).Inc()
}

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func RecordSnapshotLookup(result string) {
	SnapshotLookupTotal.WithLabelValues(result).Inc()
}
