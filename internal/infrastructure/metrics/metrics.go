// Package metrics holds the Prometheus collectors of the search service and the
// ingestion worker. Everything registers on the default registry and is
// scraped from /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "plansearch"

// Status label values.
const (
	StatusOK          = "ok"
	StatusInvalid     = "invalid"
	StatusUnavailable = "unavailable"
	StatusError       = "error"
)

// Detail miss reasons.
const (
	MissReasonNotFound = "not_found"
	MissReasonDecode   = "decode"
	MissReasonKey      = "bad_key"
	MissReasonStale    = "stale"
)

var (
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of availability searches by outcome.",
		},
		[]string{"status"},
	)

	SearchDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Availability search latency in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
	)

	// SearchMatches observes the number of index matches before truncation.
	SearchMatches = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_matches",
			Help:      "Number of index entries matched per search.",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 250, 500, 1000, 5000},
		},
	)

	SearchTruncatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_truncated_total",
			Help:      "Searches whose matches exceeded the match ceiling.",
		},
	)

	DetailMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detail_misses_total",
			Help:      "Index matches skipped because their detail could not be resolved.",
		},
		[]string{"reason"},
	)

	IndexWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_writes_total",
			Help:      "Index write attempts by outcome.",
		},
		[]string{"status"},
	)

	IndexSweptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_swept_total",
			Help:      "Ghost index members removed by the reconcile sweep.",
		},
	)

	IngestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_runs_total",
			Help:      "Provider sync runs by outcome.",
		},
		[]string{"status"},
	)
)
