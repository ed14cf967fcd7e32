// ABOUTME: Prometheus collectors for embedding, indexing, search, and HTTP activity.
// ABOUTME: Collectors are package-level and registered once from the binary.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "private_journal"

var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding backend calls",
		},
		[]string{"backend", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding backend call duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"backend"},
	)

	// EntriesWrittenTotal counts primary markdown writes by outcome.
	EntriesWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_written_total",
			Help:      "Journal entries written, by status",
		},
		[]string{"status"},
	)

	// IndexWritesTotal counts sidecar outcomes: indexed, skipped (empty text), failed.
	IndexWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_writes_total",
			Help:      "Embedding sidecar writes, by status",
		},
		[]string{"status"},
	)

	CorruptEntriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corrupt_index_entries_total",
			Help:      "Embedding sidecars skipped because they could not be used",
		},
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Search and listing calls, by operation",
		},
		[]string{"op"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search and listing duration in seconds, including the directory walk",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)
)

var registerOnce sync.Once

// Register registers all collectors with the default registry. Safe to call repeatedly.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			EmbeddingRequestsTotal,
			EmbeddingRequestDuration,
			EntriesWrittenTotal,
			IndexWritesTotal,
			CorruptEntriesTotal,
			SearchRequestsTotal,
			SearchDuration,
			HTTPRequestsTotal,
			HTTPRequestDuration,
		)
	})
}
