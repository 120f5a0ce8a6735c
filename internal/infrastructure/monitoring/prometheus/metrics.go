// Package prometheus exposes the ingestion and search metrics for the
// patent-prophet services.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector registered by the application. A single
// instance is created at startup and handed to the components that record
// into it; tests construct their own instance against a private registry.
type Metrics struct {
	PagesFetched      prometheus.Counter
	RecordsNormalized prometheus.Counter
	RecordsSkipped    prometheus.Counter
	PatentsUpserted   prometheus.Counter
	BatchDuration     prometheus.Histogram

	SearchRequests  *prometheus.CounterVec
	SearchCacheHits prometheus.Counter
	SearchDuration  prometheus.Histogram
}

// New creates the metric collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "prophet",
			Subsystem: "ingest",
			Name:      "pages_fetched_total",
			Help:      "Number of source pages fetched during ingestion runs.",
		}),
		RecordsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "prophet",
			Subsystem: "ingest",
			Name:      "records_normalized_total",
			Help:      "Raw records successfully normalized into the canonical model.",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "prophet",
			Subsystem: "ingest",
			Name:      "records_skipped_total",
			Help:      "Raw records dropped for lacking a publication number.",
		}),
		PatentsUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "prophet",
			Subsystem: "ingest",
			Name:      "patents_upserted_total",
			Help:      "Patents written (inserted or updated) to the relational store.",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "prophet",
			Subsystem: "ingest",
			Name:      "batch_duration_seconds",
			Help:      "Wall time spent upserting one page batch.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		SearchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prophet",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Search requests by outcome.",
		}, []string{"status"}),
		SearchCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "prophet",
			Subsystem: "search",
			Name:      "cache_hits_total",
			Help:      "Search responses served from the Redis cache.",
		}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "prophet",
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "End-to-end search request latency.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.PagesFetched,
		m.RecordsNormalized,
		m.RecordsSkipped,
		m.PatentsUpserted,
		m.BatchDuration,
		m.SearchRequests,
		m.SearchCacheHits,
		m.SearchDuration,
	)
	return m
}

// NewUnregistered creates a Metrics instance backed by a throwaway registry.
// Useful for tests and for CLI runs that do not expose a metrics endpoint.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}
