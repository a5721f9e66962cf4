package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Upstream API metrics
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcatalog_upstream_requests_total",
			Help: "Total number of requests sent to the show API, by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "showcatalog_upstream_request_duration_seconds",
			Help:    "Latency of requests sent to the show API.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

// Catalog state metrics
var (
	OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcatalog_operations_total",
			Help: "Total number of catalog operations, by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	CatalogShows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "showcatalog_shows",
			Help: "Number of shows held in the catalog.",
		},
	)

	CatalogGenres = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "showcatalog_genres",
			Help: "Number of distinct genres in the catalog.",
		},
	)

	FetchesInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "showcatalog_fetches_in_flight",
			Help: "Number of catalog fetches currently outstanding.",
		},
	)
)

// Operation outcomes
const (
	OutcomeStored  = "stored"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

func init() {
	prometheus.MustRegister(
		UpstreamRequestsTotal,
		UpstreamRequestDuration,
		OperationsTotal,
		CatalogShows,
		CatalogGenres,
		FetchesInFlight,
	)
}
