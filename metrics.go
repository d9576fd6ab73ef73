package neogeosync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

const instrumentationName = "github.com/saulfrancisco-ruizacevedo/go-neogeosync"

var tracer = otel.Tracer(instrumentationName)

var (
	// cacheRequests counts identifiers passed to GetOrLoad by the state they were found in.
	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neogeosync_feature_cache_requests_total",
		Help: "Feature cache lookups by outcome",
	}, []string{"outcome"})

	featureFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neogeosync_feature_fetches_total",
		Help: "Completed feature fetches by result",
	}, []string{"result"})

	featureFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "neogeosync_feature_fetch_duration_seconds",
		Help:    "Feature fetch duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
	})

	// graphQueries counts bounds query cycles by outcome (applied, stale, failed).
	graphQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neogeosync_graph_queries_total",
		Help: "Bounds query cycles by outcome",
	}, []string{"outcome"})

	patchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "neogeosync_graph_patch_size",
		Help:    "Number of entities touched per applied graph patch",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
	}, []string{"kind"})
)
