package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search metrics exported to Prometheus
var (
	SearchQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_queries_total",
			Help: "Total number of search queries",
		},
		[]string{"category"},
	)

	SearchQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_query_duration_seconds",
			Help:    "Search query duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"category"},
	)

	SearchResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_results_total",
			Help: "Total number of search results returned",
		},
		[]string{"category"},
	)

	SearchZeroResultsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_zero_results_total",
			Help: "Total number of searches that returned no results",
		},
	)

	SearchClicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_clicks_total",
			Help: "Total number of tracked search result clicks",
		},
		[]string{"result_type"},
	)

	SearchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_errors_total",
			Help: "Total number of search errors",
		},
		[]string{"category"},
	)

	AnalyticsWriteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_analytics_write_failures_total",
			Help: "Total number of failed search analytics writes (non-fatal)",
		},
		[]string{"operation"},
	)
)
