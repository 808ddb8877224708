package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSearchMetrics() {
	r.SearchesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "docsift_searches_total",
			Help: "Total number of searches executed",
		},
		[]string{"mode", "outcome"},
	)

	r.SearchDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docsift_search_duration_seconds",
			Help:    "Search execution duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"mode"},
	)

	r.SearchResults = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docsift_search_results",
			Help:    "Number of results returned per search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	r.SuggestionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "docsift_suggestions_total",
			Help: "Total number of suggestion requests",
		},
		[]string{"outcome"},
	)

	r.SuggestCacheEntries = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "docsift_suggest_cache_entries",
			Help: "Entries held in the suggestion cache",
		},
	)
}
