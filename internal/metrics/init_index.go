package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initIndexMetrics() {
	r.BuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "docsift_index_builds_total",
			Help: "Total number of index builds",
		},
		[]string{"status"},
	)

	r.BuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docsift_index_build_duration_seconds",
			Help:    "Index build duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 60.0},
		},
	)

	r.BuildWarningsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "docsift_index_build_warnings_total",
			Help: "Documents skipped or degraded during builds",
		},
	)

	r.DocumentsReused = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "docsift_index_documents_reused_total",
			Help: "Documents carried over from the previous snapshot without tokenizing",
		},
	)

	r.IndexDocuments = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "docsift_index_documents",
			Help: "Documents in the active snapshot",
		},
	)

	r.IndexTerms = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "docsift_index_terms",
			Help: "Distinct terms in the active snapshot",
		},
	)

	r.IndexArtifactBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "docsift_index_artifact_bytes",
			Help: "Size of the persisted index artifact",
		},
	)

	r.IndexLastBuildEpoch = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "docsift_index_last_build_timestamp_seconds",
			Help: "Unix time the active snapshot was built",
		},
	)
}
