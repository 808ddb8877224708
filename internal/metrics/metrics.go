package metrics

import (
	"time"

	"github.com/stormlightlabs/docsift/internal/search"
)

// ObserveSearch records one executed query. It satisfies search.Observer.
func (r *Registry) ObserveSearch(q search.Query, results int, elapsed time.Duration) {
	mode := searchMode(q)
	outcome := "hit"
	if results == 0 {
		outcome = "empty"
	}
	r.SearchesTotal.WithLabelValues(mode, outcome).Inc()
	r.SearchDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	r.SearchResults.Observe(float64(results))
}

func searchMode(q search.Query) string {
	switch {
	case q.Phrase:
		return "phrase"
	case q.Fuzzy:
		return "fuzzy"
	default:
		return "exact"
	}
}

// RecordSuggest records a suggestion request and the current cache size.
func (r *Registry) RecordSuggest(results, cacheEntries int) {
	outcome := "hit"
	if results == 0 {
		outcome = "empty"
	}
	r.SuggestionsTotal.WithLabelValues(outcome).Inc()
	r.SuggestCacheEntries.Set(float64(cacheEntries))
}

// RecordBuild records a finished or failed build.
func (r *Registry) RecordBuild(duration time.Duration, warnings, reused int, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	r.BuildsTotal.WithLabelValues(status).Inc()
	r.BuildDuration.Observe(duration.Seconds())
	if err != nil {
		return
	}
	r.BuildWarningsTotal.Add(float64(warnings))
	r.DocumentsReused.Add(float64(reused))
}

// UpdateIndex sets the gauges describing the active snapshot.
func (r *Registry) UpdateIndex(documents, terms int, artifactBytes int64, builtAt time.Time) {
	r.IndexDocuments.Set(float64(documents))
	r.IndexTerms.Set(float64(terms))
	r.IndexArtifactBytes.Set(float64(artifactBytes))
	if !builtAt.IsZero() {
		r.IndexLastBuildEpoch.Set(float64(builtAt.Unix()))
	}
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
