package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/stormlightlabs/docsift/internal/search"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.GetGauge().GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.SearchesTotal == nil || r.BuildsTotal == nil || r.HTTPRequestsTotal == nil {
		t.Error("metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestObserveSearch(t *testing.T) {
	r := NewRegistry()
	var _ search.Observer = r

	r.ObserveSearch(search.Query{Text: "order", Fuzzy: true}, 3, time.Millisecond)
	r.ObserveSearch(search.Query{Text: "order flow", Phrase: true}, 0, time.Millisecond)
	r.ObserveSearch(search.Query{Text: "order"}, 1, time.Millisecond)
	r.ObserveSearch(search.Query{Text: "order"}, 2, time.Millisecond)

	tests := []struct {
		mode, outcome string
		want          float64
	}{
		{"fuzzy", "hit", 1},
		{"phrase", "empty", 1},
		{"exact", "hit", 2},
		{"exact", "empty", 0},
	}
	for _, tt := range tests {
		t.Run(tt.mode+"/"+tt.outcome, func(t *testing.T) {
			c, err := r.SearchesTotal.GetMetricWithLabelValues(tt.mode, tt.outcome)
			if err != nil {
				t.Fatalf("Failed to get metric: %v", err)
			}
			if got := counterValue(t, c); got != tt.want {
				t.Errorf("searches_total{%s,%s} = %v, want %v", tt.mode, tt.outcome, got, tt.want)
			}
		})
	}
}

func TestRecordBuild(t *testing.T) {
	r := NewRegistry()
	r.RecordBuild(time.Second, 2, 5, nil)
	r.RecordBuild(time.Second, 7, 9, errors.New("boom"))

	ok, _ := r.BuildsTotal.GetMetricWithLabelValues("success")
	failed, _ := r.BuildsTotal.GetMetricWithLabelValues("failure")
	if got := counterValue(t, ok); got != 1 {
		t.Errorf("success builds = %v, want 1", got)
	}
	if got := counterValue(t, failed); got != 1 {
		t.Errorf("failed builds = %v, want 1", got)
	}
	if got := counterValue(t, r.BuildWarningsTotal); got != 2 {
		t.Errorf("warnings = %v, want 2", got)
	}
	if got := counterValue(t, r.DocumentsReused); got != 5 {
		t.Errorf("reused = %v, want 5", got)
	}
}

func TestUpdateIndex(t *testing.T) {
	r := NewRegistry()
	built := time.Unix(1700000000, 0)
	r.UpdateIndex(12, 340, 4096, built)

	if got := gaugeValue(t, r.IndexDocuments); got != 12 {
		t.Errorf("documents = %v", got)
	}
	if got := gaugeValue(t, r.IndexTerms); got != 340 {
		t.Errorf("terms = %v", got)
	}
	if got := gaugeValue(t, r.IndexArtifactBytes); got != 4096 {
		t.Errorf("bytes = %v", got)
	}
	if got := gaugeValue(t, r.IndexLastBuildEpoch); got != 1700000000 {
		t.Errorf("built at = %v", got)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.RecordSuggest(3, 1)
	r.RecordHTTPRequest("GET", "/api/search", "200", 5*time.Millisecond)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, name := range []string{
		"docsift_suggestions_total",
		"docsift_http_requests_total",
		"docsift_suggest_cache_entries 1",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("exposition missing %q", name)
		}
	}
}
