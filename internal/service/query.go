package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/stormlightlabs/docsift/internal/config"
	"github.com/stormlightlabs/docsift/internal/index"
	"github.com/stormlightlabs/docsift/internal/metrics"
	"github.com/stormlightlabs/docsift/internal/search"
	"github.com/stormlightlabs/docsift/internal/store"
	"github.com/stormlightlabs/docsift/internal/suggest"
)

// NewQuery returns a query carrying the configured defaults.
func (s *Service) NewQuery(text string) search.Query {
	q := search.NewQuery(text)
	q.Fuzzy = s.cfg.Search.Fuzzy
	q.Limit = s.cfg.Search.DefaultLimit
	return q
}

// Search runs q against the active snapshot. The limit is taken as given;
// a non-positive limit yields no results. Use NewQuery for the configured
// default.
func (s *Service) Search(q search.Query) []search.Result {
	return s.engine.Search(s.holder.Load(), q)
}

// Suggest completes the last word of partial. A non-positive limit uses the
// configured suggestion limit.
func (s *Service) Suggest(partial string, limit int) []suggest.Suggestion {
	if limit <= 0 {
		limit = s.cfg.Search.SuggestLimit
	}
	out := s.suggester.Suggest(s.holder.Load(), partial, limit)
	s.metrics.RecordSuggest(len(out), s.suggester.Len())
	return out
}

// Alternatives proposes indexed terms close to the words of text, for
// queries that found nothing.
func (s *Service) Alternatives(text string, limit int) []string {
	idx := s.holder.Load()
	return suggest.Alternatives(idx, search.Terms(idx, text), limit)
}

// Stats describes the active snapshot and its artifact.
func (s *Service) Stats() store.Stats {
	st := store.StatsFor(s.path, s.holder.Load())
	if st.ArtifactSize == 0 {
		st.ArtifactSize = s.size.Load()
	}
	return st
}

// Documents returns every document in the active snapshot, sorted by path.
func (s *Service) Documents() []*index.Document {
	return s.holder.Load().Documents()
}

// Document looks up one document by corpus-relative path.
func (s *Service) Document(path string) (*index.Document, bool) {
	return s.holder.Load().DocumentByPath(path)
}

// Source reads the original file of an indexed document from the corpus
// root. Paths that are not in the active snapshot are rejected.
func (s *Service) Source(path string) (string, error) {
	if _, ok := s.Document(path); !ok {
		return "", fmt.Errorf("document not indexed: %s", path)
	}
	raw, err := os.ReadFile(filepath.Join(s.cfg.Corpus.Root, filepath.FromSlash(path)))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(raw), nil
}

// Snapshot returns the active index.
func (s *Service) Snapshot() *index.Index { return s.holder.Load() }

// Config returns the configuration the service was created with.
func (s *Service) Config() *config.Config { return s.cfg }

// IndexPath returns the artifact location.
func (s *Service) IndexPath() string { return s.path }

// Metrics returns the registry the service records into.
func (s *Service) Metrics() *metrics.Registry { return s.metrics }
