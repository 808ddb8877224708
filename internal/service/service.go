// Package service ties the corpus loader, index builder, store and query
// engines together around one published snapshot.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stormlightlabs/docsift/internal/config"
	"github.com/stormlightlabs/docsift/internal/corpus"
	"github.com/stormlightlabs/docsift/internal/index"
	"github.com/stormlightlabs/docsift/internal/metrics"
	"github.com/stormlightlabs/docsift/internal/search"
	"github.com/stormlightlabs/docsift/internal/store"
	"github.com/stormlightlabs/docsift/internal/suggest"
	"github.com/stormlightlabs/docsift/internal/tokenize"
)

// Service owns the active snapshot. Readers never block on a rebuild.
type Service struct {
	cfg       *config.Config
	path      string
	holder    index.Holder
	engine    *search.Engine
	suggester *suggest.Suggester
	metrics   *metrics.Registry
	size      atomic.Int64

	rebuildMu sync.Mutex
}

// Report describes a completed rebuild.
type Report struct {
	Stats    store.Stats
	Build    index.BuildStats
	Warnings []corpus.Warning
	// Loaded counts documents reused by the loader without reading them.
	Loaded int
}

// New returns a Service publishing an empty snapshot. A nil registry gets a
// private one.
func New(cfg *config.Config, reg *metrics.Registry) (*Service, error) {
	path, err := cfg.IndexPath()
	if err != nil {
		return nil, err
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}

	engine := cfg.Engine()
	engine.Observer = reg

	s := &Service{
		cfg:       cfg,
		path:      path,
		engine:    engine,
		suggester: suggest.New(cfg.Search.CacheSize),
		metrics:   reg,
	}
	s.holder.Swap(index.Empty())
	return s, nil
}

// Open returns a Service serving the persisted artifact. A missing or damaged
// artifact is an error.
func Open(cfg *config.Config, reg *metrics.Registry) (*Service, error) {
	s, err := New(cfg, reg)
	if err != nil {
		return nil, err
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the active snapshot with the artifact on disk.
func (s *Service) Load() error {
	idx, err := store.Load(s.path)
	if err != nil {
		return err
	}
	s.publish(idx, store.StatsFor(s.path, idx).ArtifactSize)
	log.Debug("index loaded", "path", s.path, "documents", idx.Len())
	return nil
}

// Rebuild loads the corpus, builds a new snapshot, persists it and publishes
// it. Unless full is set, unchanged documents are reused from the active
// snapshot. The build lock is held for the whole protocol so concurrent
// builders never interleave writes.
func (s *Service) Rebuild(ctx context.Context, full bool) (*Report, error) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	start := time.Now()
	report, err := s.rebuild(ctx, full)
	warnings, reused := 0, 0
	if report != nil {
		warnings, reused = len(report.Warnings), report.Build.Reused
	}
	s.metrics.RecordBuild(time.Since(start), warnings, reused, err)
	return report, err
}

func (s *Service) rebuild(ctx context.Context, full bool) (*Report, error) {
	lock := store.NewLock(s.path)
	if err := lock.Acquire(ctx); err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			log.Warn("failed to release index lock", "lock", lock.Path(), "err", err)
		}
	}()

	var prev *index.Index
	opts := s.cfg.CorpusOptions()
	if !full {
		prev = s.holder.Load()
		opts.Previous = prev.DocumentByPath
	}

	loaded, err := corpus.Load(ctx, s.cfg.Corpus.Root, opts)
	if err != nil {
		return nil, err
	}

	builder := index.NewBuilder(s.tokenizer())
	builder.Workers = s.cfg.Corpus.Workers
	builder.Shards = s.cfg.Index.Shards

	idx, stats, err := builder.Build(ctx, loaded.Documents, prev)
	if err != nil {
		return nil, err
	}

	size, err := store.Save(s.path, idx)
	if err != nil {
		return nil, err
	}
	s.publish(idx, size)

	log.Info("index rebuilt",
		"documents", stats.Documents,
		"reused", stats.Reused,
		"removed", stats.Removed,
		"terms", stats.Terms,
		"warnings", len(loaded.Warnings),
		"duration", stats.Duration)

	return &Report{
		Stats:    store.StatsFor(s.path, idx),
		Build:    stats,
		Warnings: loaded.Warnings,
		Loaded:   loaded.Reused,
	}, nil
}

func (s *Service) tokenizer() *tokenize.Tokenizer {
	if s.cfg.Index.StopWords {
		return tokenize.New(tokenize.WithStopWords(tokenize.DefaultStopWords))
	}
	return tokenize.New()
}

func (s *Service) publish(idx *index.Index, size int64) {
	s.size.Store(size)
	old := s.holder.Swap(idx)
	if old != nil && old.BuildID() != idx.BuildID() {
		s.suggester.Purge()
	}
	s.metrics.UpdateIndex(idx.Len(), idx.Vocabulary().Len(), size, idx.Meta().BuiltAt)
}
