package config

import (
	"slices"

	"github.com/stormlightlabs/docsift/internal/corpus"
	"github.com/stormlightlabs/docsift/internal/search"
	"github.com/stormlightlabs/docsift/internal/suggest"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Root:       ".",
			Extensions: slices.Clone(corpus.DefaultExtensions),
		},
		Search: SearchConfig{
			DefaultLimit: search.DefaultLimit, Fuzzy: true, MaxDistance: 2, MaxExpansions: 16,
			SnippetWindow: 160, MaxSnippets: 3, SuggestLimit: 10, CacheSize: suggest.DefaultCacheSize,
		},
		Scoring: search.DefaultWeights(),
		Serve:   ServeConfig{Addr: "127.0.0.1:8765", DebounceMS: 500},
		Display: DisplayConfig{Format: "table"},
	}
}
