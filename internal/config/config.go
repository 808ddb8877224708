package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/stormlightlabs/docsift/internal/corpus"
	"github.com/stormlightlabs/docsift/internal/search"
)

// Config represents the application configuration.
type Config struct {
	Corpus  CorpusConfig   `toml:"corpus"`
	Index   IndexConfig    `toml:"index"`
	Search  SearchConfig   `toml:"search"`
	Scoring search.Weights `toml:"scoring"`
	Serve   ServeConfig    `toml:"serve"`
	Display DisplayConfig  `toml:"display"`
}

// CorpusConfig describes where documents come from.
type CorpusConfig struct {
	Root       string   `toml:"root"`                                  // Corpus root directory
	Extensions []string `toml:"extensions" validate:"dive,startswith=."` // Eligible file extensions
	Exclude    []string `toml:"exclude"`                               // Glob patterns skipped during the walk
	Workers    int      `toml:"workers" validate:"gte=0"`              // Parallel readers, 0 = GOMAXPROCS
}

// IndexConfig holds index build settings.
type IndexConfig struct {
	Path      string `toml:"path"`                    // Artifact path or name, empty = <root>/.docsift/index.dsft
	StopWords bool   `toml:"stop_words"`              // Drop common English words while indexing
	Shards    int    `toml:"shards" validate:"gte=0"` // Merge buckets, 0 = default
}

// SearchConfig holds query-time settings.
type SearchConfig struct {
	DefaultLimit  int  `toml:"default_limit" validate:"gt=0"`
	Fuzzy         bool `toml:"fuzzy"`
	MaxDistance   int  `toml:"max_distance" validate:"gte=0,lte=2"`
	MaxExpansions int  `toml:"max_expansions" validate:"gte=0"`
	SnippetWindow int  `toml:"snippet_window" validate:"gte=20"`
	MaxSnippets   int  `toml:"max_snippets" validate:"gte=0"`
	SuggestLimit  int  `toml:"suggest_limit" validate:"gt=0"`
	CacheSize     int  `toml:"cache_size" validate:"gte=0"`
}

// ServeConfig holds settings for the HTTP API and watch mode.
type ServeConfig struct {
	Addr       string `toml:"addr" validate:"required"`
	DebounceMS int    `toml:"debounce_ms" validate:"gte=0"`
}

// DisplayConfig holds display-related settings.
type DisplayConfig struct {
	Format      string `toml:"format" validate:"oneof=table json paths"` // Default output format
	ColorOutput *bool  `toml:"color_output"`                             // Enable colored output (nil = auto)
}

// Load reads the configuration from the XDG config path or uses defaults.
func Load() (*Config, error) {
	configPath, err := FilePath()
	if err != nil {
		return nil, err
	}
	return LoadFile(configPath)
}

// LoadFile reads the configuration at path. A missing file yields defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, invalid("cannot parse "+path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the XDG config path.
func (cfg *Config) Save() error {
	configPath, err := FilePath()
	if err != nil {
		return err
	}
	return cfg.SaveFile(configPath)
}

// SaveFile writes the configuration to path.
func (cfg *Config) SaveFile(path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// CorpusOptions returns the loader settings for cfg.
func (cfg *Config) CorpusOptions() corpus.Options {
	return corpus.Options{
		Extensions: cfg.Corpus.Extensions,
		Exclude:    cfg.Corpus.Exclude,
		Workers:    cfg.Corpus.Workers,
	}
}

// Engine returns a search engine configured from cfg.
func (cfg *Config) Engine() *search.Engine {
	e := search.New()
	e.Weights = cfg.Scoring
	e.MaxDistance = cfg.Search.MaxDistance
	e.MaxExpansions = cfg.Search.MaxExpansions
	e.SnippetWindow = cfg.Search.SnippetWindow
	e.MaxSnippets = cfg.Search.MaxSnippets
	return e
}
