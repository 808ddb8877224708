package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type accessor struct {
	get func(*Config) string
	set func(*Config, string) error
}

func intKey(field func(*Config) *int) accessor {
	return accessor{
		get: func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, v string) error {
			var n int
			if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
				return fmt.Errorf("invalid integer: %s", v)
			}
			*field(c) = n
			return nil
		},
	}
}

func floatKey(field func(*Config) *float64) accessor {
	return accessor{
		get: func(c *Config) string { return strconv.FormatFloat(*field(c), 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid number: %s", v)
			}
			*field(c) = f
			return nil
		},
	}
}

func boolKey(field func(*Config) *bool) accessor {
	return accessor{
		get: func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			switch v {
			case "true":
				*field(c) = true
			case "false":
				*field(c) = false
			default:
				return fmt.Errorf("invalid boolean: %s (use true/false)", v)
			}
			return nil
		},
	}
}

func stringKey(field func(*Config) *string) accessor {
	return accessor{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

func listKey(field func(*Config) *[]string) accessor {
	return accessor{
		get: func(c *Config) string { return strings.Join(*field(c), ",") },
		set: func(c *Config, v string) error {
			var out []string
			for _, item := range strings.Split(v, ",") {
				if item = strings.TrimSpace(item); item != "" {
					out = append(out, item)
				}
			}
			*field(c) = out
			return nil
		},
	}
}

var accessors = map[string]accessor{
	"corpus.root":           stringKey(func(c *Config) *string { return &c.Corpus.Root }),
	"corpus.extensions":     listKey(func(c *Config) *[]string { return &c.Corpus.Extensions }),
	"corpus.exclude":        listKey(func(c *Config) *[]string { return &c.Corpus.Exclude }),
	"corpus.workers":        intKey(func(c *Config) *int { return &c.Corpus.Workers }),
	"index.path":            stringKey(func(c *Config) *string { return &c.Index.Path }),
	"index.stop_words":      boolKey(func(c *Config) *bool { return &c.Index.StopWords }),
	"index.shards":          intKey(func(c *Config) *int { return &c.Index.Shards }),
	"search.default_limit":  intKey(func(c *Config) *int { return &c.Search.DefaultLimit }),
	"search.fuzzy":          boolKey(func(c *Config) *bool { return &c.Search.Fuzzy }),
	"search.max_distance":   intKey(func(c *Config) *int { return &c.Search.MaxDistance }),
	"search.max_expansions": intKey(func(c *Config) *int { return &c.Search.MaxExpansions }),
	"search.snippet_window": intKey(func(c *Config) *int { return &c.Search.SnippetWindow }),
	"search.max_snippets":   intKey(func(c *Config) *int { return &c.Search.MaxSnippets }),
	"search.suggest_limit":  intKey(func(c *Config) *int { return &c.Search.SuggestLimit }),
	"search.cache_size":     intKey(func(c *Config) *int { return &c.Search.CacheSize }),
	"scoring.title":         floatKey(func(c *Config) *float64 { return &c.Scoring.Title }),
	"scoring.heading":       floatKey(func(c *Config) *float64 { return &c.Scoring.Heading }),
	"scoring.filename":      floatKey(func(c *Config) *float64 { return &c.Scoring.Filename }),
	"scoring.code":          floatKey(func(c *Config) *float64 { return &c.Scoring.Code }),
	"scoring.body":          floatKey(func(c *Config) *float64 { return &c.Scoring.Body }),
	"scoring.fuzzy":         floatKey(func(c *Config) *float64 { return &c.Scoring.Fuzzy }),
	"scoring.phrase_bonus":  floatKey(func(c *Config) *float64 { return &c.Scoring.PhraseBonus }),
	"scoring.length_pivot":  floatKey(func(c *Config) *float64 { return &c.Scoring.LengthPivot }),
	"serve.addr":            stringKey(func(c *Config) *string { return &c.Serve.Addr }),
	"serve.debounce_ms":     intKey(func(c *Config) *int { return &c.Serve.DebounceMS }),
	"display.format":        stringKey(func(c *Config) *string { return &c.Display.Format }),
	"display.color_output": {
		get: func(c *Config) string {
			if c.Display.ColorOutput == nil {
				return "auto"
			}
			return strconv.FormatBool(*c.Display.ColorOutput)
		},
		set: func(c *Config, v string) error {
			switch v {
			case "auto":
				c.Display.ColorOutput = nil
			case "true", "false":
				b := v == "true"
				c.Display.ColorOutput = &b
			default:
				return fmt.Errorf("invalid value: %s (use true/false/auto)", v)
			}
			return nil
		},
	},
}

// Keys returns every settable key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(accessors))
	for k := range accessors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a dotted key such as "search.default_limit".
func (cfg *Config) Get(key string) (string, error) {
	a, ok := accessors[key]
	if !ok {
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
	return a.get(cfg), nil
}

// Set parses value into the field named by key and revalidates. On failure
// cfg is left unchanged.
func (cfg *Config) Set(key, value string) error {
	a, ok := accessors[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	next := cfg.clone()
	if err := a.set(next, value); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*cfg = *next
	return nil
}

func (cfg *Config) clone() *Config {
	c := *cfg
	c.Corpus.Extensions = append([]string(nil), cfg.Corpus.Extensions...)
	c.Corpus.Exclude = append([]string(nil), cfg.Corpus.Exclude...)
	if cfg.Display.ColorOutput != nil {
		b := *cfg.Display.ColorOutput
		c.Display.ColorOutput = &b
	}
	return &c
}
