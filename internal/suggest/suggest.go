// Package suggest completes partial terms against an index vocabulary.
package suggest

import (
	"slices"
	"sort"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/stormlightlabs/docsift/internal/index"
	"github.com/stormlightlabs/docsift/internal/tokenize"
)

// DefaultCacheSize is the number of ranked prefix ranges kept in memory.
const DefaultCacheSize = 256

// Suggestion is one completion and its posting count across the corpus.
type Suggestion struct {
	Term      string `json:"term"`
	Frequency int    `json:"frequency"`
}

type cacheKey struct {
	build  string
	prefix string
}

// Suggester ranks vocabulary completions. Ranked ranges are cached under the
// build id of the snapshot they came from.
type Suggester struct {
	cache *lru.Cache[cacheKey, []Suggestion]
}

// New creates a Suggester caching up to size ranked prefixes.
func New(size int) *Suggester {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[cacheKey, []Suggestion](size)
	return &Suggester{cache: cache}
}

// Suggest returns up to limit terms starting with partial, ordered by
// frequency descending then lexicographically. Only the last word of partial
// is completed. An empty partial term yields nothing.
func (s *Suggester) Suggest(idx *index.Index, partial string, limit int) []Suggestion {
	if idx == nil || limit <= 0 {
		return nil
	}
	words := tokenize.Words(partial)
	if len(words) == 0 {
		return nil
	}
	ranked := s.ranked(idx, words[len(words)-1])
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return slices.Clone(ranked)
}

func (s *Suggester) ranked(idx *index.Index, prefix string) []Suggestion {
	key := cacheKey{build: idx.BuildID(), prefix: prefix}
	if key.build != "" {
		if cached, ok := s.cache.Get(key); ok {
			return cached
		}
	}

	vocab := idx.Vocabulary()
	terms := vocab.PrefixRange(prefix)
	out := make([]Suggestion, len(terms))
	for i, t := range terms {
		out[i] = Suggestion{Term: t, Frequency: vocab.Frequency(t)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Frequency > out[j].Frequency
	})

	if key.build != "" {
		s.cache.Add(key, out)
	}
	return out
}

// Len returns the number of cached prefixes.
func (s *Suggester) Len() int { return s.cache.Len() }

// Purge drops every cached range.
func (s *Suggester) Purge() { s.cache.Purge() }

type alternative struct {
	term      string
	distance  int
	frequency int
}

// Alternatives proposes replacement terms for a query that matched nothing:
// close spellings from the vocabulary and completions of each term. The
// query terms themselves are never proposed. Results are ordered by edit
// distance, then frequency descending, then lexicographically.
func Alternatives(idx *index.Index, terms []string, limit int) []string {
	if idx == nil || limit <= 0 {
		return nil
	}
	vocab := idx.Vocabulary()
	best := make(map[string]alternative)
	consider := func(term string, distance int) {
		if a, ok := best[term]; ok && a.distance <= distance {
			return
		}
		best[term] = alternative{term: term, distance: distance, frequency: vocab.Frequency(term)}
	}

	var folded []string
	for _, raw := range terms {
		term := tokenize.Fold(raw)
		if term == "" {
			continue
		}
		folded = append(folded, term)
		for _, n := range vocab.Within(term, maxDistance(term)) {
			consider(n.Term, n.Distance)
		}
		for _, completion := range vocab.PrefixRange(term) {
			if completion != term {
				consider(completion, utf8.RuneCountInString(completion)-utf8.RuneCountInString(term))
			}
		}
	}

	ranked := make([]alternative, 0, len(best))
	for _, a := range best {
		if slices.Contains(folded, a.term) {
			continue
		}
		ranked = append(ranked, a)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.frequency != b.frequency {
			return a.frequency > b.frequency
		}
		return a.term < b.term
	})

	out := make([]string, 0, min(limit, len(ranked)))
	for _, a := range ranked {
		if len(out) == limit {
			break
		}
		out = append(out, a.term)
	}
	return out
}

func maxDistance(term string) int {
	switch n := utf8.RuneCountInString(term); {
	case n <= 2:
		return 0
	case n <= 4:
		return 1
	default:
		return 2
	}
}
