// Package search resolves structured queries against an index snapshot:
// fuzzy term expansion, filtering, phrase constraints, scoring and snippets.
package search

import (
	"slices"
	"sort"
	"time"

	"github.com/stormlightlabs/docsift/internal/index"
	"github.com/stormlightlabs/docsift/internal/tokenize"
)

// Observer receives one call per search.
type Observer interface {
	ObserveSearch(q Query, results int, elapsed time.Duration)
}

// Result is one ranked hit.
type Result struct {
	Document *index.Document
	Score    float64
	Snippets []Snippet
	// Matched lists the vocabulary terms that contributed to the score.
	Matched []string
	// Phrase is set when the phrase constraint was satisfied.
	Phrase bool
}

// Engine answers queries. Its configuration is read-only once searches
// start, so one Engine may be shared by concurrent callers.
type Engine struct {
	Weights Weights
	// MaxDistance bounds fuzzy edit distance. Values above 2 are clamped.
	MaxDistance int
	// MaxExpansions caps fuzzy alternates per query term. Zero means no cap.
	MaxExpansions int
	// SnippetWindow is the snippet size in bytes of source text.
	SnippetWindow int
	// MaxSnippets bounds body snippets per result.
	MaxSnippets int
	Observer    Observer
}

// New returns an Engine with default settings.
func New() *Engine {
	return &Engine{
		Weights:       DefaultWeights(),
		MaxDistance:   2,
		MaxExpansions: 16,
		SnippetWindow: 160,
		MaxSnippets:   3,
	}
}

// Search runs q against idx and returns at most q.Limit results ordered by
// descending score, then ascending path. Empty queries, unknown filter
// values and non-positive limits all produce an empty result.
func (e *Engine) Search(idx *index.Index, q Query) []Result {
	start := time.Now()
	results := e.search(idx, q)
	if e.Observer != nil {
		e.Observer.ObserveSearch(q, len(results), time.Since(start))
	}
	return results
}

type slotHit struct {
	score     float64
	terms     []string
	positions map[tokenize.Field][]int
}

type candidate struct {
	id     int
	doc    *index.Document
	hits   []slotHit
	score  float64
	phrase bool
}

func (e *Engine) search(idx *index.Index, q Query) []Result {
	if idx == nil || q.Limit <= 0 {
		return nil
	}
	p := e.plan(idx, q)
	if len(p.slots) == 0 {
		return nil
	}

	cands := e.collect(idx, p, newFilter(q))
	if len(cands) == 0 {
		return nil
	}

	ranked := make([]*candidate, 0, len(cands))
	for _, c := range cands {
		if q.Phrase {
			if !phraseMatch(c, p.sequence) {
				continue
			}
			c.phrase = true
		}
		e.score(idx, c)
		ranked = append(ranked, c)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].doc.Path < ranked[j].doc.Path
	})
	if len(ranked) > q.Limit {
		ranked = ranked[:q.Limit]
	}

	results := make([]Result, len(ranked))
	for i, c := range ranked {
		matched := c.matchedTerms()
		results[i] = Result{
			Document: c.doc,
			Score:    c.score,
			Snippets: e.snippets(idx, c.doc, matched),
			Matched:  matched,
			Phrase:   c.phrase,
		}
	}
	return results
}

// collect unions the postings of every expansion and records, per slot, the
// summed contribution of all its expansions and the positions matched in
// each field.
func (e *Engine) collect(idx *index.Index, p plan, f filter) map[int]*candidate {
	cands := make(map[int]*candidate)
	rejected := make(map[int]bool)

	for si, s := range p.slots {
		for _, ex := range s.expansions {
			for _, post := range idx.Postings(ex.term) {
				if rejected[post.DocID] {
					continue
				}
				c := cands[post.DocID]
				if c == nil {
					doc, ok := idx.Document(post.DocID)
					if !ok || !f.allows(doc) {
						rejected[post.DocID] = true
						continue
					}
					c = &candidate{id: post.DocID, doc: doc, hits: make([]slotHit, len(p.slots))}
					cands[post.DocID] = c
				}
				h := &c.hits[si]
				h.score += e.Weights.Field(post.Field) * float64(len(post.Positions)) * ex.weight
				if n := len(h.terms); n == 0 || h.terms[n-1] != ex.term {
					h.terms = append(h.terms, ex.term)
				}
				if h.positions == nil {
					h.positions = make(map[tokenize.Field][]int)
				}
				h.positions[post.Field] = append(h.positions[post.Field], post.Positions...)
			}
		}
	}

	for _, c := range cands {
		for i := range c.hits {
			for field, pos := range c.hits[i].positions {
				slices.Sort(pos)
				c.hits[i].positions[field] = slices.Compact(pos)
			}
		}
	}
	return cands
}

// score sums every matched (term, field) contribution and applies length
// normalization and the phrase bonus.
func (e *Engine) score(idx *index.Index, c *candidate) {
	var base float64
	for _, h := range c.hits {
		base += h.score
	}
	c.score = base * e.Weights.LengthNorm(idx.DocLength(c.id))
	if c.phrase {
		c.score += e.Weights.PhraseBonus
	}
}

func (c *candidate) matchedTerms() []string {
	var out []string
	for _, h := range c.hits {
		out = append(out, h.terms...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
