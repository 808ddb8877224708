package search

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/stormlightlabs/docsift/internal/index"
	"github.com/stormlightlabs/docsift/internal/tokenize"
)

// DefaultLimit is the result count of a query built with NewQuery.
const DefaultLimit = 10

// Query is a structured search request.
type Query struct {
	Text   string
	Phrase bool
	Fuzzy  bool
	// Categories and Tags restrict results when non-empty. A document must
	// match both filters.
	Categories []string
	Tags       []string
	Limit      int
}

// NewQuery returns a query for text with fuzzy matching on and the default
// limit.
func NewQuery(text string) Query {
	return Query{Text: text, Fuzzy: true, Limit: DefaultLimit}
}

// expansion is one vocabulary term standing in for a query term.
type expansion struct {
	term     string
	distance int
	weight   float64
}

// slot is one distinct query term with its expansions.
type slot struct {
	term       string
	expansions []expansion
}

// plan is a tokenized, expanded query.
type plan struct {
	slots []slot
	// sequence maps each query token, in order, to its slot. Phrase matching
	// walks it.
	sequence []int
}

func (e *Engine) plan(idx *index.Index, q Query) plan {
	tokens := idx.Tokenizer().Tokenize(q.Text, tokenize.FieldQuery)
	vocab := idx.Vocabulary()

	var p plan
	bySlot := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		if i, ok := bySlot[tok.Term]; ok {
			p.sequence = append(p.sequence, i)
			continue
		}
		s := slot{term: tok.Term}
		if vocab.Contains(tok.Term) {
			s.expansions = []expansion{{term: tok.Term, weight: 1}}
		} else if q.Fuzzy {
			s.expansions = e.fuzzyExpansions(vocab, tok.Term)
		}
		bySlot[tok.Term] = len(p.slots)
		p.sequence = append(p.sequence, len(p.slots))
		p.slots = append(p.slots, s)
	}
	return p
}

func (e *Engine) fuzzyExpansions(vocab *index.Vocabulary, term string) []expansion {
	dist := e.distanceFor(term)
	if dist == 0 {
		return nil
	}
	neighbors := vocab.Within(term, dist)
	if e.MaxExpansions > 0 && len(neighbors) > e.MaxExpansions {
		neighbors = neighbors[:e.MaxExpansions]
	}
	out := make([]expansion, len(neighbors))
	for i, n := range neighbors {
		out[i] = expansion{term: n.Term, distance: n.Distance, weight: e.Weights.Match(n.Distance)}
	}
	return out
}

// distanceFor bounds the edit distance by term length so short terms do not
// expand to most of the vocabulary.
func (e *Engine) distanceFor(term string) int {
	limit := min(e.MaxDistance, 2)
	switch n := utf8.RuneCountInString(term); {
	case n <= 2 || tokenize.IsNumeric(term):
		return 0
	case n <= 4:
		return min(limit, 1)
	default:
		return limit
	}
}

// Terms returns the distinct normalized terms of text as the index would
// see them.
func Terms(idx *index.Index, text string) []string {
	var out []string
	for _, t := range idx.Tokenizer().Terms(text, tokenize.FieldQuery) {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

type filter struct {
	categories map[string]bool
	tags       map[string]bool
}

func newFilter(q Query) filter {
	return filter{categories: labelSet(q.Categories), tags: labelSet(q.Tags)}
}

func labelSet(values []string) map[string]bool {
	var set map[string]bool
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if set == nil {
			set = make(map[string]bool)
		}
		set[v] = true
	}
	return set
}

func (f filter) allows(doc *index.Document) bool {
	if f.categories != nil && !f.categories[doc.Category] {
		return false
	}
	if f.tags != nil && !slices.ContainsFunc(doc.Tags, func(t string) bool { return f.tags[t] }) {
		return false
	}
	return true
}
