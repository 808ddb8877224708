package index

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Vocabulary is the sorted set of distinct terms in an index together with
// each term's posting count.
type Vocabulary struct {
	terms []string
	freq  map[string]int
}

// Neighbor is a vocabulary term within some edit distance of a probe.
type Neighbor struct {
	Term     string
	Distance int
}

func newVocabulary(postings map[string][]Posting) *Vocabulary {
	v := &Vocabulary{
		terms: make([]string, 0, len(postings)),
		freq:  make(map[string]int, len(postings)),
	}
	for term, list := range postings {
		v.terms = append(v.terms, term)
		v.freq[term] = len(list)
	}
	sort.Strings(v.terms)
	return v
}

// Len returns the number of distinct terms.
func (v *Vocabulary) Len() int { return len(v.terms) }

// Terms returns the sorted terms. The slice must not be modified.
func (v *Vocabulary) Terms() []string { return v.terms }

// Contains reports whether term is in the vocabulary.
func (v *Vocabulary) Contains(term string) bool {
	_, ok := v.freq[term]
	return ok
}

// Frequency returns the number of postings for term across the corpus.
func (v *Vocabulary) Frequency(term string) int {
	return v.freq[term]
}

// PrefixRange returns the sorted terms starting with prefix. The slice
// aliases the vocabulary and must not be modified.
func (v *Vocabulary) PrefixRange(prefix string) []string {
	if prefix == "" {
		return nil
	}
	lo := sort.SearchStrings(v.terms, prefix)
	hi := lo
	for hi < len(v.terms) && strings.HasPrefix(v.terms[hi], prefix) {
		hi++
	}
	return v.terms[lo:hi]
}

// Within returns the terms whose edit distance to term is at most maxDist,
// excluding term itself, ordered by distance then term.
func (v *Vocabulary) Within(term string, maxDist int) []Neighbor {
	if maxDist <= 0 || term == "" {
		return nil
	}
	probe := []rune(term)
	var out []Neighbor
	for _, cand := range v.terms {
		if cand == term {
			continue
		}
		n := utf8.RuneCountInString(cand)
		if abs(n-len(probe)) > maxDist {
			continue
		}
		if d, ok := boundedLevenshtein(probe, []rune(cand), maxDist); ok {
			out = append(out, Neighbor{Term: cand, Distance: d})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Term < out[j].Term
	})
	return out
}

// boundedLevenshtein computes the edit distance between a and b, giving up
// as soon as every cell of a row exceeds limit.
func boundedLevenshtein(a, b []rune, limit int) (int, bool) {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			rowMin = min(rowMin, curr[j])
		}
		if rowMin > limit {
			return 0, false
		}
		prev, curr = curr, prev
	}

	d := prev[len(b)]
	return d, d <= limit
}

// Distance returns the Levenshtein distance between a and b.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	d, _ := boundedLevenshtein(ra, rb, max(len(ra), len(rb)))
	return d
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
