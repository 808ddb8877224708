package search

import (
	"slices"

	"github.com/stormlightlabs/docsift/internal/tokenize"
)

// phraseMatch reports whether the query tokens in sequence occur as one
// contiguous, in-order run within a single field. Each position may be
// filled by any expansion of its slot.
func phraseMatch(c *candidate, sequence []int) bool {
	if len(sequence) == 0 {
		return false
	}
	for _, field := range tokenize.IndexedFields() {
		for _, start := range c.hits[sequence[0]].positions[field] {
			if runAt(c, sequence, field, start) {
				return true
			}
		}
	}
	return false
}

func runAt(c *candidate, sequence []int, field tokenize.Field, start int) bool {
	for i := 1; i < len(sequence); i++ {
		if _, ok := slices.BinarySearch(c.hits[sequence[i]].positions[field], start+i); !ok {
			return false
		}
	}
	return true
}
