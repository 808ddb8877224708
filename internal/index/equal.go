package index

import (
	"maps"
	"slices"
)

// Equal reports whether a and b hold the same documents, postings and
// vocabulary. Document ids are compared through their paths, so two builds
// of the same corpus are equal even if ids were reassigned.
func Equal(a, b *Index) bool {
	if a.Len() != b.Len() || a.vocab.Len() != b.vocab.Len() {
		return false
	}
	for _, da := range a.docs {
		db, ok := b.DocumentByPath(da.Path)
		if !ok || !SameDocument(da, db) {
			return false
		}
	}
	if !slices.Equal(a.vocab.terms, b.vocab.terms) {
		return false
	}
	for _, term := range a.vocab.terms {
		pa, pb := a.postings[term], b.postings[term]
		if len(pa) != len(pb) {
			return false
		}
		for i := range pa {
			if a.docs[pa[i].DocID].Path != b.docs[pb[i].DocID].Path ||
				pa[i].Field != pb[i].Field ||
				!slices.Equal(pa[i].Positions, pb[i].Positions) {
				return false
			}
		}
	}
	return true
}

// SameDocument compares every field of two documents except ID.
func SameDocument(a, b *Document) bool {
	return a.Path == b.Path &&
		a.Title == b.Title &&
		a.Category == b.Category &&
		slices.Equal(a.Tags, b.Tags) &&
		slices.Equal(a.Headings, b.Headings) &&
		slices.Equal(a.CodeBlocks, b.CodeBlocks) &&
		a.Body == b.Body &&
		maps.Equal(a.Extra, b.Extra) &&
		a.Checksum == b.Checksum &&
		a.ModifiedAt.Equal(b.ModifiedAt) &&
		a.Size == b.Size
}
