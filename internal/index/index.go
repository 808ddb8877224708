// Package index holds the immutable inverted index snapshot and the builder
// that produces it.
package index

import (
	"fmt"
	"sort"
	"time"

	"github.com/stormlightlabs/docsift/internal/tokenize"
)

// Posting associates a term with one field of one document.
// Positions are strictly increasing token ordinals within that field.
type Posting struct {
	DocID     int
	Field     tokenize.Field
	Positions []int
}

// Entry is one row of a document's forward index: the positions of a term
// within a single field.
type Entry struct {
	Term      string
	Field     tokenize.Field
	Positions []int
}

// Meta describes how and when a snapshot was built.
type Meta struct {
	BuildID   string
	BuiltAt   time.Time
	StopWords bool
}

// Index is an immutable snapshot: the document table, the inverted index and
// the vocabulary. It is safe for concurrent readers. Accessors return shared
// slices that callers must not modify.
type Index struct {
	meta     Meta
	docs     []*Document
	byPath   map[string]int
	postings map[string][]Posting
	vocab    *Vocabulary
	forward  [][]Entry
	lengths  []int
}

// newIndex assembles a snapshot. docs must be sorted by path with ID equal
// to their slice position; posting lists must be sorted by (DocID, Field).
func newIndex(meta Meta, docs []*Document, postings map[string][]Posting) *Index {
	idx := &Index{
		meta:     meta,
		docs:     docs,
		byPath:   make(map[string]int, len(docs)),
		postings: postings,
		vocab:    newVocabulary(postings),
		forward:  make([][]Entry, len(docs)),
		lengths:  make([]int, len(docs)),
	}
	for i, d := range docs {
		idx.byPath[d.Path] = i
	}
	for _, term := range idx.vocab.terms {
		for _, p := range postings[term] {
			idx.forward[p.DocID] = append(idx.forward[p.DocID], Entry{Term: term, Field: p.Field, Positions: p.Positions})
			idx.lengths[p.DocID] += len(p.Positions)
		}
	}
	return idx
}

// Empty returns a snapshot with no documents.
func Empty() *Index {
	return newIndex(Meta{}, nil, map[string][]Posting{})
}

// Restore rebuilds a snapshot from persisted parts after checking every
// structural invariant. It is used when loading an artifact.
func Restore(meta Meta, docs []*Document, postings map[string][]Posting) (*Index, error) {
	for i, d := range docs {
		if d == nil {
			return nil, fmt.Errorf("document %d is nil", i)
		}
		if d.ID != i {
			return nil, fmt.Errorf("document %q has id %d at position %d", d.Path, d.ID, i)
		}
		if i > 0 && docs[i-1].Path >= d.Path {
			return nil, fmt.Errorf("documents not sorted by unique path at %q", d.Path)
		}
	}
	if postings == nil {
		postings = map[string][]Posting{}
	}
	for term, list := range postings {
		if term == "" {
			return nil, fmt.Errorf("empty term in postings")
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("term %q has no postings", term)
		}
		for j, p := range list {
			if p.DocID < 0 || p.DocID >= len(docs) {
				return nil, fmt.Errorf("term %q references unknown document %d", term, p.DocID)
			}
			if !p.Field.Indexed() {
				return nil, fmt.Errorf("term %q has posting in field %s", term, p.Field)
			}
			if j > 0 && !postingLess(list[j-1], p) {
				return nil, fmt.Errorf("term %q postings out of order", term)
			}
			if len(p.Positions) == 0 {
				return nil, fmt.Errorf("term %q posting without positions", term)
			}
			for k := 1; k < len(p.Positions); k++ {
				if p.Positions[k] <= p.Positions[k-1] {
					return nil, fmt.Errorf("term %q positions not strictly increasing", term)
				}
			}
		}
	}
	return newIndex(meta, docs, postings), nil
}

// Meta returns the build metadata.
func (idx *Index) Meta() Meta { return idx.meta }

// BuildID identifies the build that produced this snapshot.
func (idx *Index) BuildID() string { return idx.meta.BuildID }

// Len returns the number of documents.
func (idx *Index) Len() int { return len(idx.docs) }

// Documents returns every document ordered by path.
func (idx *Index) Documents() []*Document { return idx.docs }

// Document returns the document with the given id.
func (idx *Index) Document(id int) (*Document, bool) {
	if id < 0 || id >= len(idx.docs) {
		return nil, false
	}
	return idx.docs[id], true
}

// DocumentByPath returns the document stored under path.
func (idx *Index) DocumentByPath(path string) (*Document, bool) {
	id, ok := idx.byPath[path]
	if !ok {
		return nil, false
	}
	return idx.docs[id], true
}

// Postings returns the posting list of term ordered by (DocID, Field).
func (idx *Index) Postings(term string) []Posting { return idx.postings[term] }

// PostingCount returns the total number of postings across all terms.
func (idx *Index) PostingCount() int {
	n := 0
	for _, list := range idx.postings {
		n += len(list)
	}
	return n
}

// Vocabulary returns the sorted term set.
func (idx *Index) Vocabulary() *Vocabulary { return idx.vocab }

// Entries returns the forward index of a document, ordered by term.
func (idx *Index) Entries(id int) []Entry {
	if id < 0 || id >= len(idx.forward) {
		return nil
	}
	return idx.forward[id]
}

// DocLength returns the number of tokens stored for a document across all fields.
func (idx *Index) DocLength(id int) int {
	if id < 0 || id >= len(idx.lengths) {
		return 0
	}
	return idx.lengths[id]
}

// Tokenizer returns a tokenizer configured the way this snapshot was built.
// Queries must use it so their terms line up with the stored ones.
func (idx *Index) Tokenizer() *tokenize.Tokenizer {
	if idx.meta.StopWords {
		return tokenize.New(tokenize.WithStopWords(tokenize.DefaultStopWords))
	}
	return tokenize.New()
}

func postingLess(a, b Posting) bool {
	if a.DocID != b.DocID {
		return a.DocID < b.DocID
	}
	return a.Field < b.Field
}

func sortPostings(list []Posting) {
	sort.Slice(list, func(i, j int) bool { return postingLess(list[i], list[j]) })
}
