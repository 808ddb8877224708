package index

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/stormlightlabs/docsift/internal/tokenize"
)

const defaultShards = 64

// BuildStats summarizes one build.
type BuildStats struct {
	Documents int
	Reused    int
	Tokenized int
	Removed   int
	Terms     int
	Duration  time.Duration
}

// Builder turns documents into an Index.
type Builder struct {
	Tokenizer *tokenize.Tokenizer
	// Workers bounds parallel tokenization. Zero means GOMAXPROCS.
	Workers int
	// Shards is the number of term-hash buckets used while merging.
	Shards int
}

// NewBuilder returns a Builder with default parallelism.
func NewBuilder(tok *tokenize.Tokenizer) *Builder {
	return &Builder{Tokenizer: tok}
}

type shard struct {
	mu       sync.Mutex
	postings map[string][]Posting
}

// Build produces a new snapshot from docs. When prev is non-nil, documents
// whose checksum and modification time match the same path in prev reuse
// its forward entries without tokenizing again. Paths absent from docs are
// dropped. If a path appears more than once the last occurrence wins.
func (b *Builder) Build(ctx context.Context, docs []*Document, prev *Index) (*Index, BuildStats, error) {
	start := time.Now()
	docs = dedupeByPath(docs)

	tok := b.Tokenizer
	if tok == nil {
		tok = tokenize.New()
	}

	shards := make([]*shard, b.shardCount())
	for i := range shards {
		shards[i] = &shard{postings: make(map[string][]Posting)}
	}

	var (
		stats   = BuildStats{Documents: len(docs)}
		reused  = make([]bool, len(docs))
		indexed = make([]*Document, len(docs))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workerCount())

	for i, doc := range docs {
		indexed[i] = doc.withID(i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			var entries []Entry
			if old, ok := previousEntries(prev, doc, tok.FiltersStopWords()); ok {
				entries = old
				reused[i] = true
			} else {
				entries = documentEntries(tok, doc)
			}

			mergeEntries(shards, i, entries)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, BuildStats{}, err
	}

	postings := make(map[string][]Posting)
	for _, s := range shards {
		for term, list := range s.postings {
			sortPostings(list)
			postings[term] = list
		}
	}

	for _, r := range reused {
		if r {
			stats.Reused++
		}
	}
	stats.Tokenized = stats.Documents - stats.Reused
	if prev != nil {
		for _, d := range prev.docs {
			if _, ok := findPath(indexed, d.Path); !ok {
				stats.Removed++
			}
		}
	}

	meta := Meta{
		BuildID:   uuid.NewString(),
		BuiltAt:   time.Now().UTC(),
		StopWords: tok.FiltersStopWords(),
	}
	idx := newIndex(meta, indexed, postings)
	stats.Terms = idx.vocab.Len()
	stats.Duration = time.Since(start)
	return idx, stats, nil
}

func (b *Builder) workerCount() int {
	if b.Workers > 0 {
		return b.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (b *Builder) shardCount() int {
	if b.Shards > 0 {
		return b.Shards
	}
	return defaultShards
}

// mergeEntries groups a document's entries by shard locally so each shard
// lock is taken at most once per document.
func mergeEntries(shards []*shard, docID int, entries []Entry) {
	local := make(map[int][]Entry)
	for _, e := range entries {
		k := int(xxhash.Sum64String(e.Term) % uint64(len(shards)))
		local[k] = append(local[k], e)
	}
	for k, group := range local {
		s := shards[k]
		s.mu.Lock()
		for _, e := range group {
			s.postings[e.Term] = append(s.postings[e.Term], Posting{DocID: docID, Field: e.Field, Positions: e.Positions})
		}
		s.mu.Unlock()
	}
}

func previousEntries(prev *Index, doc *Document, stopWords bool) ([]Entry, bool) {
	if prev == nil || prev.meta.StopWords != stopWords {
		return nil, false
	}
	id, ok := prev.byPath[doc.Path]
	if !ok || !prev.docs[id].Unchanged(doc) {
		return nil, false
	}
	return prev.forward[id], true
}

// documentEntries tokenizes every indexed field of doc into forward entries,
// merging repeated terms within a field into one position list.
func documentEntries(tok *tokenize.Tokenizer, doc *Document) []Entry {
	type key struct {
		term  string
		field tokenize.Field
	}
	positions := make(map[key][]int)
	for _, field := range tokenize.IndexedFields() {
		for _, t := range tok.TokenizeSegments(doc.FieldText(field), field) {
			k := key{t.Term, field}
			positions[k] = append(positions[k], t.Position)
		}
	}

	entries := make([]Entry, 0, len(positions))
	for k, pos := range positions {
		entries = append(entries, Entry{Term: k.term, Field: k.field, Positions: pos})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Term != entries[j].Term {
			return entries[i].Term < entries[j].Term
		}
		return entries[i].Field < entries[j].Field
	})
	return entries
}

func dedupeByPath(docs []*Document) []*Document {
	last := make(map[string]int, len(docs))
	for i, d := range docs {
		last[d.Path] = i
	}
	out := make([]*Document, 0, len(last))
	for i, d := range docs {
		if last[d.Path] == i {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func findPath(sorted []*Document, path string) (int, bool) {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i].Path >= path })
	return i, i < len(sorted) && sorted[i].Path == path
}
