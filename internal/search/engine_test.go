package search

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stormlightlabs/docsift/internal/index"
	"github.com/stormlightlabs/docsift/internal/tokenize"
)

func doc(path, title, body string, tags ...string) *index.Document {
	return &index.Document{
		Path:     path,
		Title:    title,
		Category: "general",
		Tags:     tags,
		Body:     body,
		Checksum: path + ":" + body,
	}
}

func buildIndex(t testing.TB, docs ...*index.Document) *index.Index {
	t.Helper()
	idx, _, err := index.NewBuilder(tokenize.New()).Build(context.Background(), docs, nil)
	require.NoError(t, err)
	return idx
}

func paths(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Document.Path
	}
	return out
}

func TestSearch_SingleDocumentExactMatch(t *testing.T) {
	idx := buildIndex(t, doc("guide.md", "Planogram Optimization", "The planogram engine optimizes slot placement."))

	results := New().Search(idx, NewQuery("planogram"))
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, "guide.md", r.Document.Path)
	assert.Greater(t, r.Score, 0.0)
	assert.Equal(t, []string{"planogram"}, r.Matched)

	require.Len(t, r.Snippets, 2)
	spans := 0
	for _, sn := range r.Snippets {
		spans += len(sn.Spans)
	}
	assert.Equal(t, 2, spans)
	assert.Equal(t, tokenize.FieldTitle, r.Snippets[0].Field)
	assert.Equal(t, "[Planogram] Optimization", r.Snippets[0].Marked("[", "]"))
	assert.Equal(t, tokenize.FieldBody, r.Snippets[1].Field)
	assert.Equal(t, "The [planogram] engine optimizes slot placement.", r.Snippets[1].Marked("[", "]"))
}

func TestSearch_FuzzyMatchScoresBelowExact(t *testing.T) {
	idx := buildIndex(t, doc("guide.md", "Planogram Optimization", "The planogram engine optimizes slot placement."))
	e := New()

	exact := e.Search(idx, NewQuery("planogram"))
	fuzzy := e.Search(idx, NewQuery("plonogram"))
	require.Len(t, exact, 1)
	require.Len(t, fuzzy, 1)

	assert.Equal(t, exact[0].Document.Path, fuzzy[0].Document.Path)
	assert.Less(t, fuzzy[0].Score, exact[0].Score)
	assert.InDelta(t, exact[0].Score*e.Weights.Fuzzy, fuzzy[0].Score, 1e-9)
	assert.Equal(t, []string{"planogram"}, fuzzy[0].Matched)

	q := NewQuery("plonogram")
	q.Fuzzy = false
	assert.Empty(t, e.Search(idx, q))
}

func TestSearch_FuzzyAlternatesAccumulate(t *testing.T) {
	idx := buildIndex(t,
		doc("a.md", "Notes", "slot slots"),
		doc("b.md", "Notes", "slot other"),
	)

	results := New().Search(idx, NewQuery("slotz"))
	require.Len(t, results, 2)
	assert.Equal(t, []string{"a.md", "b.md"}, paths(results))
	assert.Equal(t, []string{"slot", "slots"}, results[0].Matched)
	assert.Equal(t, []string{"slot"}, results[1].Matched)
	assert.InDelta(t, 2*results[1].Score, results[0].Score, 1e-9)
}

func TestSearch_TagFilter(t *testing.T) {
	idx := buildIndex(t,
		doc("api.md", "Endpoints", "the api reference", "api"),
		doc("design.md", "Layout", "the design notes", "design"),
	)

	q := NewQuery("the")
	q.Tags = []string{"api"}
	assert.Equal(t, []string{"api.md"}, paths(New().Search(idx, q)))

	q.Tags = []string{"API", "missing"}
	assert.Equal(t, []string{"api.md"}, paths(New().Search(idx, q)))

	q.Tags = []string{"unknown"}
	assert.Empty(t, New().Search(idx, q))
}

func TestSearch_CategoryFilter(t *testing.T) {
	a := doc("ops/a.md", "Restock", "restock the machine")
	a.Category = "ops"
	b := doc("guides/b.md", "Restock", "restock the machine")
	b.Category = "guides"
	b.Tags = []string{"api"}
	idx := buildIndex(t, a, b)

	q := NewQuery("restock")
	q.Categories = []string{"ops"}
	assert.Equal(t, []string{"ops/a.md"}, paths(New().Search(idx, q)))

	q.Categories = []string{"guides"}
	q.Tags = []string{"design"}
	assert.Empty(t, New().Search(idx, q), "filters combine with AND")

	q.Categories = []string{"nowhere"}
	q.Tags = nil
	assert.Empty(t, New().Search(idx, q))
}

func TestSearch_EmptyResults(t *testing.T) {
	idx := buildIndex(t, doc("guide.md", "Planogram", "body text"))

	tests := []struct {
		name  string
		query Query
	}{
		{"punctuation only", NewQuery("...")},
		{"empty", NewQuery("")},
		{"single letter", NewQuery("a")},
		{"no match", NewQuery("zebra")},
		{"zero limit", Query{Text: "planogram", Fuzzy: true}},
		{"negative limit", Query{Text: "planogram", Fuzzy: true, Limit: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, New().Search(idx, tt.query))
		})
	}

	assert.Empty(t, New().Search(nil, NewQuery("planogram")))
}

func TestSearch_Phrase(t *testing.T) {
	idx := buildIndex(t,
		doc("adjacent.md", "One", "Submit a service order before noon."),
		doc("apart.md", "Two", "The order for each service is logged."),
	)

	q := NewQuery("service order")
	assert.ElementsMatch(t, []string{"adjacent.md", "apart.md"}, paths(New().Search(idx, q)))

	q.Phrase = true
	results := New().Search(idx, q)
	require.Equal(t, []string{"adjacent.md"}, paths(results))
	assert.True(t, results[0].Phrase)

	q.Text = "order service"
	assert.Empty(t, New().Search(idx, q))
}

func TestSearch_PhraseWithinOneField(t *testing.T) {
	idx := buildIndex(t, doc("split.md", "Service Desk", "order handling"))

	q := NewQuery("desk order")
	q.Phrase = true
	assert.Empty(t, New().Search(idx, q))
}

func TestSearch_PhraseWithinOneHeading(t *testing.T) {
	d := doc("headings.md", "Guide", "unrelated text")
	d.Headings = []string{"Overview of service", "Order flow"}
	idx := buildIndex(t, d)

	q := NewQuery("service order")
	assert.Equal(t, []string{"headings.md"}, paths(New().Search(idx, q)))

	q.Phrase = true
	assert.Empty(t, New().Search(idx, q))

	q.Text = "order flow"
	assert.Equal(t, []string{"headings.md"}, paths(New().Search(idx, q)))
}

func TestSearch_PhraseToleratesTypos(t *testing.T) {
	idx := buildIndex(t, doc("a.md", "Orders", "Submit a service order before noon."))

	q := NewQuery("servce order")
	q.Phrase = true
	assert.Equal(t, []string{"a.md"}, paths(New().Search(idx, q)))

	q.Fuzzy = false
	assert.Empty(t, New().Search(idx, q))
}

func TestSearch_PhraseBonus(t *testing.T) {
	idx := buildIndex(t, doc("a.md", "Orders", "Submit a service order before noon."))
	e := New()

	plain := e.Search(idx, NewQuery("service order"))
	q := NewQuery("service order")
	q.Phrase = true
	phrase := e.Search(idx, q)

	require.Len(t, plain, 1)
	require.Len(t, phrase, 1)
	assert.InDelta(t, plain[0].Score+e.Weights.PhraseBonus, phrase[0].Score, 1e-9)
}

func TestSearch_Ranking(t *testing.T) {
	t.Run("title outranks body", func(t *testing.T) {
		idx := buildIndex(t,
			doc("b.md", "Other", "vending is here"),
			doc("a.md", "Vending Guide", "other words here"),
		)
		assert.Equal(t, []string{"a.md", "b.md"}, paths(New().Search(idx, NewQuery("vending"))))
	})

	t.Run("shorter document wins", func(t *testing.T) {
		filler := strings.Repeat("filler ", 400)
		idx := buildIndex(t,
			doc("a.md", "Long", "vending "+filler),
			doc("b.md", "Short", "vending machine"),
		)
		assert.Equal(t, []string{"b.md", "a.md"}, paths(New().Search(idx, NewQuery("vending"))))
	})

	t.Run("ties break by path", func(t *testing.T) {
		idx := buildIndex(t,
			doc("z.md", "Same", "vending"),
			doc("m.md", "Same", "vending"),
			doc("c.md", "Same", "vending"),
		)
		results := New().Search(idx, NewQuery("vending"))
		assert.Equal(t, []string{"c.md", "m.md", "z.md"}, paths(results))
		assert.Equal(t, results[0].Score, results[2].Score)
	})

	t.Run("limit truncates", func(t *testing.T) {
		idx := buildIndex(t,
			doc("a.md", "Vending", "vending"),
			doc("b.md", "Vending", "vending"),
			doc("c.md", "Vending", "vending"),
		)
		q := NewQuery("vending")
		q.Limit = 2
		assert.Equal(t, []string{"a.md", "b.md"}, paths(New().Search(idx, q)))
	})
}

func TestSearch_RepeatedQueryTermCountsOnce(t *testing.T) {
	idx := buildIndex(t, doc("a.md", "Stock", "restock the machine"))
	e := New()

	once := e.Search(idx, NewQuery("restock"))
	twice := e.Search(idx, NewQuery("restock restock"))
	require.Len(t, once, 1)
	require.Len(t, twice, 1)
	assert.Equal(t, once[0].Score, twice[0].Score)
}

func TestDistanceFor(t *testing.T) {
	e := New()
	tests := []struct {
		term     string
		expected int
	}{
		{"ab", 0},
		{"12345", 0},
		{"slot", 1},
		{"planogram", 2},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.distanceFor(tt.term))
		})
	}

	e.MaxDistance = 1
	assert.Equal(t, 1, e.distanceFor("planogram"))
	e.MaxDistance = 5
	assert.Equal(t, 2, e.distanceFor("planogram"))
}

func TestTerms(t *testing.T) {
	idx := buildIndex(t, doc("a.md", "A", "b"))
	assert.Equal(t, []string{"service", "order"}, Terms(idx, "Service, order & SERVICE!"))
	assert.Empty(t, Terms(idx, "..."))
}

type recorder struct {
	mu    sync.Mutex
	calls []int
}

func (r *recorder) ObserveSearch(_ Query, results int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, results)
}

func TestSearch_Observer(t *testing.T) {
	idx := buildIndex(t, doc("a.md", "Vending", "vending"))
	rec := &recorder{}
	e := New()
	e.Observer = rec

	e.Search(idx, NewQuery("vending"))
	e.Search(idx, NewQuery("..."))
	assert.Equal(t, []int{1, 0}, rec.calls)
}

func TestSearch_ConcurrentReaders(t *testing.T) {
	idx := buildIndex(t,
		doc("a.md", "Service Orders", "Submit a service order before noon."),
		doc("b.md", "Slots", "Slot placement follows the planogram."),
	)
	e := New()
	want := e.Search(idx, NewQuery("service planogram"))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				got := e.Search(idx, NewQuery("service planogram"))
				assert.Equal(t, paths(want), paths(got))
			}
		}()
	}
	wg.Wait()
}

var (
	corpusWords = []string{"service", "order", "planogram", "slot", "engine", "restock", "machine", "vending", "coin", "tray"}
	queryWords  = append(slices.Clone(corpusWords), "servce", "ordr", "planogrm", "mashine", "zebra")
	categories  = []string{"ops", "guides", "reference"}
	tagSet      = []string{"api", "design"}
)

func genWord(words []string) gopter.Gen {
	return gen.IntRange(0, len(words)-1).Map(func(i int) string { return words[i] })
}

func genCorpus() gopter.Gen {
	return gen.SliceOfN(6, gen.SliceOfN(8, genWord(corpusWords))).Map(func(bodies [][]string) []*index.Document {
		docs := make([]*index.Document, len(bodies))
		for i, words := range bodies {
			d := doc(fmt.Sprintf("doc-%d.md", i), words[0]+" "+words[1], strings.Join(words[2:], " "), tagSet[i%len(tagSet)])
			d.Category = categories[i%len(categories)]
			docs[i] = d
		}
		return docs
	})
}

func genQueryText() gopter.Gen {
	return gen.SliceOfN(2, genWord(queryWords)).Map(func(words []string) string {
		return strings.Join(words, " ")
	})
}

func unlimited(text string) Query {
	q := NewQuery(text)
	q.Limit = 1000
	return q
}

func TestSearch_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)
	e := New()

	properties.Property("identical queries return identical order", prop.ForAll(
		func(docs []*index.Document, text string) bool {
			idx := buildIndex(t, docs...)
			first := e.Search(idx, unlimited(text))
			second := e.Search(idx, unlimited(text))
			if len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i].Document.Path != second[i].Document.Path || first[i].Score != second[i].Score {
					return false
				}
			}
			return true
		},
		genCorpus(), genQueryText(),
	))

	properties.Property("phrase results are a subset of term results", prop.ForAll(
		func(docs []*index.Document, text string, fuzzy bool) bool {
			idx := buildIndex(t, docs...)
			q := unlimited(text)
			q.Fuzzy = fuzzy
			terms := paths(e.Search(idx, q))
			q.Phrase = true
			for _, p := range paths(e.Search(idx, q)) {
				if !slices.Contains(terms, p) {
					return false
				}
			}
			return true
		},
		genCorpus(), genQueryText(), gen.Bool(),
	))

	properties.Property("fuzzy results are a superset of exact results", prop.ForAll(
		func(docs []*index.Document, text string, phrase bool) bool {
			idx := buildIndex(t, docs...)
			q := unlimited(text)
			q.Phrase = phrase
			fuzzy := paths(e.Search(idx, q))
			q.Fuzzy = false
			for _, p := range paths(e.Search(idx, q)) {
				if !slices.Contains(fuzzy, p) {
					return false
				}
			}
			return true
		},
		genCorpus(), genQueryText(), gen.Bool(),
	))

	properties.Property("results satisfy category and tag filters", prop.ForAll(
		func(docs []*index.Document, text string, category, tag string) bool {
			idx := buildIndex(t, docs...)
			q := unlimited(text)
			q.Categories = []string{category}
			for _, r := range e.Search(idx, q) {
				if r.Document.Category != category {
					return false
				}
			}
			q.Categories = nil
			q.Tags = []string{tag}
			for _, r := range e.Search(idx, q) {
				if !r.Document.HasTag(tag) {
					return false
				}
			}
			return true
		},
		genCorpus(), genQueryText(), genWord(categories), genWord(tagSet),
	))

	properties.TestingRun(t)
}
