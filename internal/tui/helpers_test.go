package tui

import (
	"fmt"
	"strings"

	"github.com/stormlightlabs/docsift/internal/index"
	"github.com/stormlightlabs/docsift/internal/search"
	"github.com/stormlightlabs/docsift/internal/tokenize"
)

// fakeBackend serves a fixed set of documents. Search returns every document
// whose title contains the query text.
type fakeBackend struct {
	docs    map[string]*index.Document
	sources map[string]string
	order   []string
	queries []search.Query
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{docs: map[string]*index.Document{}, sources: map[string]string{}}
	b.add("guides/planogram.md", "Planogram Guide", "# Planogram Guide\n\nShelf layout rules. See [order flow](../orders/flow.md) and [site](https://example.com).\n")
	b.add("orders/flow.md", "Order Flow", "# Order Flow\n\nOrders move from cart to fulfillment. Back to [guide](../guides/planogram.md#top).\n")
	return b
}

func (b *fakeBackend) add(path, title, source string) {
	b.docs[path] = &index.Document{Path: path, Title: title, Category: strings.Split(path, "/")[0]}
	b.sources[path] = source
	b.order = append(b.order, path)
}

func (b *fakeBackend) NewQuery(text string) search.Query {
	return search.NewQuery(text)
}

func (b *fakeBackend) Search(q search.Query) []search.Result {
	b.queries = append(b.queries, q)
	var out []search.Result
	for _, p := range b.order {
		doc := b.docs[p]
		title := strings.ToLower(doc.Title)
		i := strings.Index(title, strings.ToLower(q.Text))
		if i < 0 {
			continue
		}
		out = append(out, search.Result{
			Document: doc,
			Score:    1,
			Snippets: []search.Snippet{{
				Field: tokenize.FieldBody,
				Text:  doc.Title,
				Spans: []search.Span{{Start: i, End: i + len(q.Text)}},
			}},
		})
	}
	return out
}

func (b *fakeBackend) Alternatives(text string, limit int) []string {
	if text == "planogrm" {
		return []string{"planogram"}
	}
	return nil
}

func (b *fakeBackend) Document(path string) (*index.Document, bool) {
	doc, ok := b.docs[path]
	return doc, ok
}

func (b *fakeBackend) Source(path string) (string, error) {
	src, ok := b.sources[path]
	if !ok {
		return "", fmt.Errorf("not indexed: %s", path)
	}
	return src, nil
}
