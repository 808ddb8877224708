package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stormlightlabs/docsift/internal/index"
	"github.com/stormlightlabs/docsift/internal/search"
	"github.com/stormlightlabs/docsift/internal/store"
	"github.com/stormlightlabs/docsift/internal/suggest"
)

const alternativeLimit = 5

// Backend is the query surface the tools read from.
type Backend interface {
	NewQuery(text string) search.Query
	Search(q search.Query) []search.Result
	Suggest(partial string, limit int) []suggest.Suggestion
	Alternatives(text string, limit int) []string
	Stats() store.Stats
	Document(path string) (*index.Document, bool)
}

type Handlers struct {
	backend Backend
}

func NewHandlers(backend Backend) *Handlers {
	return &Handlers{backend: backend}
}

func (h *Handlers) SearchDocsHandler(ctx context.Context, req *mcp.CallToolRequest, input SearchDocsInput) (*mcp.CallToolResult, SearchDocsOutput, error) {
	if input.Query == "" {
		return nil, SearchDocsOutput{}, fmt.Errorf("query parameter is required")
	}

	q := h.backend.NewQuery(input.Query)
	q.Phrase = input.Phrase
	if input.Exact {
		q.Fuzzy = false
	}
	q.Categories = input.Categories
	q.Tags = input.Tags
	if input.Limit > 0 {
		q.Limit = input.Limit
	}

	results := h.backend.Search(q)
	out := SearchDocsOutput{Results: make([]SearchHit, 0, len(results)), Total: len(results)}
	for _, r := range results {
		out.Results = append(out.Results, newSearchHit(r))
	}
	if len(results) == 0 {
		out.Alternatives = h.backend.Alternatives(input.Query, alternativeLimit)
	}
	return nil, out, nil
}

func (h *Handlers) SuggestTermsHandler(ctx context.Context, req *mcp.CallToolRequest, input SuggestTermsInput) (*mcp.CallToolResult, SuggestTermsOutput, error) {
	suggestions := h.backend.Suggest(input.Prefix, input.Limit)
	if suggestions == nil {
		suggestions = []suggest.Suggestion{}
	}
	return nil, SuggestTermsOutput{Suggestions: suggestions}, nil
}

func (h *Handlers) IndexStatsHandler(ctx context.Context, req *mcp.CallToolRequest, input IndexStatsInput) (*mcp.CallToolResult, IndexStatsOutput, error) {
	return nil, newIndexStatsOutput(h.backend.Stats()), nil
}

func (h *Handlers) ReadDocHandler(ctx context.Context, req *mcp.CallToolRequest, input ReadDocInput) (*mcp.CallToolResult, ReadDocOutput, error) {
	doc, ok := h.backend.Document(input.Path)
	if !ok {
		return nil, ReadDocOutput{}, fmt.Errorf("document not found: %s", input.Path)
	}
	return nil, newReadDocOutput(doc), nil
}
