package mcp

import (
	"time"

	"github.com/stormlightlabs/docsift/internal/index"
	"github.com/stormlightlabs/docsift/internal/search"
	"github.com/stormlightlabs/docsift/internal/store"
	"github.com/stormlightlabs/docsift/internal/suggest"
)

// SearchDocsInput defines the input schema for the search_docs tool.
type SearchDocsInput struct {
	Query      string   `json:"query" jsonschema:"Search query for documentation"`
	Phrase     bool     `json:"phrase,omitempty" jsonschema:"Require the query words to appear consecutively"`
	Exact      bool     `json:"exact,omitempty" jsonschema:"Disable typo-tolerant matching"`
	Categories []string `json:"categories,omitempty" jsonschema:"Only return documents in one of these categories"`
	Tags       []string `json:"tags,omitempty" jsonschema:"Only return documents carrying one of these tags"`
	Limit      int      `json:"limit,omitempty" jsonschema:"Maximum number of results"`
}

// SearchHit is one ranked document.
type SearchHit struct {
	Path     string   `json:"path"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`
	Score    float64  `json:"score"`
	Snippets []string `json:"snippets,omitempty"`
	Matched  []string `json:"matched,omitempty"`
}

// SearchDocsOutput defines the output schema for the search_docs tool.
type SearchDocsOutput struct {
	Results      []SearchHit `json:"results"`
	Total        int         `json:"total"`
	Alternatives []string    `json:"alternatives,omitempty"`
}

// SuggestTermsInput defines the input schema for the suggest_terms tool.
type SuggestTermsInput struct {
	Prefix string `json:"prefix" jsonschema:"Partial query; the last word is completed"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of suggestions"`
}

// SuggestTermsOutput defines the output schema for the suggest_terms tool.
type SuggestTermsOutput struct {
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

// IndexStatsInput takes no arguments.
type IndexStatsInput struct{}

// IndexStatsOutput defines the output schema for the index_stats tool.
type IndexStatsOutput struct {
	Path          string `json:"path"`
	DocumentCount int    `json:"documents"`
	TermCount     int    `json:"terms"`
	PostingCount  int    `json:"postings"`
	ArtifactSize  int64  `json:"artifact_size"`
	BuildID       string `json:"build_id"`
	BuiltAt       string `json:"built_at,omitempty"`
}

// ReadDocInput defines the input schema for the read_doc tool.
type ReadDocInput struct {
	Path string `json:"path" jsonschema:"Corpus-relative document path (e.g., 'guides/setup.md')"`
}

// ReadDocOutput defines the output schema for the read_doc tool.
type ReadDocOutput struct {
	Path     string            `json:"path"`
	Title    string            `json:"title"`
	Category string            `json:"category"`
	Tags     []string          `json:"tags,omitempty"`
	Headings []string          `json:"headings,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Content  string            `json:"content"`
}

func newSearchHit(r search.Result) SearchHit {
	hit := SearchHit{
		Path:     r.Document.Path,
		Title:    r.Document.Title,
		Category: r.Document.Category,
		Tags:     r.Document.Tags,
		Score:    r.Score,
		Matched:  r.Matched,
	}
	for _, s := range r.Snippets {
		hit.Snippets = append(hit.Snippets, s.Marked("**", "**"))
	}
	return hit
}

func newIndexStatsOutput(st store.Stats) IndexStatsOutput {
	out := IndexStatsOutput{
		Path:          st.Path,
		DocumentCount: st.DocumentCount,
		TermCount:     st.TermCount,
		PostingCount:  st.PostingCount,
		ArtifactSize:  st.ArtifactSize,
		BuildID:       st.BuildID,
	}
	if !st.BuiltAt.IsZero() {
		out.BuiltAt = st.BuiltAt.Format(time.RFC3339)
	}
	return out
}

func newReadDocOutput(doc *index.Document) ReadDocOutput {
	return ReadDocOutput{
		Path:     doc.Path,
		Title:    doc.Title,
		Category: doc.Category,
		Tags:     doc.Tags,
		Headings: doc.Headings,
		Metadata: doc.Extra,
		Content:  doc.Body,
	}
}
