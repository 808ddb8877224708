package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stormlightlabs/docsift/internal/index"
	"github.com/stormlightlabs/docsift/internal/search"
	"github.com/stormlightlabs/docsift/internal/suggest"
)

const (
	maxLimit         = 100
	alternativeLimit = 5
)

// SearchResultItem represents a single search result for API responses.
type SearchResultItem struct {
	Path     string        `json:"path"`
	Title    string        `json:"title"`
	Category string        `json:"category"`
	Tags     []string      `json:"tags,omitempty"`
	Score    float64       `json:"score"`
	Phrase   bool          `json:"phrase,omitempty"`
	Matched  []string      `json:"matched,omitempty"`
	Snippets []SnippetItem `json:"snippets,omitempty"`
}

// SnippetItem is an excerpt with matched byte ranges into Text.
type SnippetItem struct {
	Field string        `json:"field"`
	Text  string        `json:"text"`
	Spans []search.Span `json:"spans"`
}

// SearchResponse represents the API search response.
type SearchResponse struct {
	Query        string             `json:"query"`
	Total        int                `json:"total"`
	Results      []SearchResultItem `json:"results"`
	Alternatives []string           `json:"alternatives,omitempty"`
	TookMS       float64            `json:"took_ms"`
}

// SuggestResponse represents the API suggestion response.
type SuggestResponse struct {
	Prefix      string               `json:"prefix"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

// DocumentItem summarizes one indexed document.
type DocumentItem struct {
	Path       string            `json:"path"`
	Title      string            `json:"title"`
	Category   string            `json:"category"`
	Tags       []string          `json:"tags,omitempty"`
	Headings   []string          `json:"headings,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Size       int64             `json:"size"`
	ModifiedAt time.Time         `json:"modified_at"`
	Body       string            `json:"body,omitempty"`
}

// SearchErrorResponse represents an API error response.
type SearchErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func NewSearchErrorResponse(e string, c string) SearchErrorResponse {
	return SearchErrorResponse{Error: e, Code: c}
}

// handleAPISearch runs a query. Parameters: q, phrase, fuzzy, category
// (repeatable), tag (repeatable) and limit.
func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	text := strings.TrimSpace(params.Get("q"))
	if text == "" {
		s.writeSearchError(w, http.StatusBadRequest, "query parameter required", "missing_param")
		return
	}

	q := s.backend.NewQuery(text)
	q.Phrase = parseBoolParam(r, "phrase", false)
	q.Fuzzy = parseBoolParam(r, "fuzzy", q.Fuzzy)
	q.Categories = params["category"]
	q.Tags = params["tag"]
	q.Limit = min(parseIntParam(r, "limit", q.Limit), maxLimit)

	start := time.Now()
	results := s.backend.Search(q)

	response := SearchResponse{
		Query:   text,
		Total:   len(results),
		Results: make([]SearchResultItem, 0, len(results)),
	}
	for _, res := range results {
		response.Results = append(response.Results, SearchResultItem{
			Path:     res.Document.Path,
			Title:    res.Document.Title,
			Category: res.Document.Category,
			Tags:     res.Document.Tags,
			Score:    res.Score,
			Phrase:   res.Phrase,
			Matched:  res.Matched,
			Snippets: newSnippetItems(res.Snippets),
		})
	}
	if len(results) == 0 {
		response.Alternatives = s.backend.Alternatives(text, alternativeLimit)
	}
	response.TookMS = float64(time.Since(start).Microseconds()) / 1000

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleAPISuggest(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")
	if strings.TrimSpace(prefix) == "" {
		s.writeSearchError(w, http.StatusBadRequest, "query parameter required", "missing_param")
		return
	}
	limit := min(parseIntParam(r, "limit", 0), maxLimit)

	suggestions := s.backend.Suggest(prefix, limit)
	if suggestions == nil {
		suggestions = []suggest.Suggestion{}
	}
	s.writeJSON(w, http.StatusOK, SuggestResponse{Prefix: prefix, Suggestions: suggestions})
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.backend.Stats())
}

func (s *Server) handleAPIDocuments(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category")))
	docs := s.backend.Documents()
	items := make([]DocumentItem, 0, len(docs))
	for _, d := range docs {
		if category != "" && d.Category != category {
			continue
		}
		items = append(items, newDocumentItem(d, false))
	}
	s.writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAPIDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.backend.Document(r.PathValue("path"))
	if !ok {
		s.writeSearchError(w, http.StatusNotFound, "document not found", "not_found")
		return
	}
	s.writeJSON(w, http.StatusOK, newDocumentItem(doc, true))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func newSnippetItems(snippets []search.Snippet) []SnippetItem {
	items := make([]SnippetItem, 0, len(snippets))
	for _, sn := range snippets {
		items = append(items, SnippetItem{Field: sn.Field.String(), Text: sn.Text, Spans: sn.Spans})
	}
	return items
}

func newDocumentItem(d *index.Document, withBody bool) DocumentItem {
	item := DocumentItem{
		Path:       d.Path,
		Title:      d.Title,
		Category:   d.Category,
		Tags:       d.Tags,
		Headings:   d.Headings,
		Metadata:   d.Extra,
		Size:       d.Size,
		ModifiedAt: d.ModifiedAt,
	}
	if withBody {
		item.Body = d.Body
	}
	return item
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeSearchError writes a JSON error response.
func (s *Server) writeSearchError(w http.ResponseWriter, status int, message, code string) {
	s.writeJSON(w, status, NewSearchErrorResponse(message, code))
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}

func parseBoolParam(r *http.Request, name string, defaultVal bool) bool {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
