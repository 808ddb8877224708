package search

import (
	"strings"
	"unicode/utf8"

	"github.com/stormlightlabs/docsift/internal/index"
	"github.com/stormlightlabs/docsift/internal/shared"
	"github.com/stormlightlabs/docsift/internal/tokenize"
)

const ellipsis = "..."

// Span is a matched region of a snippet, in byte offsets into Snippet.Text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Snippet is a short excerpt of one field around matched terms.
type Snippet struct {
	Field tokenize.Field `json:"field"`
	Text  string         `json:"text"`
	Spans []Span         `json:"spans"`
}

// Marked returns the snippet text with every span wrapped in open and close.
func (s Snippet) Marked(open, close string) string {
	var b strings.Builder
	last := 0
	for _, sp := range s.Spans {
		if sp.Start < last || sp.End > len(s.Text) {
			continue
		}
		b.WriteString(s.Text[last:sp.Start])
		b.WriteString(open)
		b.WriteString(s.Text[sp.Start:sp.End])
		b.WriteString(close)
		last = sp.End
	}
	b.WriteString(s.Text[last:])
	return b.String()
}

// snippets returns a title snippet when the title matches, then body
// windows. Headings stand in for the body when it has no match.
func (e *Engine) snippets(idx *index.Index, doc *index.Document, matched []string) []Snippet {
	if len(matched) == 0 {
		return nil
	}
	set := make(map[string]bool, len(matched))
	for _, t := range matched {
		set[t] = true
	}
	tok := idx.Tokenizer()

	out := e.windows(tok, doc.Title, tokenize.FieldTitle, set, 1)

	body := e.windows(tok, doc.Body, tokenize.FieldBody, set, e.MaxSnippets)
	if len(body) == 0 {
		for _, h := range doc.Headings {
			if len(body) >= e.MaxSnippets {
				break
			}
			body = append(body, e.windows(tok, h, tokenize.FieldHeading, set, 1)...)
		}
	}
	return append(out, body...)
}

// windows cuts up to limit non-overlapping excerpts of text, each centered on
// the first matched token it covers and marking every match inside it.
func (e *Engine) windows(tok *tokenize.Tokenizer, text string, field tokenize.Field, set map[string]bool, limit int) []Snippet {
	if limit <= 0 || text == "" {
		return nil
	}

	var hits []tokenize.Token
	for _, t := range tok.Tokenize(text, field) {
		if !set[t.Term] {
			continue
		}
		if n := len(hits); n > 0 && hits[n-1].Start == t.Start {
			continue
		}
		hits = append(hits, t)
	}
	if len(hits) == 0 {
		return nil
	}

	flat := shared.FlattenWhitespace(text)
	var (
		out     []Snippet
		covered int
	)
	for _, h := range hits {
		if len(out) >= limit {
			break
		}
		if h.Start < covered {
			continue
		}
		start, stop := e.window(flat, h.Start, h.End)

		var prefix, suffix string
		if start > 0 {
			prefix = ellipsis
		}
		if stop < len(flat) {
			suffix = ellipsis
		}

		sn := Snippet{Field: field, Text: prefix + flat[start:stop] + suffix}
		for _, other := range hits {
			if other.Start >= start && other.End <= stop {
				sn.Spans = append(sn.Spans, Span{
					Start: other.Start - start + len(prefix),
					End:   other.End - start + len(prefix),
				})
			}
		}
		out = append(out, sn)
		covered = stop
	}
	return out
}

// window returns byte bounds of an excerpt of text containing [from, to).
// The bounds sit on rune starts and, where possible, on word boundaries.
func (e *Engine) window(text string, from, to int) (int, int) {
	size := e.SnippetWindow
	if size <= 0 {
		size = 160
	}
	if len(text) <= size {
		return 0, len(text)
	}

	start := max(from-(size-(to-from))/2, 0)
	stop := min(start+size, len(text))
	start = max(min(start, stop-size), 0)
	start = min(start, from)
	stop = max(stop, to)

	for start < from && !utf8.RuneStart(text[start]) {
		start++
	}
	for stop > to && stop < len(text) && !utf8.RuneStart(text[stop]) {
		stop--
	}

	if start > 0 {
		if i := strings.IndexByte(text[start:from], ' '); i >= 0 {
			start += i + 1
		}
	}
	if stop < len(text) {
		if i := strings.LastIndexByte(text[to:stop], ' '); i >= 0 {
			stop = to + i
		}
	}
	for start < from && text[start] == ' ' {
		start++
	}
	for stop > to && text[stop-1] == ' ' {
		stop--
	}
	return start, stop
}
