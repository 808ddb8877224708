// Package tokenize turns document and query text into normalized terms.
//
// Text is split on every rune that is not a letter, digit or combining mark.
// Each run is NFKC-normalized and case-folded. Runs shorter than two runes
// are dropped unless they are purely numeric. Positions count kept tokens,
// so they can be compared for phrase adjacency.
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Token is one normalized term and where it was found.
type Token struct {
	Term     string
	Field    Field
	Position int
	// Start and End are byte offsets of the source run in the input text.
	Start int
	End   int
}

// Tokenizer splits text into tokens. The zero value is ready to use and
// keeps stop words.
type Tokenizer struct {
	stopWords map[string]struct{}
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithStopWords drops the given terms. Dropped terms do not consume a position.
func WithStopWords(words []string) Option {
	return func(t *Tokenizer) {
		if len(words) == 0 {
			return
		}
		t.stopWords = make(map[string]struct{}, len(words))
		for _, w := range words {
			if f := Fold(w); f != "" {
				t.stopWords[f] = struct{}{}
			}
		}
	}
}

// New creates a Tokenizer.
func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FiltersStopWords reports whether the tokenizer drops stop words.
func (t *Tokenizer) FiltersStopWords() bool {
	return t != nil && len(t.stopWords) > 0
}

// Tokenize returns the tokens of text tagged with field.
func (t *Tokenizer) Tokenize(text string, field Field) []Token {
	return t.tokenize(nil, text, field, 0)
}

// SegmentGap is the number of positions left empty between segments, so
// no run of adjacent positions spans two segments.
const SegmentGap = 1

// TokenizeSegments tokenizes several texts as one field. Positions keep
// increasing across segments with SegmentGap between them; offsets are
// relative to each segment.
func (t *Tokenizer) TokenizeSegments(segments []string, field Field) []Token {
	var out []Token
	next := 0
	for _, seg := range segments {
		n := len(out)
		out = t.tokenize(out, seg, field, next)
		if len(out) > n {
			next = out[len(out)-1].Position + 1 + SegmentGap
		}
	}
	return out
}

// Terms returns only the terms of text, in order.
func (t *Tokenizer) Terms(text string, field Field) []string {
	toks := t.Tokenize(text, field)
	terms := make([]string, len(toks))
	for i, tok := range toks {
		terms[i] = tok.Term
	}
	return terms
}

func (t *Tokenizer) tokenize(dst []Token, text string, field Field, base int) []Token {
	folder := cases.Fold()
	n := len(dst)
	start := -1

	flush := func(end int) {
		run := folder.String(norm.NFKC.String(text[start:end]))
		// Normalization can introduce separators (e.g. fractions), so split again.
		for _, term := range strings.FieldsFunc(run, isSeparator) {
			if !keep(term) || t.isStopWord(term) {
				continue
			}
			dst = append(dst, Token{
				Term:     term,
				Field:    field,
				Position: base + len(dst) - n,
				Start:    start,
				End:      end,
			})
		}
		start = -1
	}

	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			flush(i)
		}
	}
	if start >= 0 {
		flush(len(text))
	}
	return dst
}

func (t *Tokenizer) isStopWord(term string) bool {
	if t == nil || t.stopWords == nil {
		return false
	}
	_, ok := t.stopWords[term]
	return ok
}

// Fold normalizes a single term the way the tokenizer does, without the
// minimum length rule. Leading and trailing separators are removed.
func Fold(s string) string {
	folded := cases.Fold().String(norm.NFKC.String(s))
	return strings.TrimFunc(folded, isSeparator)
}

// Words folds s and splits it into words without the minimum length rule
// or stop-word filtering. It suits partial input such as a typed prefix.
func Words(s string) []string {
	return strings.FieldsFunc(cases.Fold().String(norm.NFKC.String(s)), isSeparator)
}

func keep(term string) bool {
	if term == "" {
		return false
	}
	if utf8.RuneCountInString(term) >= 2 {
		return true
	}
	return IsNumeric(term)
}

// IsNumeric reports whether s is non-empty and made only of digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isSeparator(r rune) bool {
	return !isWordRune(r)
}
