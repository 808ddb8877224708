package tokenize

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_Normalization(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"lowercase", "Planogram Optimization", []string{"planogram", "optimization"}},
		{"punctuation", "slot-placement, (engine).", []string{"slot", "placement", "engine"}},
		{"drops single letters", "a b cd e", []string{"cd"}},
		{"keeps short numbers", "step 1 of 2", []string{"step", "1", "of", "2"}},
		{"only punctuation", "...", nil},
		{"empty", "", nil},
		{"unicode letters", "Über Café", []string{"über", "café"}},
		{"compatibility forms", "ﬁle Ｆｕｌｌ", []string{"file", "full"}},
		{"underscores split", "max_retries", []string{"max", "retries"}},
		{"code symbols", "http.Client{}", []string{"http", "client"}},
	}

	tok := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tok.Terms(tt.input, FieldBody))
		})
	}
}

func TestTokenize_PositionsAndOffsets(t *testing.T) {
	text := "The planogram, engine"
	toks := New().Tokenize(text, FieldBody)
	require.Len(t, toks, 3)

	for i, tok := range toks {
		assert.Equal(t, i, tok.Position)
		assert.Equal(t, FieldBody, tok.Field)
	}
	assert.Equal(t, "planogram", text[toks[1].Start:toks[1].End])
	assert.Equal(t, "engine", text[toks[2].Start:toks[2].End])
}

func TestTokenize_StopWords(t *testing.T) {
	tok := New(WithStopWords(DefaultStopWords))
	require.True(t, tok.FiltersStopWords())

	toks := tok.Tokenize("the service of the order", FieldBody)
	require.Len(t, toks, 2)
	assert.Equal(t, "service", toks[0].Term)
	assert.Equal(t, 0, toks[0].Position)
	assert.Equal(t, "order", toks[1].Term)
	assert.Equal(t, 1, toks[1].Position)

	assert.False(t, New().FiltersStopWords())
	var zero *Tokenizer
	assert.Len(t, zero.Tokenize("the order", FieldBody), 2)
}

func TestTokenizeSegments_GapsBetweenSegments(t *testing.T) {
	toks := New().TokenizeSegments([]string{"Install Guide", "", "Configure it"}, FieldHeading)
	require.Len(t, toks, 4)
	assert.Equal(t, []int{0, 1, 3, 4}, []int{toks[0].Position, toks[1].Position, toks[2].Position, toks[3].Position})
	assert.Equal(t, "configure", toks[2].Term)
	assert.Equal(t, 0, toks[2].Start)
}

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Plan", "plan"},
		{"  --API--", "api"},
		{"p", "p"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fold(tt.input))
		})
	}
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"service", "o"}, Words("Service O"))
	assert.Equal(t, []string{"a", "b"}, Words("a-b"))
	assert.Empty(t, Words(" -- "))
}

func TestParseField(t *testing.T) {
	for _, f := range append(IndexedFields(), FieldQuery) {
		parsed, err := ParseField(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	_, err := ParseField("footer")
	assert.Error(t, err)
	assert.False(t, FieldQuery.Indexed())
	assert.True(t, FieldCode.Indexed())
}

func TestTokenize_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	tok := New()

	properties.Property("terms are non-empty and free of separators", prop.ForAll(
		func(s string) bool {
			for _, tk := range tok.Tokenize(s, FieldBody) {
				if !keep(tk.Term) {
					return false
				}
				for _, r := range tk.Term {
					if isSeparator(r) {
						return false
					}
				}
				if tk.Start < 0 || tk.End > len(s) || tk.Start >= tk.End {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.Property("positions are strictly increasing ordinals", prop.ForAll(
		func(words []string) bool {
			text := ""
			for _, w := range words {
				text += w + " . "
			}
			for i, tk := range tok.Tokenize(text, FieldBody) {
				if tk.Position != i {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
