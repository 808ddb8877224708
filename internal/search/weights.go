package search

import (
	"math"

	"github.com/stormlightlabs/docsift/internal/tokenize"
)

// Weights is the scoring configuration. Every ranking constant lives here so
// scoring can be tuned without touching retrieval.
type Weights struct {
	Title    float64 `toml:"title" json:"title" validate:"gt=0"`
	Heading  float64 `toml:"heading" json:"heading" validate:"gt=0"`
	Filename float64 `toml:"filename" json:"filename" validate:"gt=0"`
	Code     float64 `toml:"code" json:"code" validate:"gt=0"`
	Body     float64 `toml:"body" json:"body" validate:"gt=0"`

	// Fuzzy is the match weight of a term one edit away from the query term.
	// Each further edit multiplies it again.
	Fuzzy float64 `toml:"fuzzy" json:"fuzzy" validate:"gt=0,lt=1"`
	// PhraseBonus is added once when a phrase query is satisfied.
	PhraseBonus float64 `toml:"phrase_bonus" json:"phrase_bonus" validate:"gte=0"`
	// LengthPivot is the token count at which length normalization divides
	// the raw score by sqrt(2).
	LengthPivot float64 `toml:"length_pivot" json:"length_pivot" validate:"gt=0"`
}

// DefaultWeights returns the stock scoring configuration.
func DefaultWeights() Weights {
	return Weights{
		Title:       3.0,
		Heading:     2.5,
		Filename:    2.0,
		Code:        1.5,
		Body:        1.0,
		Fuzzy:       0.6,
		PhraseBonus: 5.0,
		LengthPivot: 200,
	}
}

// Field returns the multiplier for matches in field.
func (w Weights) Field(field tokenize.Field) float64 {
	switch field {
	case tokenize.FieldTitle:
		return w.Title
	case tokenize.FieldHeading:
		return w.Heading
	case tokenize.FieldFilename:
		return w.Filename
	case tokenize.FieldCode:
		return w.Code
	case tokenize.FieldBody:
		return w.Body
	default:
		return 0
	}
}

// Match returns the weight of an expansion at the given edit distance.
func (w Weights) Match(distance int) float64 {
	if distance <= 0 {
		return 1
	}
	return math.Pow(w.Fuzzy, float64(distance))
}

// LengthNorm scales a raw score by document length in tokens.
func (w Weights) LengthNorm(length int) float64 {
	pivot := w.LengthPivot
	if pivot <= 0 {
		return 1
	}
	return 1 / math.Sqrt(1+float64(length)/pivot)
}
