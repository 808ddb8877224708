package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_SeverityFromCode(t *testing.T) {
	tests := []struct {
		code     string
		expected Severity
	}{
		{ErrCodeCorpusUnreadable, SeverityFatal},
		{ErrCodeIndexCorrupt, SeverityFatal},
		{ErrCodeHeaderMalformed, SeverityWarning},
		{ErrCodeDocumentUnreadable, SeverityWarning},
		{ErrCodeDocumentEncoding, SeverityWarning},
		{ErrCodeIndexNotFound, SeverityError},
		{ErrCodeConfigInvalid, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "message", nil)
			assert.Equal(t, tt.expected, err.Severity)
		})
	}
}

func TestError_Is(t *testing.T) {
	err := New(ErrCodeIndexCorrupt, "bad checksum", nil)
	wrapped := fmt.Errorf("load index: %w", err)

	assert.True(t, stderrors.Is(wrapped, ErrIndexCorrupt))
	assert.False(t, stderrors.Is(wrapped, ErrIndexNotFound))
	assert.True(t, IsFatal(wrapped))
	assert.Equal(t, ErrCodeIndexCorrupt, GetCode(wrapped))
}

func TestError_Unwrap(t *testing.T) {
	err := New(ErrCodeCorpusUnreadable, "stat root", fs.ErrNotExist)
	assert.True(t, stderrors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), ErrCodeCorpusUnreadable)
	assert.Contains(t, err.Error(), "stat root")
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeIndexWrite, nil))
}

func TestError_DetailsAndSuggestion(t *testing.T) {
	err := New(ErrCodeIndexNotFound, "no index", nil).
		WithDetail("path", "/tmp/index.dsft").
		WithSuggestion("run `docsift build` first")

	assert.Equal(t, "/tmp/index.dsft", err.Details["path"])
	assert.Equal(t, "run `docsift build` first", GetSuggestion(err))
	assert.Empty(t, GetSuggestion(stderrors.New("plain")))
	assert.Empty(t, GetCode(stderrors.New("plain")))
}
