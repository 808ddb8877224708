// Package errors provides the coded error type shared by the loader, the
// index store and the CLI.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Severity describes how a failure affects the current operation.
type Severity string

const (
	// SeverityWarning failures are recorded and the operation continues.
	SeverityWarning Severity = "warning"
	// SeverityError failures abort the current operation.
	SeverityError Severity = "error"
	// SeverityFatal failures abort the operation and must not be masked by
	// fallbacks such as an empty index.
	SeverityFatal Severity = "fatal"
)

// Error is the structured error type for docsift.
type Error struct {
	// Code is the unique error code (e.g., "ERR_302_INDEX_CORRUPT").
	Code string

	// Message is the human-readable error message.
	Message string

	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable hint for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code so errors.Is works against sentinel values.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// New creates an Error whose severity is derived from the code.
func New(code, message string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an Error from an existing error, reusing its message.
func Wrap(code string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// IsFatal reports whether err carries fatal severity anywhere in its chain.
func IsFatal(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from err. It returns an empty string when
// no *Error is present in the chain.
func GetCode(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetSuggestion returns the suggestion attached to err, if any.
func GetSuggestion(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Suggestion
	}
	return ""
}
