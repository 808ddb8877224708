package errors

// Error codes. The hundreds digit groups the failure domain:
// 1xx configuration, 2xx corpus loading, 3xx index store.
const (
	ErrCodeConfigInvalid = "ERR_101_CONFIG_INVALID"

	ErrCodeCorpusUnreadable   = "ERR_201_CORPUS_UNREADABLE"
	ErrCodeDocumentUnreadable = "ERR_202_DOCUMENT_UNREADABLE"
	ErrCodeHeaderMalformed    = "ERR_203_HEADER_MALFORMED"
	ErrCodeDocumentEncoding   = "ERR_204_DOCUMENT_ENCODING"

	ErrCodeIndexNotFound = "ERR_301_INDEX_NOT_FOUND"
	ErrCodeIndexCorrupt  = "ERR_302_INDEX_CORRUPT"
	ErrCodeIndexWrite    = "ERR_303_INDEX_WRITE"
	ErrCodeIndexLocked   = "ERR_304_INDEX_LOCKED"
)

// Sentinels for errors.Is comparisons.
var (
	ErrCorpusUnreadable = &Error{Code: ErrCodeCorpusUnreadable}
	ErrIndexNotFound    = &Error{Code: ErrCodeIndexNotFound}
	ErrIndexCorrupt     = &Error{Code: ErrCodeIndexCorrupt}
	ErrIndexLocked      = &Error{Code: ErrCodeIndexLocked}
	ErrHeaderMalformed  = &Error{Code: ErrCodeHeaderMalformed}
)

func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeDocumentUnreadable, ErrCodeHeaderMalformed, ErrCodeDocumentEncoding:
		return SeverityWarning
	case ErrCodeCorpusUnreadable, ErrCodeIndexCorrupt:
		return SeverityFatal
	default:
		return SeverityError
	}
}
