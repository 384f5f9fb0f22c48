package domain

import "errors"

// Error kinds. Every error returned by the core wraps exactly one of these,
// so callers can branch with errors.Is regardless of the concrete cause.
var (
	// ErrValidation indicates the caller supplied input that cannot be processed.
	// It is never retryable.
	ErrValidation = errors.New("validation failed")

	// ErrTransient indicates an external collaborator timed out or answered
	// with a non-success status. The same request may succeed when retried.
	ErrTransient = errors.New("external service unavailable")

	// ErrConfiguration indicates a required setting such as an API key is missing.
	ErrConfiguration = errors.New("configuration error")

	// ErrStorage indicates the persistent store failed.
	ErrStorage = errors.New("storage error")
)

// Specific errors. Each one matches its kind through errors.Is.
var (
	// ErrInvalidParameter indicates an invalid numeric parameter, such as a
	// chunk overlap that is not smaller than the chunk size.
	ErrInvalidParameter = &kindError{msg: "invalid parameter", kind: ErrValidation}

	// ErrDimensionMismatch indicates two vectors of different length were compared.
	ErrDimensionMismatch = &kindError{msg: "vector dimension mismatch", kind: ErrValidation}

	// ErrContentTooShort indicates ingested content is below the minimum length.
	ErrContentTooShort = &kindError{msg: "content too short", kind: ErrValidation}

	// ErrEmptyQuestion indicates a blank question was submitted.
	ErrEmptyQuestion = &kindError{msg: "question is empty", kind: ErrValidation}

	// ErrInvalidURL indicates a URL that is not an absolute http(s) address.
	ErrInvalidURL = &kindError{msg: "invalid url", kind: ErrValidation}

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = &kindError{msg: "rate limited", kind: ErrTransient}

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = &kindError{msg: "embedding service unavailable", kind: ErrConfiguration}

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = &kindError{msg: "LLM service unavailable", kind: ErrConfiguration}
)

// Outcome errors that are not one of the kinds above.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates a privileged operation was attempted with a wrong key.
	ErrUnauthorized = errors.New("unauthorized")
)

// kindError is a specific error that also reports its kind through Unwrap.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// IsRetryable reports whether err is a transient external failure.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}

// KindOf returns the error kind err belongs to, or nil if it has none.
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrTransient, ErrConfiguration, ErrStorage} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
