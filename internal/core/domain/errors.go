package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider, processor or normaliser.
	ErrUnsupportedType = errors.New("unsupported type")

	// Ingestion Errors.

	// ErrEmptyCorpus indicates the location held no loadable documents.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrUnreadableSource indicates the location or one of its files could not be read.
	ErrUnreadableSource = errors.New("unreadable source")

	// ErrDimensionMismatch indicates a vector whose size differs from the index dimension.
	// The offending batch is rejected as a whole.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// Collaborator Errors.

	// ErrRateLimited indicates the provider rejected the call for rate reasons.
	// Transient: retried once.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates the call did not finish within its deadline.
	// Transient: retried once.
	ErrTimeout = errors.New("timeout")

	// ErrInvalidResponse indicates the provider answered with something unusable.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrLLMUnavailable indicates the completion service is not configured or unreachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)

// IsTransient reports whether err is worth one retry.
func IsTransient(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout)
}
