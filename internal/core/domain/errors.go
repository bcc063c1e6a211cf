package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTenant indicates a tenant id that cannot be used as a
	// partition key.
	ErrInvalidTenant = errors.New("invalid tenant id")

	// ErrTenantNotFound indicates an operation referenced an unknown tenant.
	// Writes surface this to the caller; reads may return empty instead.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrEmptyInput indicates there was no text to chunk or embed.
	// Callers treat this as an empty result, not a failure.
	ErrEmptyInput = errors.New("empty input")

	// ErrProviderUnavailable indicates an embedding or completion call
	// failed or timed out. Components degrade rather than crash.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrDuplicateItem indicates ingestion saw an already-known external
	// id. The item is skipped, not an error condition.
	ErrDuplicateItem = errors.New("duplicate item")

	// ErrNothingToDelete indicates a delete matched nothing. Benign.
	ErrNothingToDelete = errors.New("nothing to delete")

	// ErrAlreadyMonitoring indicates a monitor start for a pair that is
	// already active. The existing poller keeps running.
	ErrAlreadyMonitoring = errors.New("already monitoring")

	// ErrNotMonitored indicates a monitor stop for a pair that has no
	// active poller.
	ErrNotMonitored = errors.New("not monitored")

	// ErrLLMUnavailable indicates the completion service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Retrieval is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrMailboxUnavailable indicates no mailbox provider is configured.
	ErrMailboxUnavailable = errors.New("mailbox unavailable")
)
