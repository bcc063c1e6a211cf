package domain

import "time"

// SourceRef describes one retrieved chunk that grounded an answer.
type SourceRef struct {
	// Kind is document or email.
	Kind SourceKind

	// SourceID is the document id or email external id.
	SourceID string

	// Title is the document filename or the email subject.
	Title string

	// Sender is set for email sources.
	Sender string

	// Position is the chunk's position within its source.
	Position int

	// Score is the similarity score the chunk was retrieved with.
	Score float64

	// Preview is the first part of the chunk text (at most 200 chars).
	Preview string
}

// AnswerResult is the outcome of one answer request. Completion-provider
// failures are reported through Success/Error rather than as errors, so
// the caller decides user-facing behaviour.
type AnswerResult struct {
	// Success is false when the completion provider could not be reached.
	Success bool

	// Answer is the generated answer, or an apologetic fallback on failure.
	Answer string

	// Error holds the failure reason when Success is false.
	Error string

	// Sources lists the retrieved chunks the answer was grounded on,
	// in descending score order. Empty on failure.
	Sources []SourceRef

	// ContextUsed is the number of chunks placed in the prompt.
	ContextUsed int

	// TokensUsed is the provider's reported total token count.
	TokensUsed int

	// ResponseTime is end-to-end latency for the request.
	ResponseTime time.Duration
}

// SummaryResult is the outcome of a summarisation request (a document
// upload summary or an email thread digest).
type SummaryResult struct {
	// Success is false when the completion provider could not be reached.
	Success bool

	// Summary is the generated summary text.
	Summary string

	// Error holds the failure reason when Success is false.
	Error string

	// TokensUsed is the provider's reported total token count.
	TokensUsed int
}
