package driving

import (
	"context"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

// AssistantService answers questions grounded in a tenant's retrieved
// context, and produces summaries without retrieval.
type AssistantService interface {
	// Answer retrieves context for the question and generates a grounded
	// answer with source attribution. Completion failures are reported
	// inside the result, never as an error.
	Answer(ctx context.Context, tenant domain.TenantID, question string,
		history []domain.ConversationTurn) domain.AnswerResult

	// SummarizeDocument produces an upload summary of a document's full
	// text. No retrieval step; the text itself is the context.
	SummarizeDocument(ctx context.Context, text, filename string) domain.SummaryResult

	// SummarizeThread produces a digest of an email thread.
	SummarizeThread(ctx context.Context, messages []domain.MailMessage) domain.SummaryResult
}
