package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/casefile-labs/casefile/internal/core/domain"
	"github.com/casefile-labs/casefile/internal/core/ports/driven"
	"github.com/casefile-labs/casefile/internal/core/ports/driving"
	"github.com/casefile-labs/casefile/internal/logger"
)

// Ensure Assistant implements the interface.
var _ driving.AssistantService = (*Assistant)(nil)

// Answer generation parameters. Low temperature keeps answers consistent
// across retries.
const (
	answerMaxTokens    = 1000
	summaryMaxTokens   = 500
	answerTemperature  = 0.3
	summaryInputLimit  = 4000
	sourcePreviewChars = 200
)

// systemPrompt is the fixed assistant persona: precise, cites sources,
// flags uncertainty.
const systemPrompt = `You are a helpful AI assistant for lawyers working with legal documents and email communications.

Your role is to:
1. Analyze legal documents and email threads accurately
2. Provide clear, professional responses about legal matters
3. Extract key information from contracts, agreements, and correspondence
4. Help lawyers understand complex legal relationships and requirements

Guidelines:
- Be precise and factual in your responses
- Reference specific documents or emails when providing information
- Use professional legal language when appropriate
- If you're unsure about something, clearly state that
- Focus on the most relevant information for the lawyer's query
- When discussing legal matters, remind users to verify important details

You have access to the client's documents and email communications. Use this context to provide accurate, helpful responses.`

// documentSummaryPrompt is the persona for document upload summaries.
const documentSummaryPrompt = `You are a legal document analysis assistant. Provide clear, concise summaries of legal documents, highlighting key terms, parties, dates, and important provisions.`

// threadSummaryPrompt is the persona for email thread digests.
const threadSummaryPrompt = `You are a legal communication analysis assistant. Summarize email threads focusing on key decisions, action items, legal requirements, and important deadlines.`

// failureAnswer is shown when the completion provider cannot be reached.
const failureAnswer = "I apologize, but I encountered an error while processing your question. Please try again."

// Assistant assembles grounded prompts from retrieved context and recent
// conversation turns, and calls the completion provider. Provider
// failures never escape as errors; they become structured failure
// results so the caller decides user-facing behaviour.
type Assistant struct {
	retriever driving.RetrieveService
	llm       driven.LLMService
	topK      int
}

// AssistantOption configures the assistant.
type AssistantOption func(*Assistant)

// WithAnswerTopK sets how many chunks are retrieved per question.
func WithAnswerTopK(k int) AssistantOption {
	return func(a *Assistant) {
		if k > 0 {
			a.topK = k
		}
	}
}

// NewAssistant creates an assistant. llm may be nil; answer requests then
// report a structured failure.
func NewAssistant(retriever driving.RetrieveService, llm driven.LLMService, opts ...AssistantOption) *Assistant {
	a := &Assistant{
		retriever: retriever,
		llm:       llm,
		topK:      domain.DefaultTopK,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Answer retrieves context for the question and generates a grounded
// answer with source attribution.
func (a *Assistant) Answer(
	ctx context.Context,
	tenant domain.TenantID,
	question string,
	history []domain.ConversationTurn,
) domain.AnswerResult {
	start := time.Now()

	results, err := a.retriever.Retrieve(ctx, tenant, question, domain.RetrievalOptions{TopK: a.topK})
	if err != nil {
		return a.failure(err, start)
	}

	messages := make([]driven.ChatMessage, 0, 2+2*domain.HistoryWindowPairs)
	messages = append(messages, driven.ChatMessage{Role: "system", Content: systemPrompt})
	for _, turn := range domain.RecentWindow(history) {
		messages = append(messages,
			driven.ChatMessage{Role: "user", Content: turn.Question},
			driven.ChatMessage{Role: "assistant", Content: turn.Answer},
		)
	}
	messages = append(messages, driven.ChatMessage{
		Role: "user",
		Content: fmt.Sprintf("Context from documents and emails:\n%s\n\nQuestion: %s\n\n"+
			"Please provide a helpful response based on the available context.",
			buildContext(results), question),
	})

	if a.llm == nil {
		return a.failure(domain.ErrLLMUnavailable, start)
	}

	logger.Section("Answer Generation")
	logger.Debug("tenant=%s context_chunks=%d history_turns=%d", tenant, len(results), len(history))

	reply, err := a.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		logger.Warn("completion failed for tenant %s: %v", tenant, err)
		return a.failure(err, start)
	}

	return domain.AnswerResult{
		Success:      true,
		Answer:       reply.Content,
		Sources:      formatSources(results),
		ContextUsed:  len(results),
		TokensUsed:   reply.TokensUsed,
		ResponseTime: time.Since(start),
	}
}

// SummarizeDocument produces an upload summary of a document's full text.
// No retrieval step; the text itself is the context.
func (a *Assistant) SummarizeDocument(ctx context.Context, text, filename string) domain.SummaryResult {
	prompt := fmt.Sprintf(`Please provide a summary of this legal document titled %q:

%s

Include:
1. Document type and purpose
2. Key parties involved
3. Important dates
4. Main terms and provisions
5. Any notable requirements or obligations

Keep the summary professional and concise.`, filename, truncate(text, summaryInputLimit))

	return a.summarize(ctx, documentSummaryPrompt, prompt)
}

// SummarizeThread produces a digest of an email thread.
func (a *Assistant) SummarizeThread(ctx context.Context, messages []domain.MailMessage) domain.SummaryResult {
	var thread strings.Builder
	for _, msg := range messages {
		fmt.Fprintf(&thread, "\nFrom: %s\nTo: %s\nDate: %s\nSubject: %s\n\n%s\n\n---\n",
			msg.Sender, msg.Recipient, msg.Date.Format(time.RFC1123), msg.Subject, msg.Body)
	}

	prompt := fmt.Sprintf(`Please provide a summary of this email thread:

%s

Include:
1. Main topic and purpose of the communication
2. Key decisions made
3. Action items and responsibilities
4. Important deadlines or dates
5. Legal or business requirements discussed

Keep the summary professional and focused on actionable information.`, truncate(thread.String(), summaryInputLimit))

	return a.summarize(ctx, threadSummaryPrompt, prompt)
}

func (a *Assistant) summarize(ctx context.Context, persona, prompt string) domain.SummaryResult {
	if a.llm == nil {
		return domain.SummaryResult{
			Summary: "Unable to generate summary.",
			Error:   domain.ErrLLMUnavailable.Error(),
		}
	}

	reply, err := a.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: persona},
		{Role: "user", Content: prompt},
	}, driven.ChatOptions{
		MaxTokens:   summaryMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		logger.Warn("summary generation failed: %v", err)
		return domain.SummaryResult{
			Summary: "Unable to generate summary.",
			Error:   err.Error(),
		}
	}

	return domain.SummaryResult{
		Success:    true,
		Summary:    reply.Content,
		TokensUsed: reply.TokensUsed,
	}
}

func (a *Assistant) failure(err error, start time.Time) domain.AnswerResult {
	return domain.AnswerResult{
		Success:      false,
		Answer:       failureAnswer,
		Error:        err.Error(),
		Sources:      []domain.SourceRef{},
		ResponseTime: time.Since(start),
	}
}

// buildContext formats retrieved chunks into a single context block, one
// labelled entry per chunk in descending score order.
func buildContext(results []domain.RetrievedChunk) string {
	if len(results) == 0 {
		return "No relevant context found."
	}

	var b strings.Builder
	for i, r := range results {
		var label string
		switch r.Chunk.SourceKind {
		case domain.SourceDocument:
			label = fmt.Sprintf("Document: %s", orUnknown(r.Chunk.Filename()))
		case domain.SourceEmail:
			label = fmt.Sprintf("Email: %s from %s", orUnknown(r.Chunk.Subject()), orUnknown(r.Chunk.Sender()))
		default:
			label = fmt.Sprintf("Source: %s", r.Chunk.SourceKind)
		}
		fmt.Fprintf(&b, "[%d] %s (Relevance: %.2f)\n%s\n\n", i+1, label, r.Score, r.Chunk.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatSources converts retrieval results to source references for the
// caller, preserving descending score order.
func formatSources(results []domain.RetrievedChunk) []domain.SourceRef {
	sources := make([]domain.SourceRef, 0, len(results))
	for _, r := range results {
		ref := domain.SourceRef{
			Kind:     r.Chunk.SourceKind,
			SourceID: r.Chunk.SourceID,
			Position: r.Chunk.Position,
			Score:    r.Score,
			Preview:  truncate(r.Chunk.Text, sourcePreviewChars),
		}
		switch r.Chunk.SourceKind {
		case domain.SourceEmail:
			ref.Title = orUnknown(r.Chunk.Subject())
			ref.Sender = orUnknown(r.Chunk.Sender())
		default:
			ref.Title = orUnknown(r.Chunk.Filename())
		}
		sources = append(sources, ref)
	}
	return sources
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
