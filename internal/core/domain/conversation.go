package domain

import "time"

// ConversationTurn is one question/answer exchange in a tenant's chat
// history. History is append-only; the assistant replays a bounded recent
// window of it to preserve multi-turn context.
type ConversationTurn struct {
	// TenantID is the owning tenant.
	TenantID TenantID

	// Question is the user's question.
	Question string

	// Answer is the generated answer.
	Answer string

	// Sources are the references the answer was grounded on.
	Sources []SourceRef

	// TokensUsed is the completion provider's reported token cost.
	TokensUsed int

	// ResponseTime is how long the answer took to produce.
	ResponseTime time.Duration

	// CreatedAt is when the turn happened.
	CreatedAt time.Time
}

// HistoryWindowPairs is the number of recent question/answer pairs replayed
// ahead of a new question. Caps prompt growth while preserving recency.
const HistoryWindowPairs = 3

// RecentWindow returns at most HistoryWindowPairs of the most recent turns,
// oldest first, so they can be replayed chronologically.
func RecentWindow(history []ConversationTurn) []ConversationTurn {
	if len(history) <= HistoryWindowPairs {
		return history
	}
	return history[len(history)-HistoryWindowPairs:]
}
