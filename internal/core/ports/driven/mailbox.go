package driven

import (
	"context"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

// Mailbox fetches messages from an external mail provider.
//
// Implementations may include:
//   - Gmail (users.threads.get / users.messages.list)
//   - A scripted conversation for demos and tests
type Mailbox interface {
	// FetchThread returns all messages of one thread, oldest first.
	FetchThread(ctx context.Context, threadID string) ([]domain.MailMessage, error)

	// Search returns messages matching a label or search query,
	// oldest first, up to max messages.
	Search(ctx context.Context, query string, max int64) ([]domain.MailMessage, error)

	// Close releases resources.
	Close() error
}
