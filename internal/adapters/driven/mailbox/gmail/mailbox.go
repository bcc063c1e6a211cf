// Package gmail provides a mailbox adapter backed by the Gmail API.
package gmail

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/casefile-labs/casefile/internal/core/domain"
	"github.com/casefile-labs/casefile/internal/core/ports/driven"
)

// Ensure Mailbox implements the interface.
var _ driven.Mailbox = (*Mailbox)(nil)

// gmailUser is the special "authenticated user" id accepted by the API.
const gmailUser = "me"

// Conservative rate limit, well below Gmail's per-user quota units.
const (
	requestsPerSecond = 2.0
	burstSize         = 5
)

// Mailbox fetches messages through the Gmail API. All requests pass
// through a token bucket rate limiter so background pollers cannot burn
// through the per-user quota.
type Mailbox struct {
	svc     *gmail.Service
	limiter *rate.Limiter
}

// NewMailbox creates a Gmail mailbox using the provided token source.
func NewMailbox(ctx context.Context, ts oauth2.TokenSource) (*Mailbox, error) {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}
	return &Mailbox{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
	}, nil
}

// NewMailboxWithToken creates a Gmail mailbox from a static access token.
func NewMailboxWithToken(ctx context.Context, accessToken string) (*Mailbox, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: gmail access token not configured", domain.ErrMailboxUnavailable)
	}
	return NewMailbox(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
}

// FetchThread returns all messages of one thread, oldest first.
func (m *Mailbox) FetchThread(ctx context.Context, threadID string) ([]domain.MailMessage, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	thread, err := m.svc.Users.Threads.Get(gmailUser, threadID).
		Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: fetching thread %s: %v", domain.ErrMailboxUnavailable, threadID, err)
	}

	messages := make([]domain.MailMessage, 0, len(thread.Messages))
	for _, msg := range thread.Messages {
		messages = append(messages, parseMessage(msg))
	}
	sortByDate(messages)
	return messages, nil
}

// Search returns messages matching a query or label expression, oldest
// first, up to max messages. The list call only returns ids; each
// message is fetched individually under the rate limit.
func (m *Mailbox) Search(ctx context.Context, query string, max int64) ([]domain.MailMessage, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	list, err := m.svc.Users.Messages.List(gmailUser).
		Q(query).MaxResults(max).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: searching %q: %v", domain.ErrMailboxUnavailable, query, err)
	}

	messages := make([]domain.MailMessage, 0, len(list.Messages))
	for _, ref := range list.Messages {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		msg, err := m.svc.Users.Messages.Get(gmailUser, ref.Id).
			Format("full").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("%w: fetching message %s: %v", domain.ErrMailboxUnavailable, ref.Id, err)
		}
		messages = append(messages, parseMessage(msg))
	}
	sortByDate(messages)
	return messages, nil
}

// Close releases resources.
func (m *Mailbox) Close() error {
	return nil
}

func sortByDate(messages []domain.MailMessage) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Date.Before(messages[j].Date)
	})
}
