package domain

import (
	"fmt"
	"strings"
	"time"
)

// MailMessage is a normalised email fetched from a mailbox provider.
type MailMessage struct {
	// ExternalID is the provider's message id, used for deduplication.
	ExternalID string

	// ThreadID groups messages belonging to one conversation.
	ThreadID string

	// Subject is the message subject line.
	Subject string

	// Sender is the From address.
	Sender string

	// Recipient is the To address.
	Recipient string

	// Body is the plain-text message body.
	Body string

	// Snippet is a short preview of the body.
	Snippet string

	// Labels are provider labels (e.g. INBOX, IMPORTANT).
	Labels []string

	// Date is when the message was sent.
	Date time.Time
}

// MailSourceMode selects how a mailbox source is fetched.
type MailSourceMode string

const (
	// MailSourceThread fetches all messages of a single thread.
	MailSourceThread MailSourceMode = "thread"

	// MailSourceQuery fetches messages matching a label or search query.
	MailSourceQuery MailSourceMode = "query"
)

// MailSource identifies what a monitor watches: a thread or a query/label.
type MailSource struct {
	// Mode is thread or query.
	Mode MailSourceMode

	// Value is the thread id, or the query/label expression.
	Value string
}

// ParseMailSource parses a source identifier of the form "thread:<id>" or
// "query:<expr>". A bare identifier is treated as a thread id.
func ParseMailSource(s string) (MailSource, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MailSource{}, fmt.Errorf("%w: empty mail source", ErrInvalidInput)
	}
	switch {
	case strings.HasPrefix(s, "thread:"):
		return MailSource{Mode: MailSourceThread, Value: strings.TrimPrefix(s, "thread:")}, nil
	case strings.HasPrefix(s, "query:"):
		return MailSource{Mode: MailSourceQuery, Value: strings.TrimPrefix(s, "query:")}, nil
	default:
		return MailSource{Mode: MailSourceThread, Value: s}, nil
	}
}

// String returns the canonical "<mode>:<value>" form.
func (m MailSource) String() string {
	return string(m.Mode) + ":" + m.Value
}
