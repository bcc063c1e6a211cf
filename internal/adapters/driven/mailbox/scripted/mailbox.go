// Package scripted provides a deterministic mailbox for demos and tests.
// It replays a fixed conversation between a client and outside counsel,
// with message timestamps offset from a base time so that messages
// "arrive" over the lifetime of a monitoring session.
package scripted

import (
	"context"
	"fmt"
	"time"

	"github.com/casefile-labs/casefile/internal/core/domain"
	"github.com/casefile-labs/casefile/internal/core/ports/driven"
)

// Ensure Mailbox implements the interface.
var _ driven.Mailbox = (*Mailbox)(nil)

// DefaultThreadID is the thread id the scripted conversation lives under.
const DefaultThreadID = "thread-equity-grant"

// baseOffset places the conversation start 72 hours in the past so the
// early messages predate any monitor's initial lookback window.
const baseOffset = -72 * time.Hour

// scriptedMessage is one entry in the canned conversation.
type scriptedMessage struct {
	id         string
	subject    string
	sender     string
	recipient  string
	body       string
	delayHours float64
}

// script is the canned thread: a client asking counsel about an employee
// equity grant, in chronological order.
var script = []scriptedMessage{
	{
		id:        "scripted-001",
		subject:   "Employee equity grant question",
		sender:    "sarah.chen@acmecorp.example.com",
		recipient: "counsel@lawfirm.example.com",
		body: "Hi, we are planning to grant equity to our new VP of Engineering. " +
			"She starts next month and we discussed 50,000 options in the offer letter. " +
			"What do we need to prepare on the legal side before the grant can be made?",
		delayHours: 0,
	},
	{
		id:        "scripted-002",
		subject:   "Re: Employee equity grant question",
		sender:    "counsel@lawfirm.example.com",
		recipient: "sarah.chen@acmecorp.example.com",
		body: "Thanks Sarah. Before the board can approve the grant we need three things. " +
			"First, confirm the option pool has 50,000 shares available under the 2023 plan. " +
			"Second, we need a 409A valuation dated within the last twelve months to set the exercise price. " +
			"Third, the board consent has to be executed before her start date, not after. " +
			"Can you send over the current cap table and the latest 409A report?",
		delayHours: 2,
	},
	{
		id:        "scripted-003",
		subject:   "Re: Employee equity grant question",
		sender:    "sarah.chen@acmecorp.example.com",
		recipient: "counsel@lawfirm.example.com",
		body: "Cap table attached. Our last 409A was completed in November, so it is still current. " +
			"The pool has 62,000 shares remaining. One more question: she asked about early exercise. " +
			"Is that something we can allow under the plan?",
		delayHours: 26,
	},
	{
		id:        "scripted-004",
		subject:   "Re: Employee equity grant question",
		sender:    "counsel@lawfirm.example.com",
		recipient: "sarah.chen@acmecorp.example.com",
		body: "The 2023 plan does permit early exercise if the board approves it for the specific grant. " +
			"If she early exercises she should file an 83(b) election within 30 days of exercise; " +
			"that deadline is strict and cannot be extended. " +
			"I will draft the board consent with the early exercise provision included. " +
			"Expect the documents by Thursday.",
		delayHours: 30,
	},
	{
		id:        "scripted-005",
		subject:   "Re: Employee equity grant question",
		sender:    "counsel@lawfirm.example.com",
		recipient: "sarah.chen@acmecorp.example.com",
		body: "Attached are the draft board consent, the stock option agreement and the notice of grant. " +
			"The exercise price is set at the November 409A fair market value of $2.84 per share. " +
			"Please have the board sign the consent before the 1st. " +
			"Let me know if you want a call to walk through the early exercise mechanics.",
		delayHours: 75,
	},
}

// Mailbox replays the scripted conversation. The base time is fixed at
// construction, so repeated fetches are stable within a run.
type Mailbox struct {
	base time.Time
}

// NewMailbox creates a scripted mailbox with the conversation anchored
// 72 hours before now.
func NewMailbox() *Mailbox {
	return &Mailbox{base: time.Now().UTC().Add(baseOffset)}
}

// NewMailboxAt creates a scripted mailbox with a fixed base time.
func NewMailboxAt(base time.Time) *Mailbox {
	return &Mailbox{base: base}
}

// FetchThread returns the scripted messages that have "arrived" by now,
// oldest first. Unknown thread ids yield an empty thread.
func (m *Mailbox) FetchThread(_ context.Context, threadID string) ([]domain.MailMessage, error) {
	if threadID != DefaultThreadID {
		return []domain.MailMessage{}, nil
	}
	return m.arrived(time.Now().UTC()), nil
}

// Search returns the arrived scripted messages regardless of query, up
// to max messages.
func (m *Mailbox) Search(_ context.Context, _ string, max int64) ([]domain.MailMessage, error) {
	messages := m.arrived(time.Now().UTC())
	if max > 0 && int64(len(messages)) > max {
		messages = messages[:max]
	}
	return messages, nil
}

// Close releases resources.
func (m *Mailbox) Close() error {
	return nil
}

// arrived materialises every scripted message whose delay has elapsed.
func (m *Mailbox) arrived(now time.Time) []domain.MailMessage {
	messages := make([]domain.MailMessage, 0, len(script))
	for _, s := range script {
		date := m.base.Add(time.Duration(s.delayHours * float64(time.Hour)))
		if date.After(now) {
			continue
		}
		messages = append(messages, domain.MailMessage{
			ExternalID: s.id,
			ThreadID:   DefaultThreadID,
			Subject:    s.subject,
			Sender:     s.sender,
			Recipient:  s.recipient,
			Body:       s.body,
			Snippet:    snippet(s.body),
			Labels:     []string{"INBOX"},
			Date:       date,
		})
	}
	return messages
}

func snippet(body string) string {
	const max = 100
	if len(body) <= max {
		return body
	}
	return fmt.Sprintf("%s...", body[:max])
}
