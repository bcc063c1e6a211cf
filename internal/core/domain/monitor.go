package domain

import "time"

// MonitorKey identifies one poller: a mailbox source watched on behalf of
// one tenant. Starting the same pair twice is idempotent.
type MonitorKey struct {
	// Source is the canonical mail source identifier ("thread:x", "query:y").
	Source string

	// TenantID is the tenant new messages are ingested for.
	TenantID TenantID
}

// MonitorState is the runtime state of one poller. It lives only in the
// monitor registry and is not persisted; a process restart drops all
// active monitors.
type MonitorState struct {
	// Key identifies the poller.
	Key MonitorKey

	// Interval is the sleep between poll cycles.
	Interval time.Duration

	// StartedAt is when monitoring began.
	StartedAt time.Time

	// LastCheck is when the last poll cycle completed.
	// Zero until the first cycle finishes.
	LastCheck time.Time

	// MessagesFound is the cumulative count of newly ingested messages.
	MessagesFound int
}

// MonitorAck reports the outcome of a start or stop request. A duplicate
// start and a stop of an unmonitored pair are negative but non-fatal.
type MonitorAck struct {
	// OK is false for a duplicate start or an unknown stop.
	OK bool

	// Message is a human-readable explanation.
	Message string
}

// DefaultPollInterval is the poll interval used when the caller does not
// specify one.
const DefaultPollInterval = 5 * time.Minute
