package scripted

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchThread_AllArrived(t *testing.T) {
	// Anchor far enough in the past that every delay has elapsed.
	m := NewMailboxAt(time.Now().UTC().Add(-200 * time.Hour))

	messages, err := m.FetchThread(context.Background(), DefaultThreadID)

	require.NoError(t, err)
	require.Len(t, messages, len(script))

	// Chronological order, alternating correspondents.
	for i := 1; i < len(messages); i++ {
		assert.True(t, messages[i].Date.After(messages[i-1].Date))
	}
	assert.Equal(t, "scripted-001", messages[0].ExternalID)
	assert.Equal(t, "Employee equity grant question", messages[0].Subject)
	assert.Equal(t, DefaultThreadID, messages[0].ThreadID)
	assert.NotEmpty(t, messages[0].Body)
}

func TestFetchThread_PartialArrival(t *testing.T) {
	// With the default anchor (now-72h), the 75-hour message has not
	// arrived yet.
	m := NewMailbox()

	messages, err := m.FetchThread(context.Background(), DefaultThreadID)

	require.NoError(t, err)
	require.Len(t, messages, len(script)-1)
	for _, msg := range messages {
		assert.NotEqual(t, "scripted-005", msg.ExternalID)
	}
}

func TestFetchThread_UnknownThread(t *testing.T) {
	m := NewMailbox()

	messages, err := m.FetchThread(context.Background(), "other-thread")

	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestSearch_RespectsMax(t *testing.T) {
	m := NewMailboxAt(time.Now().UTC().Add(-200 * time.Hour))

	messages, err := m.Search(context.Background(), "label:INBOX", 2)

	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestFetchThread_Deterministic(t *testing.T) {
	m := NewMailboxAt(time.Now().UTC().Add(-200 * time.Hour))

	first, err := m.FetchThread(context.Background(), DefaultThreadID)
	require.NoError(t, err)
	second, err := m.FetchThread(context.Background(), DefaultThreadID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
