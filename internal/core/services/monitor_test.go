package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

const testPollInterval = 5 * time.Millisecond

func newTestMonitor(mailbox *mockMailbox) (*Monitor, *mockIngest) {
	ledger := newMockLedger()
	ingest := &mockIngest{ledger: ledger}
	return NewMonitor(mailbox, ledger, ingest), ingest
}

func freshMessage(id string) domain.MailMessage {
	return domain.MailMessage{
		ExternalID: id,
		Subject:    "Filing update",
		Sender:     "counsel@example.com",
		Body:       "The filing was accepted this morning.",
		// Always strictly newer than any cycle's lastCheck.
		Date: time.Now().Add(24 * time.Hour),
	}
}

func TestMonitorStart_InvalidInputs(t *testing.T) {
	m, _ := newTestMonitor(&mockMailbox{})
	defer m.StopAll()

	_, err := m.Start(context.Background(), domain.MailSource{Mode: domain.MailSourceThread, Value: "t1"},
		"bad tenant!", time.Second)
	assert.ErrorIs(t, err, domain.ErrInvalidTenant)

	_, err = m.Start(context.Background(), domain.MailSource{Mode: domain.MailSourceThread}, "acme", time.Second)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMonitorStart_DuplicateIsRejected(t *testing.T) {
	m, _ := newTestMonitor(&mockMailbox{})
	defer m.StopAll()

	source := domain.MailSource{Mode: domain.MailSourceThread, Value: "t1"}

	ack, err := m.Start(context.Background(), source, "acme", time.Minute)
	require.NoError(t, err)
	assert.True(t, ack.OK)

	ack, err = m.Start(context.Background(), source, "acme", time.Minute)
	require.NoError(t, err)
	assert.False(t, ack.OK)
	assert.Contains(t, ack.Message, "already monitoring")

	assert.Len(t, m.Status(), 1)
}

func TestMonitor_SamePairDifferentTenants(t *testing.T) {
	m, _ := newTestMonitor(&mockMailbox{})
	defer m.StopAll()

	source := domain.MailSource{Mode: domain.MailSourceThread, Value: "t1"}

	ack, err := m.Start(context.Background(), source, "acme", time.Minute)
	require.NoError(t, err)
	assert.True(t, ack.OK)

	ack, err = m.Start(context.Background(), source, "globex", time.Minute)
	require.NoError(t, err)
	assert.True(t, ack.OK)

	assert.Len(t, m.Status(), 2)
}

func TestMonitor_IngestsNewMessagesOnce(t *testing.T) {
	mailbox := &mockMailbox{messages: []domain.MailMessage{freshMessage("msg-1")}}
	m, ingest := newTestMonitor(mailbox)
	defer m.StopAll()

	_, err := m.Start(context.Background(), domain.MailSource{Mode: domain.MailSourceThread, Value: "t1"},
		"acme", testPollInterval)
	require.NoError(t, err)

	// Let several cycles run; the ledger must keep msg-1 from being
	// ingested more than once even though every fetch returns it.
	require.Eventually(t, func() bool {
		return mailbox.fetchCount() >= 3
	}, time.Second, time.Millisecond)

	assert.Equal(t, []string{"msg-1"}, ingest.ingested())

	states := m.Status()
	require.Len(t, states, 1)
	assert.Equal(t, 1, states[0].MessagesFound)
	assert.False(t, states[0].LastCheck.IsZero())
}

func TestMonitor_SkipsOldMessages(t *testing.T) {
	old := freshMessage("msg-old")
	old.Date = time.Now().Add(-2 * time.Hour) // before the initial lookback
	mailbox := &mockMailbox{messages: []domain.MailMessage{old}}
	m, ingest := newTestMonitor(mailbox)
	defer m.StopAll()

	_, err := m.Start(context.Background(), domain.MailSource{Mode: domain.MailSourceQuery, Value: "label:INBOX"},
		"acme", testPollInterval)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return mailbox.fetchCount() >= 2
	}, time.Second, time.Millisecond)

	assert.Empty(t, ingest.ingested())
}

func TestMonitor_CycleFailureKeepsPolling(t *testing.T) {
	mailbox := &mockMailbox{err: errors.New("mailbox unreachable")}
	m, _ := newTestMonitor(mailbox)
	defer m.StopAll()

	_, err := m.Start(context.Background(), domain.MailSource{Mode: domain.MailSourceThread, Value: "t1"},
		"acme", testPollInterval)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return mailbox.fetchCount() >= 3
	}, time.Second, time.Millisecond)

	assert.Len(t, m.Status(), 1, "a failing poller stays registered")
}

func TestMonitorStop(t *testing.T) {
	m, _ := newTestMonitor(&mockMailbox{})
	source := domain.MailSource{Mode: domain.MailSourceThread, Value: "t1"}

	_, err := m.Start(context.Background(), source, "acme", time.Minute)
	require.NoError(t, err)

	ack := m.Stop(source, "acme")
	assert.True(t, ack.OK)
	assert.Empty(t, m.Status())

	ack = m.Stop(source, "acme")
	assert.False(t, ack.OK)
	assert.Contains(t, ack.Message, "not monitoring")
}

func TestMonitorStopAll(t *testing.T) {
	m, _ := newTestMonitor(&mockMailbox{})

	_, err := m.Start(context.Background(), domain.MailSource{Mode: domain.MailSourceThread, Value: "t1"},
		"acme", time.Minute)
	require.NoError(t, err)
	_, err = m.Start(context.Background(), domain.MailSource{Mode: domain.MailSourceQuery, Value: "label:INBOX"},
		"globex", time.Minute)
	require.NoError(t, err)

	m.StopAll()

	assert.Empty(t, m.Status())
}

func TestMonitor_ContextCancelStopsPoller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m, _ := newTestMonitor(&mockMailbox{})

	_, err := m.Start(ctx, domain.MailSource{Mode: domain.MailSourceThread, Value: "t1"}, "acme", testPollInterval)
	require.NoError(t, err)

	cancel()
	// The loop exits at the next cycle boundary; StopAll must not hang.
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not exit after context cancellation")
	}
}

func TestMonitorStatus_DefaultInterval(t *testing.T) {
	m, _ := newTestMonitor(&mockMailbox{})
	defer m.StopAll()

	_, err := m.Start(context.Background(), domain.MailSource{Mode: domain.MailSourceThread, Value: "t1"}, "acme", 0)
	require.NoError(t, err)

	states := m.Status()
	require.Len(t, states, 1)
	assert.Equal(t, domain.DefaultPollInterval, states[0].Interval)
	assert.Equal(t, "thread:t1", states[0].Key.Source)
}
