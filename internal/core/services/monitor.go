package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/casefile-labs/casefile/internal/core/domain"
	"github.com/casefile-labs/casefile/internal/core/ports/driven"
	"github.com/casefile-labs/casefile/internal/core/ports/driving"
	"github.com/casefile-labs/casefile/internal/logger"
)

// Ensure Monitor implements the interface.
var _ driving.MonitorService = (*Monitor)(nil)

// searchPageSize caps how many messages one query-mode poll fetches.
const searchPageSize = 100

// initialLookback is how far back the first poll cycle looks. Messages
// older than this at start time are never picked up by the monitor;
// they can still be ingested interactively.
const initialLookback = time.Hour

type monitorEntry struct {
	state  domain.MonitorState
	stopCh chan struct{}
}

// Monitor runs one background poller per (source, tenant) pair. Each
// poller fetches messages from the mailbox, skips everything already in
// the ledger or not strictly newer than the last check, and feeds the
// rest through the ingest pipeline. Cycle failures are logged and the
// poller keeps going at its fixed interval.
//
// The registry is in-memory only; restarts drop all active monitors.
type Monitor struct {
	mailbox  driven.Mailbox
	ledger   driven.ItemLedger
	ingestor driving.IngestService

	mu      sync.Mutex
	entries map[domain.MonitorKey]*monitorEntry
	wg      sync.WaitGroup
}

// NewMonitor creates a monitor over the given mailbox and ingest pipeline.
func NewMonitor(mailbox driven.Mailbox, ledger driven.ItemLedger, ingestor driving.IngestService) *Monitor {
	return &Monitor{
		mailbox:  mailbox,
		ledger:   ledger,
		ingestor: ingestor,
		entries:  make(map[domain.MonitorKey]*monitorEntry),
	}
}

// Start spawns a poller for the pair. A non-positive interval falls back
// to the default. Starting an already-monitored pair returns a negative
// ack and leaves the running poller untouched.
func (m *Monitor) Start(
	ctx context.Context,
	source domain.MailSource,
	tenant domain.TenantID,
	interval time.Duration,
) (domain.MonitorAck, error) {
	if err := tenant.Validate(); err != nil {
		return domain.MonitorAck{}, err
	}
	if source.Value == "" {
		return domain.MonitorAck{}, fmt.Errorf("%w: empty mail source", domain.ErrInvalidInput)
	}
	if interval <= 0 {
		interval = domain.DefaultPollInterval
	}

	key := domain.MonitorKey{Source: source.String(), TenantID: tenant}

	m.mu.Lock()
	if _, active := m.entries[key]; active {
		m.mu.Unlock()
		return domain.MonitorAck{
			OK:      false,
			Message: fmt.Sprintf("already monitoring %s for tenant %s", source, tenant),
		}, nil
	}

	entry := &monitorEntry{
		state: domain.MonitorState{
			Key:       key,
			Interval:  interval,
			StartedAt: time.Now().UTC(),
		},
		stopCh: make(chan struct{}),
	}
	m.entries[key] = entry
	m.mu.Unlock()

	m.wg.Add(1)
	go m.poll(ctx, source, tenant, entry)

	logger.Info("monitoring %s for tenant %s every %s", source, tenant, interval)
	return domain.MonitorAck{
		OK:      true,
		Message: fmt.Sprintf("monitoring %s for tenant %s", source, tenant),
	}, nil
}

// Stop signals the poller for the pair to exit. It does not wait for the
// in-flight cycle to finish.
func (m *Monitor) Stop(source domain.MailSource, tenant domain.TenantID) domain.MonitorAck {
	key := domain.MonitorKey{Source: source.String(), TenantID: tenant}

	m.mu.Lock()
	entry, active := m.entries[key]
	if active {
		delete(m.entries, key)
	}
	m.mu.Unlock()

	if !active {
		return domain.MonitorAck{
			OK:      false,
			Message: fmt.Sprintf("not monitoring %s for tenant %s", source, tenant),
		}
	}

	close(entry.stopCh)
	logger.Info("stopped monitoring %s for tenant %s", source, tenant)
	return domain.MonitorAck{
		OK:      true,
		Message: fmt.Sprintf("stopped monitoring %s for tenant %s", source, tenant),
	}
}

// Status returns a snapshot of all active pollers.
func (m *Monitor) Status() []domain.MonitorState {
	m.mu.Lock()
	defer m.mu.Unlock()

	states := make([]domain.MonitorState, 0, len(m.entries))
	for _, entry := range m.entries {
		states = append(states, entry.state)
	}
	return states
}

// StopAll stops every poller and blocks until their loops have exited.
func (m *Monitor) StopAll() {
	m.mu.Lock()
	for key, entry := range m.entries {
		close(entry.stopCh)
		delete(m.entries, key)
	}
	m.mu.Unlock()

	m.wg.Wait()
}

// poll is the per-pair loop. The first cycle runs immediately with a
// one-hour lookback; later cycles only consider messages newer than the
// previous check.
func (m *Monitor) poll(ctx context.Context, source domain.MailSource, tenant domain.TenantID, entry *monitorEntry) {
	defer m.wg.Done()

	lastCheck := time.Now().UTC().Add(-initialLookback)

	for {
		cycleStart := time.Now().UTC()

		found, err := m.cycle(ctx, source, tenant, lastCheck)
		if err != nil {
			logger.Warn("poll cycle for %s (tenant %s) failed: %v", source, tenant, err)
		} else {
			lastCheck = cycleStart
		}

		m.mu.Lock()
		if current, active := m.entries[entry.state.Key]; active && current == entry {
			entry.state.LastCheck = cycleStart
			entry.state.MessagesFound += found
		}
		m.mu.Unlock()

		select {
		case <-entry.stopCh:
			return
		case <-ctx.Done():
			return
		case <-time.After(entry.state.Interval):
		}
	}
}

// cycle fetches messages once and ingests the new ones. It returns how
// many messages were ingested this cycle.
func (m *Monitor) cycle(ctx context.Context, source domain.MailSource, tenant domain.TenantID, since time.Time) (int, error) {
	var messages []domain.MailMessage
	var err error

	switch source.Mode {
	case domain.MailSourceQuery:
		messages, err = m.mailbox.Search(ctx, source.Value, searchPageSize)
	default:
		messages, err = m.mailbox.FetchThread(ctx, source.Value)
	}
	if err != nil {
		return 0, fmt.Errorf("fetching %s: %w", source, err)
	}

	found := 0
	for _, msg := range messages {
		if !msg.Date.After(since) {
			continue
		}

		known, err := m.ledger.IsKnown(ctx, tenant, domain.SourceEmail, msg.ExternalID)
		if err != nil {
			logger.Warn("dedup check for message %s: %v", msg.ExternalID, err)
			continue
		}
		if known {
			continue
		}

		if _, err := m.ingestor.Ingest(ctx, tenant, domain.SourceEmail, msg.ExternalID, msg.Body, mailMetadata(msg)); err != nil {
			logger.Warn("ingesting message %s for tenant %s: %v", msg.ExternalID, tenant, err)
			continue
		}

		logger.Info("new message %q from %s ingested for tenant %s", msg.Subject, msg.Sender, tenant)
		found++
	}

	logger.Debug("poll cycle for %s (tenant %s): %d fetched, %d new", source, tenant, len(messages), found)
	return found, nil
}

// mailMetadata builds the chunk metadata for an ingested message.
func mailMetadata(msg domain.MailMessage) map[string]string {
	meta := map[string]string{
		"subject": msg.Subject,
		"sender":  msg.Sender,
	}
	if msg.ThreadID != "" {
		meta["thread_id"] = msg.ThreadID
	}
	if !msg.Date.IsZero() {
		meta["date"] = msg.Date.UTC().Format(time.RFC3339)
	}
	return meta
}
