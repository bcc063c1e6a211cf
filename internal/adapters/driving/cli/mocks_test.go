package cli

import (
	"context"
	"time"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	ids   []string
	stats domain.TenantStats
	err   error

	lastTenant   domain.TenantID
	lastSourceID string
	lastText     string
	deleted      []domain.TenantID
}

func (m *mockIngestService) Ingest(_ context.Context, tenant domain.TenantID, _ domain.SourceKind,
	sourceID, text string, _ map[string]string) ([]string, error) {
	m.lastTenant = tenant
	m.lastSourceID = sourceID
	m.lastText = text
	return m.ids, m.err
}

func (m *mockIngestService) Reingest(_ context.Context, tenant domain.TenantID, _ domain.SourceKind,
	sourceID, text string, _ map[string]string) ([]string, error) {
	m.lastTenant = tenant
	m.lastSourceID = sourceID
	m.lastText = text
	return m.ids, m.err
}

func (m *mockIngestService) Stats(_ context.Context, _ domain.TenantID) (domain.TenantStats, error) {
	return m.stats, m.err
}

func (m *mockIngestService) DeleteSource(_ context.Context, _ domain.TenantID, _ domain.SourceKind, _ string) error {
	return m.err
}

func (m *mockIngestService) DeleteTenant(_ context.Context, tenant domain.TenantID) error {
	m.deleted = append(m.deleted, tenant)
	return m.err
}

// mockRetrieveService is a mock implementation of driving.RetrieveService.
type mockRetrieveService struct {
	hits []domain.RetrievedChunk
	err  error

	lastTenant domain.TenantID
	lastQuery  string
	lastOpts   domain.RetrievalOptions
}

func (m *mockRetrieveService) Retrieve(_ context.Context, tenant domain.TenantID, query string,
	opts domain.RetrievalOptions) ([]domain.RetrievedChunk, error) {
	m.lastTenant = tenant
	m.lastQuery = query
	m.lastOpts = opts
	return m.hits, m.err
}

// mockAssistantService is a mock implementation of driving.AssistantService.
type mockAssistantService struct {
	result  domain.AnswerResult
	summary domain.SummaryResult

	lastQuestion string
	lastHistory  []domain.ConversationTurn
	lastText     string
	lastFilename string
	lastMessages []domain.MailMessage
}

func (m *mockAssistantService) Answer(_ context.Context, _ domain.TenantID, question string,
	history []domain.ConversationTurn) domain.AnswerResult {
	m.lastQuestion = question
	m.lastHistory = history
	return m.result
}

func (m *mockAssistantService) SummarizeDocument(_ context.Context, text, filename string) domain.SummaryResult {
	m.lastText = text
	m.lastFilename = filename
	return m.summary
}

func (m *mockAssistantService) SummarizeThread(_ context.Context, messages []domain.MailMessage) domain.SummaryResult {
	m.lastMessages = messages
	return m.summary
}

// mockMonitorService is a mock implementation of driving.MonitorService.
type mockMonitorService struct {
	startAck domain.MonitorAck
	stopAck  domain.MonitorAck
	states   []domain.MonitorState
	err      error

	lastSource domain.MailSource
	lastTenant domain.TenantID
	stoppedAll bool
}

func (m *mockMonitorService) Start(_ context.Context, source domain.MailSource, tenant domain.TenantID,
	_ time.Duration) (domain.MonitorAck, error) {
	m.lastSource = source
	m.lastTenant = tenant
	return m.startAck, m.err
}

func (m *mockMonitorService) Stop(source domain.MailSource, tenant domain.TenantID) domain.MonitorAck {
	m.lastSource = source
	m.lastTenant = tenant
	return m.stopAck
}

func (m *mockMonitorService) Status() []domain.MonitorState {
	return m.states
}

func (m *mockMonitorService) StopAll() {
	m.stoppedAll = true
}

// mockTenantStore is a mock implementation of driven.TenantStore.
type mockTenantStore struct {
	tenants []domain.Tenant
	err     error

	created []domain.Tenant
}

func (m *mockTenantStore) Create(_ context.Context, tenant domain.Tenant) error {
	m.created = append(m.created, tenant)
	return m.err
}

func (m *mockTenantStore) Exists(_ context.Context, _ domain.TenantID) (bool, error) {
	return true, m.err
}

func (m *mockTenantStore) List(_ context.Context) ([]domain.Tenant, error) {
	return m.tenants, m.err
}

func (m *mockTenantStore) Delete(_ context.Context, _ domain.TenantID) error {
	return m.err
}

// mockTurnStore is a mock implementation of driven.TurnStore.
type mockTurnStore struct {
	turns    []domain.ConversationTurn
	appended []domain.ConversationTurn
	err      error
}

func (m *mockTurnStore) Append(_ context.Context, turn domain.ConversationTurn) error {
	m.appended = append(m.appended, turn)
	return m.err
}

func (m *mockTurnStore) Recent(_ context.Context, _ domain.TenantID, _ int) ([]domain.ConversationTurn, error) {
	return m.turns, m.err
}

func (m *mockTurnStore) DeleteTenant(_ context.Context, _ domain.TenantID) error {
	return m.err
}

// mockMailbox is a mock implementation of driven.Mailbox.
type mockMailbox struct {
	messages []domain.MailMessage
	err      error
}

func (m *mockMailbox) FetchThread(_ context.Context, _ string) ([]domain.MailMessage, error) {
	return m.messages, m.err
}

func (m *mockMailbox) Search(_ context.Context, _ string, _ int64) ([]domain.MailMessage, error) {
	return m.messages, m.err
}

func (m *mockMailbox) Close() error {
	return nil
}

// setupTestServices installs mock services and returns a cleanup that
// restores whatever was injected before.
func setupTestServices() func() {
	old := Services{
		Ingest:    ingestService,
		Retrieve:  retrieveService,
		Assistant: assistantService,
		Monitor:   monitorService,
		Tenants:   tenantStore,
		Turns:     turnStore,
		Mailbox:   mailboxService,
	}

	SetServices(Services{
		Ingest: &mockIngestService{ids: []string{"chunk-1", "chunk-2"}},
		Retrieve: &mockRetrieveService{
			hits: []domain.RetrievedChunk{
				{
					Chunk: domain.Chunk{
						SourceKind: domain.SourceDocument,
						SourceID:   "lease.pdf",
						Text:       "The lease term is five years.",
						Metadata:   map[string]string{"filename": "lease.pdf"},
					},
					Score: 0.9,
				},
			},
		},
		Assistant: &mockAssistantService{
			result: domain.AnswerResult{
				Success: true,
				Answer:  "The lease term is five years.",
				Sources: []domain.SourceRef{
					{Kind: domain.SourceDocument, Title: "lease.pdf", Score: 0.9},
				},
			},
			summary: domain.SummaryResult{Success: true, Summary: "A five year lease."},
		},
		Monitor: &mockMonitorService{
			startAck: domain.MonitorAck{OK: true, Message: "Monitoring thread:t1 for tenant acme."},
			stopAck:  domain.MonitorAck{OK: true, Message: "Stopped monitoring thread:t1 for tenant acme."},
		},
		Tenants: &mockTenantStore{},
		Turns:   &mockTurnStore{},
		Mailbox: &mockMailbox{},
	})

	return func() {
		SetServices(old)
	}
}
