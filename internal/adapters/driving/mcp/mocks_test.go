package mcp

import (
	"context"
	"time"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

// mockRetrieveService is a mock implementation of driving.RetrieveService.
type mockRetrieveService struct {
	hits []domain.RetrievedChunk
	err  error

	lastTenant domain.TenantID
	lastQuery  string
	lastOpts   domain.RetrievalOptions
}

func (m *mockRetrieveService) Retrieve(
	_ context.Context,
	tenant domain.TenantID,
	query string,
	opts domain.RetrievalOptions,
) ([]domain.RetrievedChunk, error) {
	m.lastTenant = tenant
	m.lastQuery = query
	m.lastOpts = opts
	return m.hits, m.err
}

// mockAssistantService is a mock implementation of driving.AssistantService.
type mockAssistantService struct {
	result  domain.AnswerResult
	summary domain.SummaryResult

	lastTenant   domain.TenantID
	lastQuestion string
	lastHistory  []domain.ConversationTurn
}

func (m *mockAssistantService) Answer(
	_ context.Context,
	tenant domain.TenantID,
	question string,
	history []domain.ConversationTurn,
) domain.AnswerResult {
	m.lastTenant = tenant
	m.lastQuestion = question
	m.lastHistory = history
	return m.result
}

func (m *mockAssistantService) SummarizeDocument(_ context.Context, _, _ string) domain.SummaryResult {
	return m.summary
}

func (m *mockAssistantService) SummarizeThread(_ context.Context, _ []domain.MailMessage) domain.SummaryResult {
	return m.summary
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	ids   []string
	stats domain.TenantStats
	err   error
}

func (m *mockIngestService) Ingest(_ context.Context, _ domain.TenantID, _ domain.SourceKind,
	_, _ string, _ map[string]string) ([]string, error) {
	return m.ids, m.err
}

func (m *mockIngestService) Reingest(_ context.Context, _ domain.TenantID, _ domain.SourceKind,
	_, _ string, _ map[string]string) ([]string, error) {
	return m.ids, m.err
}

func (m *mockIngestService) Stats(_ context.Context, _ domain.TenantID) (domain.TenantStats, error) {
	return m.stats, m.err
}

func (m *mockIngestService) DeleteSource(_ context.Context, _ domain.TenantID, _ domain.SourceKind, _ string) error {
	return m.err
}

func (m *mockIngestService) DeleteTenant(_ context.Context, _ domain.TenantID) error {
	return m.err
}

// mockMonitorService is a mock implementation of driving.MonitorService.
type mockMonitorService struct {
	states []domain.MonitorState
	ack    domain.MonitorAck
	err    error
}

func (m *mockMonitorService) Start(_ context.Context, _ domain.MailSource, _ domain.TenantID,
	_ time.Duration) (domain.MonitorAck, error) {
	return m.ack, m.err
}

func (m *mockMonitorService) Stop(_ domain.MailSource, _ domain.TenantID) domain.MonitorAck {
	return m.ack
}

func (m *mockMonitorService) Status() []domain.MonitorState {
	return m.states
}

func (m *mockMonitorService) StopAll() {}

// mockTenantStore is a mock implementation of driven.TenantStore.
type mockTenantStore struct {
	tenants []domain.Tenant
	err     error
}

func (m *mockTenantStore) Create(_ context.Context, _ domain.Tenant) error {
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
