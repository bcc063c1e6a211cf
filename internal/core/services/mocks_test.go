package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/casefile-labs/casefile/internal/core/domain"
	"github.com/casefile-labs/casefile/internal/core/ports/driven"
)

// --- Shared mock implementations for service testing ---

// mockEmbedding implements driven.EmbeddingService.
type mockEmbedding struct {
	mu       sync.Mutex
	dims     int
	err      error
	vectors  [][]float32 // returned verbatim when set
	batches  [][]string  // every batch received
	embedVal float32     // component value when vectors is unset
}

func newMockEmbedding(dims int) *mockEmbedding {
	return &mockEmbedding{dims: dims, embedVal: 1}
}

func (m *mockEmbedding) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, append([]string{}, texts...))
	if m.err != nil {
		return nil, m.err
	}
	if m.vectors != nil {
		return m.vectors, nil
	}
	out := make([][]float32, len(texts))
	for i := range out {
		v := make([]float32, m.dims)
		for j := range v {
			v[j] = m.embedVal
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedding) Dimensions() int                 { return m.dims }
func (m *mockEmbedding) ModelName() string               { return "mock-embedding" }
func (m *mockEmbedding) Ping(_ context.Context) error    { return nil }
func (m *mockEmbedding) Close() error                    { return nil }

func (m *mockEmbedding) receivedBatches() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batches
}

// mockLLM implements driven.LLMService.
type mockLLM struct {
	mu       sync.Mutex
	reply    string
	tokens   int
	err      error
	messages [][]driven.ChatMessage
	opts     []driven.ChatOptions
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (driven.ChatResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, append([]driven.ChatMessage{}, messages...))
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return driven.ChatResult{}, m.err
	}
	return driven.ChatResult{Content: m.reply, TokensUsed: m.tokens}, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) lastMessages() []driven.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return nil
	}
	return m.messages[len(m.messages)-1]
}

func (m *mockLLM) lastOpts() driven.ChatOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.opts) == 0 {
		return driven.ChatOptions{}
	}
	return m.opts[len(m.opts)-1]
}

// mockVectorStore implements driven.VectorStore with recorded calls and
// canned query results.
type mockVectorStore struct {
	mu         sync.Mutex
	nextID     int
	upserts    []upsertCall
	deletes    []deleteCall
	dropped    []domain.TenantID
	queryHits  []domain.RetrievedChunk
	queryErr   error
	upsertErr  error
	lastQueryK int
	stats      domain.TenantStats
}

type upsertCall struct {
	tenant   domain.TenantID
	kind     domain.SourceKind
	sourceID string
	drafts   []domain.ChunkDraft
	vectors  [][]float32
	meta     map[string]string
}

type deleteCall struct {
	tenant   domain.TenantID
	kind     domain.SourceKind
	sourceID string
}

func (m *mockVectorStore) Upsert(_ context.Context, tenant domain.TenantID, kind domain.SourceKind, sourceID string,
	drafts []domain.ChunkDraft, embeddings [][]float32, meta map[string]string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	m.upserts = append(m.upserts, upsertCall{tenant, kind, sourceID, drafts, embeddings, meta})
	ids := make([]string, len(drafts))
	for i := range ids {
		m.nextID++
		ids[i] = fmt.Sprintf("chunk-%d", m.nextID)
	}
	return ids, nil
}

func (m *mockVectorStore) Query(_ context.Context, _ domain.TenantID, _ []float32, k int,
	_ domain.SourceKind) ([]domain.RetrievedChunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQueryK = k
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k < len(m.queryHits) {
		return m.queryHits[:k], nil
	}
	return m.queryHits, nil
}

func (m *mockVectorStore) DeleteBySource(_ context.Context, tenant domain.TenantID, kind domain.SourceKind, sourceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, deleteCall{tenant, kind, sourceID})
	return nil
}

func (m *mockVectorStore) DeleteTenant(_ context.Context, tenant domain.TenantID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped = append(m.dropped, tenant)
	return nil
}

func (m *mockVectorStore) Stats(_ context.Context, _ domain.TenantID) (domain.TenantStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats, nil
}

func (m *mockVectorStore) Close() error { return nil }

// mockTenantStore implements driven.TenantStore.
type mockTenantStore struct {
	mu      sync.Mutex
	tenants map[domain.TenantID]domain.Tenant
	deleted []domain.TenantID
}

func newMockTenantStore(ids ...domain.TenantID) *mockTenantStore {
	s := &mockTenantStore{tenants: make(map[domain.TenantID]domain.Tenant)}
	for _, id := range ids {
		s.tenants[id] = domain.Tenant{ID: id}
	}
	return s
}

func (m *mockTenantStore) Create(_ context.Context, tenant domain.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenants[tenant.ID] = tenant
	return nil
}

func (m *mockTenantStore) Exists(_ context.Context, id domain.TenantID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tenants[id]
	return ok, nil
}

func (m *mockTenantStore) List(_ context.Context) ([]domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Tenant, 0, len(m.tenants))
	for _, t := range m.tenants {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTenantStore) Delete(_ context.Context, id domain.TenantID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tenants, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// mockLedger implements driven.ItemLedger.
type mockLedger struct {
	mu        sync.Mutex
	known     map[string]bool
	forgotten []string
	cleared   []domain.TenantID
}

func newMockLedger() *mockLedger {
	return &mockLedger{known: make(map[string]bool)}
}

func ledgerKey(tenant domain.TenantID, kind domain.SourceKind, id string) string {
	return fmt.Sprintf("%s/%s/%s", tenant, kind, id)
}

func (m *mockLedger) IsKnown(_ context.Context, tenant domain.TenantID, kind domain.SourceKind, externalID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.known[ledgerKey(tenant, kind, externalID)], nil
}

func (m *mockLedger) Record(_ context.Context, tenant domain.TenantID, kind domain.SourceKind, externalID string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.known[ledgerKey(tenant, kind, externalID)] = true
	return nil
}

func (m *mockLedger) ForgetSource(_ context.Context, tenant domain.TenantID, kind domain.SourceKind, externalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := ledgerKey(tenant, kind, externalID)
	delete(m.known, key)
	m.forgotten = append(m.forgotten, key)
	return nil
}

func (m *mockLedger) ForgetTenant(_ context.Context, tenant domain.TenantID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := string(tenant) + "/"
	for key := range m.known {
		if strings.HasPrefix(key, prefix) {
			delete(m.known, key)
		}
	}
	m.cleared = append(m.cleared, tenant)
	return nil
}

// mockTurnStore implements driven.TurnStore.
type mockTurnStore struct {
	mu      sync.Mutex
	turns   map[domain.TenantID][]domain.ConversationTurn
	cleared []domain.TenantID
}

func newMockTurnStore() *mockTurnStore {
	return &mockTurnStore{turns: make(map[domain.TenantID][]domain.ConversationTurn)}
}

func (m *mockTurnStore) Append(_ context.Context, turn domain.ConversationTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns[turn.TenantID] = append(m.turns[turn.TenantID], turn)
	return nil
}

func (m *mockTurnStore) Recent(_ context.Context, tenant domain.TenantID, n int) ([]domain.ConversationTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	turns := m.turns[tenant]
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	return append([]domain.ConversationTurn{}, turns...), nil
}

func (m *mockTurnStore) DeleteTenant(_ context.Context, tenant domain.TenantID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.turns, tenant)
	m.cleared = append(m.cleared, tenant)
	return nil
}

// mockMailbox implements driven.Mailbox, returning the same messages on
// every fetch.
type mockMailbox struct {
	mu       sync.Mutex
	messages []domain.MailMessage
	err      error
	fetches  int
}

func (m *mockMailbox) FetchThread(_ context.Context, _ string) ([]domain.MailMessage, error) {
	return m.fetch()
}

func (m *mockMailbox) Search(_ context.Context, _ string, _ int64) ([]domain.MailMessage, error) {
	return m.fetch()
}

func (m *mockMailbox) fetch() ([]domain.MailMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.MailMessage{}, m.messages...), nil
}

func (m *mockMailbox) fetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

func (m *mockMailbox) Close() error { return nil }

// mockRetriever implements driving.RetrieveService with canned results.
type mockRetriever struct {
	hits []domain.RetrievedChunk
	err  error
	opts domain.RetrievalOptions
}

func (m *mockRetriever) Retrieve(_ context.Context, _ domain.TenantID, _ string,
	opts domain.RetrievalOptions) ([]domain.RetrievedChunk, error) {
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}

// mockIngest implements driving.IngestService. Ingest records the item in
// the attached ledger the way the real pipeline does.
type mockIngest struct {
	mu      sync.Mutex
	ledger  driven.ItemLedger
	ingests []string
	err     error
}

func (m *mockIngest) Ingest(ctx context.Context, tenant domain.TenantID, kind domain.SourceKind,
	sourceID, _ string, _ map[string]string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.ingests = append(m.ingests, sourceID)
	if m.ledger != nil {
		if err := m.ledger.Record(ctx, tenant, kind, sourceID, time.Now()); err != nil {
			return nil, err
		}
	}
	return []string{"chunk-1"}, nil
}

func (m *mockIngest) Reingest(ctx context.Context, tenant domain.TenantID, kind domain.SourceKind,
	sourceID, text string, meta map[string]string) ([]string, error) {
	return m.Ingest(ctx, tenant, kind, sourceID, text, meta)
}

func (m *mockIngest) Stats(_ context.Context, _ domain.TenantID) (domain.TenantStats, error) {
	return domain.TenantStats{}, nil
}

func (m *mockIngest) DeleteSource(_ context.Context, _ domain.TenantID, _ domain.SourceKind, _ string) error {
	return nil
}

func (m *mockIngest) DeleteTenant(_ context.Context, _ domain.TenantID) error {
	return nil
}

func (m *mockIngest) ingested() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.ingests...)
}
