// Package memory provides in-memory driven adapters for tests and
// ephemeral runs. Partitions live in per-tenant maps; nothing survives
// the process.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/casefile-labs/casefile/internal/core/domain"
	"github.com/casefile-labs/casefile/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore with
// the same partitioning contract as the SQLite store: one partition per
// tenant, keyed by tenant id.
type VectorStore struct {
	mu         sync.RWMutex
	partitions map[domain.TenantID][]domain.Chunk
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		partitions: make(map[domain.TenantID][]domain.Chunk),
	}
}

// Upsert appends the batch to the tenant's partition under the lock, so
// the whole batch becomes visible atomically.
func (s *VectorStore) Upsert(_ context.Context, tenant domain.TenantID, kind domain.SourceKind, sourceID string,
	drafts []domain.ChunkDraft, embeddings [][]float32, meta map[string]string) ([]string, error) {
	if err := tenant.Validate(); err != nil {
		return nil, err
	}
	if len(drafts) != len(embeddings) {
		return nil, fmt.Errorf("%w: %d drafts but %d embeddings", domain.ErrInvalidInput, len(drafts), len(embeddings))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(drafts))
	for i, draft := range drafts {
		id := uuid.NewString()
		s.partitions[tenant] = append(s.partitions[tenant], domain.Chunk{
			ID:         id,
			TenantID:   tenant,
			SourceKind: kind,
			SourceID:   sourceID,
			Position:   draft.Position,
			Text:       draft.Text,
			WordCount:  draft.WordCount,
			CharCount:  draft.CharCount,
			Metadata:   copyMeta(meta),
			Embedding:  append([]float32{}, embeddings[i]...),
		})
		ids[i] = id
	}
	return ids, nil
}

// Query ranks the tenant's chunks by cosine similarity, ties keeping
// insertion order.
func (s *VectorStore) Query(_ context.Context, tenant domain.TenantID, vector []float32, k int,
	filter domain.SourceKind) ([]domain.RetrievedChunk, error) {
	if err := tenant.Validate(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return []domain.RetrievedChunk{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]domain.RetrievedChunk, 0, len(s.partitions[tenant]))
	for _, chunk := range s.partitions[tenant] {
		if filter != "" && chunk.SourceKind != filter {
			continue
		}
		hits = append(hits, domain.RetrievedChunk{
			Chunk: chunk,
			Score: cosineSimilarity(vector, chunk.Embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// DeleteBySource removes all chunks of one ingested item.
func (s *VectorStore) DeleteBySource(_ context.Context, tenant domain.TenantID, kind domain.SourceKind, sourceID string) error {
	if err := tenant.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.partitions[tenant][:0]
	for _, chunk := range s.partitions[tenant] {
		if chunk.SourceKind == kind && chunk.SourceID == sourceID {
			continue
		}
		kept = append(kept, chunk)
	}
	s.partitions[tenant] = kept
	return nil
}

// DeleteTenant drops the tenant's partition. Idempotent.
func (s *VectorStore) DeleteTenant(_ context.Context, tenant domain.TenantID) error {
	if err := tenant.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.partitions, tenant)
	return nil
}

// Stats reports what the tenant's partition currently holds.
func (s *VectorStore) Stats(_ context.Context, tenant domain.TenantID) (domain.TenantStats, error) {
	if err := tenant.Validate(); err != nil {
		return domain.TenantStats{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats domain.TenantStats
	docs := make(map[string]struct{})
	emails := make(map[string]struct{})
	for _, chunk := range s.partitions[tenant] {
		stats.TotalChunks++
		stats.TotalWords += chunk.WordCount
		stats.TotalChars += chunk.CharCount
		switch chunk.SourceKind {
		case domain.SourceDocument:
			stats.DocumentChunks++
			docs[chunk.SourceID] = struct{}{}
		case domain.SourceEmail:
			stats.EmailChunks++
			emails[chunk.SourceID] = struct{}{}
		}
	}
	stats.Documents = len(docs)
	stats.Emails = len(emails)
	return stats, nil
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func copyMeta(meta map[string]string) map[string]string {
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
