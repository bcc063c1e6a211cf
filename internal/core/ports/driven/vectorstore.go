package driven

import (
	"context"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

// VectorStore persists chunks with their embeddings, partitioned by tenant.
//
// Every operation takes a domain.TenantID and only ever touches that
// tenant's partition. Implementations derive the partition identity from
// the tenant id itself (e.g. one database file per tenant) so cross-tenant
// access cannot be expressed by omitting a filter.
type VectorStore interface {
	// Upsert writes a batch of chunk drafts with their embeddings and
	// returns the store-generated chunk ids, in draft order. Ids are
	// globally unique across tenants. The whole batch becomes visible
	// atomically; readers never observe a half-written source.
	Upsert(ctx context.Context, tenant domain.TenantID, kind domain.SourceKind, sourceID string,
		drafts []domain.ChunkDraft, embeddings [][]float32, meta map[string]string) ([]string, error)

	// Query returns up to k chunks ranked by cosine similarity to the
	// query vector, most similar first. Ties keep insertion order.
	// An unknown tenant yields an empty result, not an error.
	Query(ctx context.Context, tenant domain.TenantID, vector []float32, k int,
		filter domain.SourceKind) ([]domain.RetrievedChunk, error)

	// DeleteBySource removes all chunks of one ingested item.
	// Deleting a source with no chunks is a no-op, not an error.
	DeleteBySource(ctx context.Context, tenant domain.TenantID, kind domain.SourceKind, sourceID string) error

	// DeleteTenant drops the tenant's entire partition. Idempotent:
	// deleting an absent tenant succeeds silently.
	DeleteTenant(ctx context.Context, tenant domain.TenantID) error

	// Stats reports what the tenant's partition currently holds.
	Stats(ctx context.Context, tenant domain.TenantID) (domain.TenantStats, error)

	// Close releases resources.
	Close() error
}
