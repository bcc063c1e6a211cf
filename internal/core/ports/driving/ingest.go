package driving

import (
	"context"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

// IngestService feeds raw text through the chunk/embed/store pipeline.
type IngestService interface {
	// Ingest chunks and embeds text and writes it to the tenant's
	// partition. Returns the generated chunk ids. Empty text returns an
	// empty slice, not an error.
	Ingest(ctx context.Context, tenant domain.TenantID, kind domain.SourceKind,
		sourceID, text string, meta map[string]string) ([]string, error)

	// Reingest deletes the item's previous chunks and ingests the text
	// again under the same source id, leaving exactly one generation of
	// chunks.
	Reingest(ctx context.Context, tenant domain.TenantID, kind domain.SourceKind,
		sourceID, text string, meta map[string]string) ([]string, error)

	// Stats reports the contents of a tenant's partition.
	Stats(ctx context.Context, tenant domain.TenantID) (domain.TenantStats, error)

	// DeleteSource removes one ingested item's chunks and its ledger
	// record. No-op if nothing matches.
	DeleteSource(ctx context.Context, tenant domain.TenantID, kind domain.SourceKind, sourceID string) error

	// DeleteTenant drops the tenant's partition, ledger records and
	// registration. Idempotent.
	DeleteTenant(ctx context.Context, tenant domain.TenantID) error
}
