package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/casefile-labs/casefile/internal/core/domain"
	"github.com/casefile-labs/casefile/internal/core/ports/driven"
	"github.com/casefile-labs/casefile/internal/core/ports/driving"
	"github.com/casefile-labs/casefile/internal/logger"
)

// Ensure Ingestor implements the interface.
var _ driving.IngestService = (*Ingestor)(nil)

// Ingestor feeds raw text through the chunk/embed/store pipeline.
// It is the single write path into a tenant's partition: interactive
// uploads and background pollers both go through it, so an ingested item
// is always one atomic chunk batch plus one ledger record.
type Ingestor struct {
	chunker  *Chunker
	embedder *Embedder
	vectors  driven.VectorStore
	tenants  driven.TenantStore
	ledger   driven.ItemLedger
	turns    driven.TurnStore
}

// NewIngestor creates an ingestor. tenants, ledger and turns are optional;
// when nil, tenant existence checks, dedup records and turn cleanup are
// skipped respectively.
func NewIngestor(
	chunker *Chunker,
	embedder *Embedder,
	vectors driven.VectorStore,
	tenants driven.TenantStore,
	ledger driven.ItemLedger,
) *Ingestor {
	return &Ingestor{
		chunker:  chunker,
		embedder: embedder,
		vectors:  vectors,
		tenants:  tenants,
		ledger:   ledger,
	}
}

// SetTurnStore wires conversation turn cleanup into DeleteTenant.
func (g *Ingestor) SetTurnStore(turns driven.TurnStore) {
	g.turns = turns
}

// Ingest chunks and embeds text and writes it to the tenant's partition.
// Empty text yields an empty id list, not an error. An unknown tenant is
// an error on this write path.
func (g *Ingestor) Ingest(
	ctx context.Context,
	tenant domain.TenantID,
	kind domain.SourceKind,
	sourceID, text string,
	meta map[string]string,
) ([]string, error) {
	if err := g.checkWrite(ctx, tenant, kind, sourceID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		logger.Debug("ingest %s/%s for tenant %s: empty text, nothing to do", kind, sourceID, tenant)
		return []string{}, nil
	}

	drafts := g.chunker.ChunkFor(kind, text)
	if len(drafts) == 0 {
		return []string{}, nil
	}

	texts := make([]string, len(drafts))
	for i, d := range drafts {
		texts[i] = d.Text
	}
	embeddings := g.embedder.EmbedBatch(ctx, texts)

	ids, err := g.vectors.Upsert(ctx, tenant, kind, sourceID, drafts, embeddings, meta)
	if err != nil {
		return nil, fmt.Errorf("upserting %d chunks for %s/%s: %w", len(drafts), kind, sourceID, err)
	}

	if g.ledger != nil {
		if err := g.ledger.Record(ctx, tenant, kind, sourceID, time.Now().UTC()); err != nil {
			// The chunks are written; a missing ledger record only risks
			// a duplicate ingest later, so log and carry on.
			logger.Warn("recording %s/%s in ledger for tenant %s: %v", kind, sourceID, tenant, err)
		}
	}

	logger.Info("ingested %s/%s for tenant %s: %d chunks", kind, sourceID, tenant, len(ids))
	return ids, nil
}

// Reingest deletes the item's previous chunks and ingests the text again
// under the same source id. After it returns, exactly one generation of
// chunks exists for the source.
func (g *Ingestor) Reingest(
	ctx context.Context,
	tenant domain.TenantID,
	kind domain.SourceKind,
	sourceID, text string,
	meta map[string]string,
) ([]string, error) {
	if err := g.checkWrite(ctx, tenant, kind, sourceID); err != nil {
		return nil, err
	}
	if err := g.vectors.DeleteBySource(ctx, tenant, kind, sourceID); err != nil {
		return nil, fmt.Errorf("deleting previous chunks of %s/%s: %w", kind, sourceID, err)
	}
	if g.ledger != nil {
		if err := g.ledger.ForgetSource(ctx, tenant, kind, sourceID); err != nil {
			return nil, fmt.Errorf("forgetting %s/%s in ledger: %w", kind, sourceID, err)
		}
	}
	return g.Ingest(ctx, tenant, kind, sourceID, text, meta)
}

// Stats reports the contents of a tenant's partition.
func (g *Ingestor) Stats(ctx context.Context, tenant domain.TenantID) (domain.TenantStats, error) {
	if err := tenant.Validate(); err != nil {
		return domain.TenantStats{}, err
	}
	return g.vectors.Stats(ctx, tenant)
}

// DeleteSource removes one ingested item's chunks and ledger record.
func (g *Ingestor) DeleteSource(ctx context.Context, tenant domain.TenantID, kind domain.SourceKind, sourceID string) error {
	if err := tenant.Validate(); err != nil {
		return err
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: source kind %q", domain.ErrInvalidInput, kind)
	}
	if err := g.vectors.DeleteBySource(ctx, tenant, kind, sourceID); err != nil {
		return err
	}
	if g.ledger != nil {
		return g.ledger.ForgetSource(ctx, tenant, kind, sourceID)
	}
	return nil
}

// DeleteTenant drops the tenant's partition, ledger records, conversation
// turns and registration. Deleting an absent tenant succeeds silently.
func (g *Ingestor) DeleteTenant(ctx context.Context, tenant domain.TenantID) error {
	if err := tenant.Validate(); err != nil {
		return err
	}
	if err := g.vectors.DeleteTenant(ctx, tenant); err != nil {
		return fmt.Errorf("dropping partition for tenant %s: %w", tenant, err)
	}
	if g.ledger != nil {
		if err := g.ledger.ForgetTenant(ctx, tenant); err != nil {
			return fmt.Errorf("clearing ledger for tenant %s: %w", tenant, err)
		}
	}
	if g.turns != nil {
		if err := g.turns.DeleteTenant(ctx, tenant); err != nil {
			return fmt.Errorf("clearing turns for tenant %s: %w", tenant, err)
		}
	}
	if g.tenants != nil {
		if err := g.tenants.Delete(ctx, tenant); err != nil {
			return fmt.Errorf("deleting tenant %s: %w", tenant, err)
		}
	}
	logger.Info("deleted tenant %s", tenant)
	return nil
}

// checkWrite validates the write-path preconditions shared by Ingest and
// Reingest.
func (g *Ingestor) checkWrite(ctx context.Context, tenant domain.TenantID, kind domain.SourceKind, sourceID string) error {
	if err := tenant.Validate(); err != nil {
		return err
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: source kind %q", domain.ErrInvalidInput, kind)
	}
	if strings.TrimSpace(sourceID) == "" {
		return fmt.Errorf("%w: empty source id", domain.ErrInvalidInput)
	}
	if g.tenants != nil {
		exists, err := g.tenants.Exists(ctx, tenant)
		if err != nil {
			return fmt.Errorf("checking tenant %s: %w", tenant, err)
		}
		if !exists {
			return fmt.Errorf("%w: %s", domain.ErrTenantNotFound, tenant)
		}
	}
	return nil
}
