package driven

import (
	"context"
	"time"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

// TenantStore persists tenant registrations. It backs tenant existence
// checks on the write path.
type TenantStore interface {
	// Create registers a tenant. Creating an existing tenant updates
	// its name.
	Create(ctx context.Context, tenant domain.Tenant) error

	// Exists reports whether the tenant is registered.
	Exists(ctx context.Context, id domain.TenantID) (bool, error)

	// List returns all registered tenants.
	List(ctx context.Context) ([]domain.Tenant, error)

	// Delete removes a tenant registration. Idempotent.
	Delete(ctx context.Context, id domain.TenantID) error
}

// ItemLedger records which external items have already been ingested per
// tenant. It is the primary dedup and concurrency-safety mechanism: an
// item recorded here must never be re-ingested or re-embedded.
type ItemLedger interface {
	// IsKnown reports whether the external id was already ingested for
	// the tenant.
	IsKnown(ctx context.Context, tenant domain.TenantID, kind domain.SourceKind, externalID string) (bool, error)

	// Record marks an external id as ingested. Recording a known id is
	// a no-op.
	Record(ctx context.Context, tenant domain.TenantID, kind domain.SourceKind, externalID string, ingestedAt time.Time) error

	// ForgetSource removes the record for one item so it can be
	// re-ingested. No-op if absent.
	ForgetSource(ctx context.Context, tenant domain.TenantID, kind domain.SourceKind, externalID string) error

	// ForgetTenant removes all records for a tenant. Idempotent.
	ForgetTenant(ctx context.Context, tenant domain.TenantID) error
}

// TurnStore persists conversation turns per tenant. The assistant itself
// never writes turns; persistence is the caller's responsibility.
type TurnStore interface {
	// Append stores a completed turn.
	Append(ctx context.Context, turn domain.ConversationTurn) error

	// Recent returns the most recent n turns for a tenant, oldest first.
	Recent(ctx context.Context, tenant domain.TenantID, n int) ([]domain.ConversationTurn, error)

	// DeleteTenant removes all turns for a tenant. Idempotent.
	DeleteTenant(ctx context.Context, tenant domain.TenantID) error
}
