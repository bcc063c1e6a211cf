package mcp

import (
	"github.com/casefile-labs/casefile/internal/core/ports/driven"
	"github.com/casefile-labs/casefile/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieve provides per-tenant similarity search.
	Retrieve driving.RetrieveService

	// Assistant answers questions grounded in retrieved context.
	Assistant driving.AssistantService

	// Ingest reports partition statistics.
	Ingest driving.IngestService

	// Monitor reports mailbox poller state.
	Monitor driving.MonitorService

	// Tenants lists registered tenants for the tenants resource.
	Tenants driven.TenantStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieve == nil {
		return ErrMissingRetrieveService
	}
	if p.Assistant == nil {
		return ErrMissingAssistantService
	}
	// Ingest, Monitor and Tenants are optional; tools backed by them
	// report unavailability instead.
	return nil
}
