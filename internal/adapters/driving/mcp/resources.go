package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Casefile resources.
	uriScheme = "casefile://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing tenants.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "tenants",
		Name:        "tenants",
		Description: "List of all registered tenants (clients)",
		MIMEType:    "application/json",
	}, s.handleTenantsResource)

	// Template for tenant partition statistics.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "tenants/{tenantId}/stats",
		Name:        "tenant-stats",
		Description: "Contents of a tenant's partition",
		MIMEType:    "application/json",
	}, s.handleTenantStatsResource)
}

// handleTenantsResource returns a list of all registered tenants.
func (s *Server) handleTenantsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Tenants == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	tenants, err := s.ports.Tenants.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tenants: %w", err)
	}

	type tenantInfo struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CreatedAt string `json:"created_at"`
	}

	infos := make([]tenantInfo, len(tenants))
	for i, tenant := range tenants {
		infos[i] = tenantInfo{
			ID:        tenant.ID.String(),
			Name:      tenant.Name,
			CreatedAt: tenant.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling tenants: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleTenantStatsResource returns partition statistics for one tenant.
func (s *Server) handleTenantStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Ingest == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract tenantId from URI: casefile://tenants/{tenantId}/stats
	tenantID := extractTenantID(req.Params.URI)
	if tenantID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	stats, err := s.ports.Ingest.Stats(ctx, domain.TenantID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("getting tenant stats: %w", err)
	}

	data, err := json.MarshalIndent(TenantStatsOutput{
		Tenant:         tenantID,
		TotalChunks:    stats.TotalChunks,
		Documents:      stats.Documents,
		Emails:         stats.Emails,
		DocumentChunks: stats.DocumentChunks,
		EmailChunks:    stats.EmailChunks,
		TotalWords:     stats.TotalWords,
		TotalChars:     stats.TotalChars,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling tenant stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractTenantID extracts the tenant ID from a URI like casefile://tenants/{tenantId}/stats.
func extractTenantID(uri string) string {
	const prefix = uriScheme + "tenants/"
	const suffix = "/stats"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
