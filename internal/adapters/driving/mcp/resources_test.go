package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleTenantsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists registered tenants", func(t *testing.T) {
		store := &mockTenantStore{
			tenants: []domain.Tenant{
				{ID: "acme", Name: "Acme Corp", CreatedAt: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)},
				{ID: "globex", Name: "Globex"},
			},
		}

		server := newTestServer(t, &Ports{Tenants: store})

		result, err := server.handleTenantsResource(ctx, readRequest(uriScheme+"tenants"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"acme"`)
		assert.Contains(t, result.Contents[0].Text, "Acme Corp")
		assert.Contains(t, result.Contents[0].Text, `"globex"`)
	})

	t.Run("missing tenant store returns empty list", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		result, err := server.handleTenantsResource(ctx, readRequest(uriScheme+"tenants"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}

func TestServer_handleTenantStatsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stats for tenant in URI", func(t *testing.T) {
		mockIngest := &mockIngestService{
			stats: domain.TenantStats{TotalChunks: 4, Documents: 1, Emails: 2},
		}

		server := newTestServer(t, &Ports{Ingest: mockIngest})

		result, err := server.handleTenantStatsResource(ctx,
			readRequest(uriScheme+"tenants/acme/stats"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"tenant": "acme"`)
		assert.Contains(t, result.Contents[0].Text, `"total_chunks": 4`)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{Ingest: &mockIngestService{}})

		_, err := server.handleTenantStatsResource(ctx, readRequest(uriScheme+"tenants/acme"))

		assert.Error(t, err)
	})

	t.Run("missing ingest port is not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		_, err := server.handleTenantStatsResource(ctx,
			readRequest(uriScheme+"tenants/acme/stats"))

		assert.Error(t, err)
	})
}

func TestExtractTenantID(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"valid", "casefile://tenants/acme/stats", "acme"},
		{"wrong prefix", "casefile://clients/acme/stats", ""},
		{"missing suffix", "casefile://tenants/acme", ""},
		{"empty id", "casefile://tenants//stats", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractTenantID(tt.uri))
		})
	}
}
