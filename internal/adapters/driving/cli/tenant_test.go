package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

func TestTenantCmd_Use(t *testing.T) {
	assert.Equal(t, "tenant", tenantCmd.Use)
}

func TestTenantCmd_HasSubcommands(t *testing.T) {
	commands := tenantCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "create")
	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "stats")
	assert.Contains(t, commandNames, "delete")
}

func TestTenantCreateCmd_RegistersTenant(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mockTenants := &mockTenantStore{}
	tenantStore = mockTenants

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"tenant", "create", "acme", "Acme Corp"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	require.Len(t, mockTenants.created, 1)
	assert.Equal(t, domain.TenantID("acme"), mockTenants.created[0].ID)
	assert.Equal(t, "Acme Corp", mockTenants.created[0].Name)
	assert.False(t, mockTenants.created[0].CreatedAt.IsZero())
	assert.Contains(t, buf.String(), "Tenant acme (Acme Corp) registered.")
}

func TestTenantCreateCmd_NameDefaultsToID(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mockTenants := &mockTenantStore{}
	tenantStore = mockTenants

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"tenant", "create", "globex"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	require.Len(t, mockTenants.created, 1)
	assert.Equal(t, "globex", mockTenants.created[0].Name)
}

func TestTenantListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"tenant", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No tenants registered.")
}

func TestTenantListCmd_PrintsTenants(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	tenantStore = &mockTenantStore{
		tenants: []domain.Tenant{
			{ID: "acme", Name: "Acme Corp", CreatedAt: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)},
			{ID: "globex", Name: "Globex"},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"tenant", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "acme")
	assert.Contains(t, buf.String(), "Acme Corp")
	assert.Contains(t, buf.String(), "Total: 2 tenants")
}

func TestTenantStatsCmd_PrintsStats(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	ingestService = &mockIngestService{
		stats: domain.TenantStats{
			TotalChunks:    7,
			Documents:      2,
			Emails:         3,
			DocumentChunks: 4,
			EmailChunks:    3,
			TotalWords:     120,
			TotalChars:     800,
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"tenant", "stats", "acme"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Tenant: acme")
	assert.Contains(t, buf.String(), "Chunks:           7")
	assert.Contains(t, buf.String(), "Documents:        2 (4 chunks)")
	assert.Contains(t, buf.String(), "Emails:           3 (3 chunks)")
}

func TestTenantDeleteCmd_RequiresConfirmation(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mockIngest := &mockIngestService{}
	ingestService = mockIngest

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"tenant", "delete", "acme"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
	assert.Empty(t, mockIngest.deleted)
}

func TestTenantDeleteCmd_DeletesWithConfirmation(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mockIngest := &mockIngestService{}
	ingestService = mockIngest

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"tenant", "delete", "acme", "--yes"})
	defer func() {
		rootCmd.SetArgs(nil)
		tenantDeleteYes = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, []domain.TenantID{"acme"}, mockIngest.deleted)
	assert.Contains(t, buf.String(), "Tenant acme deleted.")
}
