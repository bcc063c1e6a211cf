package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage tenants (clients)",
	Long:  `Register, list, inspect, or delete tenants and their partitions.`,
}

var tenantCreateCmd = &cobra.Command{
	Use:   "create [tenant-id] [name]",
	Short: "Register a tenant",
	Long: `Registers a tenant so material can be ingested for it. Creating an
existing tenant updates its display name.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTenantCreate,
}

var tenantListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tenants",
	RunE:  runTenantList,
}

var tenantStatsCmd = &cobra.Command{
	Use:   "stats [tenant-id]",
	Short: "Show what a tenant's partition holds",
	Args:  cobra.ExactArgs(1),
	RunE:  runTenantStats,
}

var tenantDeleteCmd = &cobra.Command{
	Use:   "delete [tenant-id]",
	Short: "Delete a tenant and all its data",
	Long: `Removes the tenant's partition, ingest records, conversation history and
registration. This cannot be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: runTenantDelete,
}

// tenantDeleteYes confirms deletion without prompting.
var tenantDeleteYes bool

func init() {
	tenantDeleteCmd.Flags().BoolVar(&tenantDeleteYes, "yes", false, "confirm deletion")

	tenantCmd.AddCommand(tenantCreateCmd)
	tenantCmd.AddCommand(tenantListCmd)
	tenantCmd.AddCommand(tenantStatsCmd)
	tenantCmd.AddCommand(tenantDeleteCmd)
	rootCmd.AddCommand(tenantCmd)
}

func runTenantCreate(cmd *cobra.Command, args []string) error {
	if tenantStore == nil {
		return errors.New("tenant store not configured")
	}

	id := domain.TenantID(args[0])
	name := id.String()
	if len(args) > 1 {
		name = args[1]
	}

	tenant := domain.Tenant{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := tenantStore.Create(context.Background(), tenant); err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	cmd.Printf("Tenant %s (%s) registered.\n", id, name)
	return nil
}

func runTenantList(cmd *cobra.Command, _ []string) error {
	if tenantStore == nil {
		return errors.New("tenant store not configured")
	}

	tenants, err := tenantStore.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list tenants: %w", err)
	}

	if len(tenants) == 0 {
		cmd.Println("No tenants registered.")
		return nil
	}

	cmd.Println("Registered tenants:")
	cmd.Println()
	for _, tenant := range tenants {
		cmd.Printf("  %s\n", tenant.ID)
		cmd.Printf("    Name:    %s\n", tenant.Name)
		cmd.Printf("    Created: %s\n", tenant.CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d tenants\n", len(tenants))
	return nil
}

func runTenantStats(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	tenant := domain.TenantID(args[0])

	stats, err := ingestService.Stats(context.Background(), tenant)
	if err != nil {
		return fmt.Errorf("failed to get tenant stats: %w", err)
	}

	cmd.Printf("Tenant: %s\n\n", tenant)
	cmd.Printf("  Chunks:           %d\n", stats.TotalChunks)
	cmd.Printf("  Documents:        %d (%d chunks)\n", stats.Documents, stats.DocumentChunks)
	cmd.Printf("  Emails:           %d (%d chunks)\n", stats.Emails, stats.EmailChunks)
	cmd.Printf("  Total words:      %d\n", stats.TotalWords)
	cmd.Printf("  Total characters: %d\n", stats.TotalChars)
	return nil
}

func runTenantDelete(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	tenant := domain.TenantID(args[0])

	if !tenantDeleteYes {
		return fmt.Errorf("deleting tenant %s removes all its data; re-run with --yes to confirm", tenant)
	}

	if err := ingestService.DeleteTenant(context.Background(), tenant); err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	cmd.Printf("Tenant %s deleted.\n", tenant)
	return nil
}
