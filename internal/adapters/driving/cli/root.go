// Package cli implements the casefile command-line interface. Commands are
// thin adapters over the driving ports; services are injected by main before
// Execute runs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/casefile-labs/casefile/internal/core/ports/driven"
	"github.com/casefile-labs/casefile/internal/core/ports/driving"
	"github.com/casefile-labs/casefile/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "0.1.0-dev"

// Injected services. Commands nil-check the ones they need so partial
// wiring fails with a clear message instead of a panic.
var (
	ingestService    driving.IngestService
	retrieveService  driving.RetrieveService
	assistantService driving.AssistantService
	monitorService   driving.MonitorService
	tenantStore      driven.TenantStore
	turnStore        driven.TurnStore
	mailboxService   driven.Mailbox
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "casefile",
	Short: "Multi-tenant assistant over legal documents and email",
	Long: `Casefile indexes a law firm's client documents and email threads into
per-client partitions and answers questions grounded in the retrieved
material, with source attribution.

Every command that touches indexed data takes a tenant (client) id; data
never crosses tenant boundaries.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Services bundles everything the commands depend on.
type Services struct {
	Ingest    driving.IngestService
	Retrieve  driving.RetrieveService
	Assistant driving.AssistantService
	Monitor   driving.MonitorService
	Tenants   driven.TenantStore
	Turns     driven.TurnStore
	Mailbox   driven.Mailbox
}

// SetServices injects service implementations. Must be called before Execute.
func SetServices(s Services) {
	ingestService = s.Ingest
	retrieveService = s.Retrieve
	assistantService = s.Assistant
	monitorService = s.Monitor
	tenantStore = s.Tenants
	turnStore = s.Turns
	mailboxService = s.Mailbox
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
