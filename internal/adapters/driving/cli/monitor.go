package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Manage mailbox monitors",
	Long: `Start, stop, or inspect background monitors that poll a mailbox source
and ingest new messages into a tenant's partition.

Sources are written as "thread:<id>" for a single conversation or
"query:<expr>" for a label or search query. A bare value is treated as
a thread id.`,
}

var (
	monitorInterval time.Duration
	monitorWait     bool
)

var monitorStartCmd = &cobra.Command{
	Use:   "start [tenant] [source]",
	Short: "Start monitoring a mailbox source",
	Args:  cobra.ExactArgs(2),
	RunE:  runMonitorStart,
}

var monitorStopCmd = &cobra.Command{
	Use:   "stop [tenant] [source]",
	Short: "Stop monitoring a mailbox source",
	Args:  cobra.ExactArgs(2),
	RunE:  runMonitorStop,
}

var monitorStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List active monitors",
	RunE:  runMonitorStatus,
}

func init() {
	monitorStartCmd.Flags().DurationVar(&monitorInterval, "interval", 0,
		"poll interval (default 5m)")
	monitorStartCmd.Flags().BoolVar(&monitorWait, "wait", true,
		"keep the process running until interrupted")

	monitorCmd.AddCommand(monitorStartCmd)
	monitorCmd.AddCommand(monitorStopCmd)
	monitorCmd.AddCommand(monitorStatusCmd)
	rootCmd.AddCommand(monitorCmd)
}

func runMonitorStart(cmd *cobra.Command, args []string) error {
	if monitorService == nil {
		return errors.New("monitor service not configured")
	}

	tenant := domain.TenantID(args[0])
	source, err := domain.ParseMailSource(args[1])
	if err != nil {
		return fmt.Errorf("invalid mail source: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ack, err := monitorService.Start(ctx, source, tenant, monitorInterval)
	if err != nil {
		return fmt.Errorf("failed to start monitor: %w", err)
	}
	cmd.Println(ack.Message)
	if !ack.OK {
		return nil
	}

	if !monitorWait {
		return nil
	}

	// Pollers live in this process; block until interrupted.
	cmd.Println("Monitoring. Press Ctrl-C to stop.")
	<-ctx.Done()

	monitorService.StopAll()
	cmd.Println("Monitors stopped.")
	return nil
}

func runMonitorStop(cmd *cobra.Command, args []string) error {
	if monitorService == nil {
		return errors.New("monitor service not configured")
	}

	tenant := domain.TenantID(args[0])
	source, err := domain.ParseMailSource(args[1])
	if err != nil {
		return fmt.Errorf("invalid mail source: %w", err)
	}

	ack := monitorService.Stop(source, tenant)
	cmd.Println(ack.Message)
	return nil
}

func runMonitorStatus(cmd *cobra.Command, _ []string) error {
	if monitorService == nil {
		return errors.New("monitor service not configured")
	}

	states := monitorService.Status()
	if len(states) == 0 {
		cmd.Println("No active monitors.")
		return nil
	}

	cmd.Println("Active monitors:")
	cmd.Println()
	for _, state := range states {
		cmd.Printf("  %s (tenant %s)\n", state.Key.Source, state.Key.TenantID)
		cmd.Printf("    Interval:       %s\n", state.Interval)
		cmd.Printf("    Started:        %s\n", state.StartedAt.Format("2006-01-02 15:04:05"))
		if state.LastCheck.IsZero() {
			cmd.Printf("    Last check:     never\n")
		} else {
			cmd.Printf("    Last check:     %s\n", state.LastCheck.Format("2006-01-02 15:04:05"))
		}
		cmd.Printf("    Messages found: %d\n", state.MessagesFound)
		cmd.Println()
	}

	return nil
}
