package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/casefile-labs/casefile/internal/adapters/driven/docwatch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [folder]",
	Short: "Watch a drop folder and ingest dropped files",
	Long: `Watches a drop folder with one subdirectory per tenant. A text file
written to <folder>/<tenant>/ is ingested into that tenant's partition;
re-dropping a file with the same name replaces its chunks.

Defaults to ~/.casefile/dropbox when no folder is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	root := ""
	if len(args) > 0 {
		root = args[0]
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		root = filepath.Join(home, ".casefile", "dropbox")
	}

	watcher, err := docwatch.NewWatcher(root, ingestService, nil)
	if err != nil {
		return err
	}
	defer watcher.Stop() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s. Press Ctrl-C to stop.\n", root)
	watcher.Run(ctx)
	return nil
}
