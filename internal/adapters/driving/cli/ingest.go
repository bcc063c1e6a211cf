package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

var (
	ingestSourceID  string
	ingestSummarize bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [tenant] [file]",
	Short: "Index a document for a tenant",
	Long: `Reads a text file, chunks and embeds it, and writes the chunks to the
tenant's partition. Re-ingesting a file with the same source id replaces
its previous chunks.`,
	Args: cobra.ExactArgs(2),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSourceID, "id", "", "source id (defaults to the file name)")
	ingestCmd.Flags().BoolVar(&ingestSummarize, "summarize", false, "print an upload summary after indexing")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	tenant := domain.TenantID(args[0])
	path := args[1]

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	sourceID := ingestSourceID
	if sourceID == "" {
		sourceID = filepath.Base(path)
	}

	ctx := context.Background()
	ids, err := ingestService.Reingest(ctx, tenant, domain.SourceDocument, sourceID, string(content),
		map[string]string{"filename": filepath.Base(path)})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Indexed %s for tenant %s: %d chunks.\n", sourceID, tenant, len(ids))

	if ingestSummarize {
		if assistantService == nil {
			return errors.New("assistant service not configured")
		}
		summary := assistantService.SummarizeDocument(ctx, string(content), filepath.Base(path))
		if !summary.Success {
			cmd.Printf("Summary unavailable: %s\n", summary.Error)
			return nil
		}
		cmd.Printf("\nSummary:\n%s\n", summary.Summary)
	}

	return nil
}
