package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

var (
	searchLimit int
	searchKind  string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [tenant] [query]",
	Short: "Search a tenant's indexed material",
	Long: `Performs similarity search over the tenant's documents and emails.
Results are ranked by relevance; low-scoring matches are discarded.`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results")
	searchCmd.Flags().StringVar(&searchKind, "kind", "", "restrict to 'document' or 'email' sources")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if retrieveService == nil {
		return errors.New("retrieve service not configured")
	}

	tenant := domain.TenantID(args[0])
	query := args[1]

	ctx := context.Background()
	opts := domain.RetrievalOptions{
		TopK:         searchLimit,
		SourceFilter: domain.SourceKind(searchKind),
	}

	hits, err := retrieveService.Retrieve(ctx, tenant, query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, hits)
	}

	return outputSearchText(cmd, hits)
}

// searchResultView is the JSON shape of one search hit.
type searchResultView struct {
	SourceID string  `json:"source_id"`
	Kind     string  `json:"kind"`
	Title    string  `json:"title"`
	Sender   string  `json:"sender,omitempty"`
	Position int     `json:"position"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
}

func outputSearchJSON(cmd *cobra.Command, hits []domain.RetrievedChunk) error {
	views := make([]searchResultView, len(hits))
	for i := range hits {
		chunk := hits[i].Chunk
		views[i] = searchResultView{
			SourceID: chunk.SourceID,
			Kind:     string(chunk.SourceKind),
			Title:    chunkTitle(&chunk),
			Sender:   chunk.Sender(),
			Position: chunk.Position,
			Score:    hits[i].Score,
			Text:     chunk.Text,
		}
	}

	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, hits []domain.RetrievedChunk) error {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range hits {
		chunk := hits[i].Chunk
		label := "Document"
		if chunk.SourceKind == domain.SourceEmail {
			label = "Email"
		}

		cmd.Printf("  [%d] %s: %s (%.2f)\n", i+1, label, chunkTitle(&chunk), hits[i].Score)
		if sender := chunk.Sender(); sender != "" {
			cmd.Printf("      From: %s\n", sender)
		}
		cmd.Printf("      %s\n", snippetOf(chunk.Text))
		cmd.Println()
	}

	return nil
}

// chunkTitle picks the display title for a chunk: the filename for documents,
// the subject for emails, falling back to the source id.
func chunkTitle(chunk *domain.Chunk) string {
	var title string
	if chunk.SourceKind == domain.SourceEmail {
		title = chunk.Subject()
	} else {
		title = chunk.Filename()
	}
	if title == "" {
		title = chunk.SourceID
	}
	return title
}

// snippetOf shortens chunk text to a single display line.
func snippetOf(text string) string {
	const maxSnippet = 120
	if len(text) <= maxSnippet {
		return text
	}
	return text[:maxSnippet] + "..."
}
