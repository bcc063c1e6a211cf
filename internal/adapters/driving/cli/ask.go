package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/casefile-labs/casefile/internal/core/domain"
	"github.com/casefile-labs/casefile/internal/logger"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [tenant] [question]",
	Short: "Ask a question grounded in a tenant's indexed material",
	Long: `Retrieves the most relevant chunks from the tenant's partition, generates
an answer grounded in them, and cites the sources used.

Recent question/answer pairs for the tenant are replayed so follow-up
questions keep their context.`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	tenant := domain.TenantID(args[0])
	question := args[1]
	ctx := context.Background()

	var history []domain.ConversationTurn
	if turnStore != nil {
		var err error
		history, err = turnStore.Recent(ctx, tenant, domain.HistoryWindowPairs)
		if err != nil {
			logger.Warn("loading conversation history for %s: %v", tenant, err)
		}
	}

	result := assistantService.Answer(ctx, tenant, question, history)

	if turnStore != nil && result.Success {
		turn := domain.ConversationTurn{
			TenantID:     tenant,
			Question:     question,
			Answer:       result.Answer,
			Sources:      result.Sources,
			TokensUsed:   result.TokensUsed,
			ResponseTime: result.ResponseTime,
			CreatedAt:    time.Now().UTC(),
		}
		if err := turnStore.Append(ctx, turn); err != nil {
			logger.Warn("persisting conversation turn for %s: %v", tenant, err)
		}
	}

	if askJSON {
		return outputAskJSON(cmd, result)
	}

	return outputAskText(cmd, result)
}

// askResultView is the JSON shape of an answer.
type askResultView struct {
	Success        bool            `json:"success"`
	Answer         string          `json:"answer"`
	Error          string          `json:"error,omitempty"`
	Sources        []askSourceView `json:"sources"`
	ContextUsed    int             `json:"context_used"`
	TokensUsed     int             `json:"tokens_used"`
	ResponseTimeMS int64           `json:"response_time_ms"`
}

type askSourceView struct {
	Kind    string  `json:"kind"`
	Title   string  `json:"title"`
	Sender  string  `json:"sender,omitempty"`
	Score   float64 `json:"score"`
	Preview string  `json:"preview"`
}

func outputAskJSON(cmd *cobra.Command, result domain.AnswerResult) error {
	view := askResultView{
		Success:        result.Success,
		Answer:         result.Answer,
		Error:          result.Error,
		Sources:        make([]askSourceView, len(result.Sources)),
		ContextUsed:    result.ContextUsed,
		TokensUsed:     result.TokensUsed,
		ResponseTimeMS: result.ResponseTime.Milliseconds(),
	}
	for i, src := range result.Sources {
		view.Sources[i] = askSourceView{
			Kind:    string(src.Kind),
			Title:   src.Title,
			Sender:  src.Sender,
			Score:   src.Score,
			Preview: src.Preview,
		}
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAskText(cmd *cobra.Command, result domain.AnswerResult) error {
	cmd.Println(result.Answer)

	if len(result.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, src := range result.Sources {
			label := "Document"
			if src.Kind == domain.SourceEmail {
				label = "Email"
			}
			cmd.Printf("  [%d] %s: %s (%.2f)\n", i+1, label, src.Title, src.Score)
			if src.Sender != "" {
				cmd.Printf("      From: %s\n", src.Sender)
			}
		}
	}

	return nil
}
