package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a document or an email thread",
}

var summarizeDocumentCmd = &cobra.Command{
	Use:   "document [file]",
	Short: "Summarize a document file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarizeDocument,
}

var summarizeThreadCmd = &cobra.Command{
	Use:   "thread [thread-id]",
	Short: "Summarize an email thread from the mailbox",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarizeThread,
}

func init() {
	summarizeCmd.AddCommand(summarizeDocumentCmd)
	summarizeCmd.AddCommand(summarizeThreadCmd)
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarizeDocument(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	result := assistantService.SummarizeDocument(context.Background(), string(content), filepath.Base(path))
	if !result.Success {
		return fmt.Errorf("summarization failed: %s", result.Error)
	}

	cmd.Println(result.Summary)
	return nil
}

func runSummarizeThread(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}
	if mailboxService == nil {
		return errors.New("mailbox not configured")
	}

	ctx := context.Background()
	threadID := args[0]

	messages, err := mailboxService.FetchThread(ctx, threadID)
	if err != nil {
		return fmt.Errorf("fetching thread %s: %w", threadID, err)
	}
	if len(messages) == 0 {
		cmd.Printf("No messages found in thread %s.\n", threadID)
		return nil
	}

	result := assistantService.SummarizeThread(ctx, messages)
	if !result.Success {
		return fmt.Errorf("summarization failed: %s", result.Error)
	}

	cmd.Println(result.Summary)
	return nil
}
