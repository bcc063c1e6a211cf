package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

func TestSummarizeCmd_HasSubcommands(t *testing.T) {
	commands := summarizeCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "document")
	assert.Contains(t, commandNames, "thread")
}

func TestSummarizeDocumentCmd_PrintsSummary(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mockAssistant := &mockAssistantService{
		summary: domain.SummaryResult{Success: true, Summary: "A five year lease."},
	}
	assistantService = mockAssistant

	path := writeTempDoc(t, "lease.txt", "The lease term is five years.")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"summarize", "document", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, "The lease term is five years.", mockAssistant.lastText)
	assert.Equal(t, "lease.txt", mockAssistant.lastFilename)
	assert.Contains(t, buf.String(), "A five year lease.")
}

func TestSummarizeDocumentCmd_FailureReturnsError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	assistantService = &mockAssistantService{
		summary: domain.SummaryResult{Success: false, Error: "provider unreachable"},
	}

	path := writeTempDoc(t, "lease.txt", "The lease term is five years.")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"summarize", "document", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "provider unreachable")
}

func TestSummarizeThreadCmd_PrintsDigest(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	messages := []domain.MailMessage{
		{ExternalID: "msg-1", Subject: "Equity grant", Sender: "sarah@example.com", Date: time.Now()},
	}
	mailboxService = &mockMailbox{messages: messages}
	mockAssistant := &mockAssistantService{
		summary: domain.SummaryResult{Success: true, Summary: "Thread about an equity grant."},
	}
	assistantService = mockAssistant

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"summarize", "thread", "thread-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, messages, mockAssistant.lastMessages)
	assert.Contains(t, buf.String(), "Thread about an equity grant.")
}

func TestSummarizeThreadCmd_EmptyThread(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mailboxService = &mockMailbox{}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"summarize", "thread", "thread-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No messages found in thread thread-1.")
}

func TestSummarizeThreadCmd_NoMailbox(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mailboxService = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"summarize", "thread", "thread-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mailbox not configured")
}
