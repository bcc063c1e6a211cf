// Command casefile is a multi-tenant assistant over legal documents and
// email. It wires the storage, embedding, completion and mailbox adapters
// into the core services and hands them to the CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/casefile-labs/casefile/internal/adapters/driven/ai"
	configfile "github.com/casefile-labs/casefile/internal/adapters/driven/config/file"
	ledgersqlite "github.com/casefile-labs/casefile/internal/adapters/driven/ledger/sqlite"
	"github.com/casefile-labs/casefile/internal/adapters/driven/mailbox/gmail"
	"github.com/casefile-labs/casefile/internal/adapters/driven/mailbox/scripted"
	vectorsqlite "github.com/casefile-labs/casefile/internal/adapters/driven/vectorstore/sqlite"
	"github.com/casefile-labs/casefile/internal/adapters/driving/cli"
	"github.com/casefile-labs/casefile/internal/core/domain"
	"github.com/casefile-labs/casefile/internal/core/ports/driven"
	"github.com/casefile-labs/casefile/internal/core/services"
	"github.com/casefile-labs/casefile/internal/logger"
)

func main() {
	// A .env file is optional; real environment variables win.
	godotenv.Load() //nolint:errcheck

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dataDir := cfg.GetString("storage.data_dir")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dataDir = filepath.Join(home, ".casefile", "data")
	}

	vectors, err := vectorsqlite.NewStore(filepath.Join(dataDir, "partitions"))
	if err != nil {
		return fmt.Errorf("opening vector store: %w", err)
	}
	defer vectors.Close() //nolint:errcheck

	ledger, err := ledgersqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer ledger.Close() //nolint:errcheck

	embeddingSvc, err := ai.CreateEmbeddingService(embeddingSettings(cfg))
	if err != nil {
		return fmt.Errorf("embedding provider: %w", err)
	}
	if embeddingSvc == nil {
		return fmt.Errorf("no embedding provider configured: set OPENAI_API_KEY or [embedding] in %s", cfg.Path())
	}
	defer embeddingSvc.Close() //nolint:errcheck

	// The completion provider is optional. Without it, answers degrade to
	// structured failures but search and ingestion still work.
	llm, err := ai.CreateLLMService(llmSettings(cfg))
	if err != nil {
		logger.Warn("completion provider unavailable, answers will fail gracefully: %v", err)
		llm = nil
	}
	if llm != nil {
		defer llm.Close() //nolint:errcheck
	}

	mailbox, err := newMailbox(cfg)
	if err != nil {
		return err
	}
	defer mailbox.Close() //nolint:errcheck

	chunker := services.NewChunker()
	embedder := services.NewEmbedder(embeddingSvc)

	ingestor := services.NewIngestor(chunker, embedder, vectors,
		ledger.TenantStore(), ledger.ItemLedger())
	ingestor.SetTurnStore(ledger.TurnStore())

	retriever := services.NewRetriever(embedder, vectors)
	assistant := services.NewAssistant(retriever, llm)
	monitor := services.NewMonitor(mailbox, ledger.ItemLedger(), ingestor)
	defer monitor.StopAll()

	cli.SetServices(cli.Services{
		Ingest:    ingestor,
		Retrieve:  retriever,
		Assistant: assistant,
		Monitor:   monitor,
		Tenants:   ledger.TenantStore(),
		Turns:     ledger.TurnStore(),
		Mailbox:   mailbox,
	})

	return cli.Execute()
}

// embeddingSettings reads the [embedding] config section. The provider
// defaults to OpenAI so that exporting OPENAI_API_KEY is enough to start.
func embeddingSettings(cfg driven.ConfigStore) *domain.EmbeddingSettings {
	provider := domain.AIProvider(cfg.GetString("embedding.provider"))
	if provider == "" {
		provider = domain.AIProviderOpenAI
	}

	return &domain.EmbeddingSettings{
		Provider: provider,
		Model:    cfg.GetString("embedding.model"),
		BaseURL:  cfg.GetString("embedding.base_url"),
		APIKey:   providerAPIKey(provider, cfg.GetString("embedding.api_key")),
	}
}

// llmSettings reads the [llm] config section. The provider defaults to
// OpenAI, matching the embedding default.
func llmSettings(cfg driven.ConfigStore) *domain.LLMSettings {
	provider := domain.AIProvider(cfg.GetString("llm.provider"))
	if provider == "" {
		provider = domain.AIProviderOpenAI
	}

	return &domain.LLMSettings{
		Provider: provider,
		Model:    cfg.GetString("llm.model"),
		BaseURL:  cfg.GetString("llm.base_url"),
		APIKey:   providerAPIKey(provider, cfg.GetString("llm.api_key")),
	}
}

// providerAPIKey resolves the API key for a provider, preferring the
// environment over the config file.
func providerAPIKey(provider domain.AIProvider, fromConfig string) string {
	var fromEnv string
	switch provider {
	case domain.AIProviderOpenAI:
		fromEnv = os.Getenv("OPENAI_API_KEY")
	case domain.AIProviderAnthropic:
		fromEnv = os.Getenv("ANTHROPIC_API_KEY")
	}
	if fromEnv != "" {
		return fromEnv
	}
	return fromConfig
}

// newMailbox selects the mail provider: Gmail when a token is configured,
// otherwise the scripted demo conversation.
func newMailbox(cfg driven.ConfigStore) (driven.Mailbox, error) {
	token := os.Getenv("GMAIL_ACCESS_TOKEN")
	if token == "" {
		token = cfg.GetString("gmail.access_token")
	}
	if token == "" {
		logger.Debug("no Gmail token configured, using the scripted demo mailbox")
		return scripted.NewMailbox(), nil
	}

	mailbox, err := gmail.NewMailboxWithToken(context.Background(), token)
	if err != nil {
		return nil, fmt.Errorf("connecting to Gmail: %w", err)
	}
	return mailbox, nil
}
