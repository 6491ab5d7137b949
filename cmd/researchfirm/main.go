// Command researchfirm is an LLM-powered research assistant. It wires the
// driven adapters into the core services and hands them to the CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/livingcool/researchfirm/internal/adapters/driven/config/file"
	"github.com/livingcool/researchfirm/internal/adapters/driven/embedding/local"
	"github.com/livingcool/researchfirm/internal/adapters/driven/embedding/ollama"
	"github.com/livingcool/researchfirm/internal/adapters/driven/llm/groq"
	"github.com/livingcool/researchfirm/internal/adapters/driven/research/arxiv"
	"github.com/livingcool/researchfirm/internal/adapters/driven/research/ddg"
	"github.com/livingcool/researchfirm/internal/adapters/driven/storage/sqlite"
	"github.com/livingcool/researchfirm/internal/adapters/driven/vector/memory"
	"github.com/livingcool/researchfirm/internal/adapters/driving/cli"
	"github.com/livingcool/researchfirm/internal/core/ports/driven"
	"github.com/livingcool/researchfirm/internal/core/services"
	"github.com/livingcool/researchfirm/internal/logger"
	"github.com/livingcool/researchfirm/internal/normalisers/article"
	pdfnorm "github.com/livingcool/researchfirm/internal/normalisers/pdf"
	"github.com/livingcool/researchfirm/internal/splitter"
)

func main() {
	// Load .env if present, for GROQ_API_KEY
	godotenv.Load() //nolint:errcheck

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("config store: %w", err)
	}

	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("prompt store: %w", err)
	}
	if err := promptStore.Watch(); err != nil {
		logger.Warn("prompt watcher unavailable: %v", err)
	}
	defer promptStore.Close() //nolint:errcheck

	var (
		reportStore driven.ReportStore
		usageStore  driven.UsageStore
	)
	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("report database unavailable, persistence disabled: %v", err)
	} else {
		defer store.Close() //nolint:errcheck
		reportStore = store.ReportStore()
		usageStore = store.UsageStore()
	}

	embedder := newEmbedder(configStore)

	splitterOpts := []splitter.Option{}
	if size := configStore.GetInt(driven.KeyChunkSize); size > 0 {
		splitterOpts = append(splitterOpts, splitter.WithChunkSize(size))
	}
	if overlap := configStore.GetInt(driven.KeyChunkOverlap); overlap > 0 {
		splitterOpts = append(splitterOpts, splitter.WithOverlap(overlap))
	}
	ingestor := services.NewIngestor(splitter.New(splitterOpts...), memory.NewBuilder(embedder))

	svcs := &cli.Services{
		Config:  configStore,
		Prompts: promptStore,
		History: services.NewHistoryService(reportStore, usageStore),
	}

	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		apiKey = configStore.GetString(driven.KeyGroqAPIKey)
	}

	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "Warning: no Groq API key set; research, market and chat are disabled.")
		fmt.Fprintln(os.Stderr, "Set GROQ_API_KEY or run 'researchfirm settings set-key'.")
	} else {
		llm, err := groq.New(groq.Config{
			APIKey: apiKey,
			Model:  configStore.GetString(driven.KeyGroqModel),
		})
		if err != nil {
			return fmt.Errorf("llm client: %w", err)
		}

		charts := services.NewChartExtractor(llm, promptStore, usageStore,
			configStore.GetInt(driven.KeyChartInputLimit))

		svcs.Research = services.NewResearchService(
			arxiv.New(arxiv.Config{}),
			pdfnorm.New(),
			llm,
			promptStore,
			reportStore,
			usageStore,
			ingestor,
			services.ResearchConfig{
				SummaryInputLimit: configStore.GetInt(driven.KeySummaryInputLimit),
			},
		)
		svcs.Market = services.NewMarketService(
			ddg.New(ddg.Config{}),
			article.New(article.Config{}),
			llm,
			promptStore,
			charts,
			reportStore,
			usageStore,
			ingestor,
			services.MarketConfig{
				ArticleInputLimit: configStore.GetInt(driven.KeyArticleInputLimit),
			},
		)
		svcs.Chat = services.NewChatService(embedder, llm, promptStore, usageStore,
			configStore.GetInt(driven.KeyRetrievalK))
	}

	cli.SetServices(svcs)
	return cli.Execute()
}

// newEmbedder picks the embedding backend from configuration. The default
// hashing embedder needs no external service; any other model name selects
// Ollama with that model.
func newEmbedder(configStore driven.ConfigStore) driven.EmbeddingService {
	model := configStore.GetString(driven.KeyEmbeddingModel)
	switch model {
	case "", "local":
		return local.NewEmbeddingService(local.Config{})
	default:
		return ollama.NewEmbeddingService(ollama.Config{Model: model})
	}
}
