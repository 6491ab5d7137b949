package driven

import (
	"context"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

// ReportStore persists generated reports.
type ReportStore interface {
	// Save stores a report. The store assigns CreatedAt if zero.
	Save(ctx context.Context, report domain.Report) error

	// Get retrieves a report by ID, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Report, error)

	// List returns up to limit reports, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]domain.Report, error)
}

// UsageStore records token consumption of model invocations.
// Services treat a nil UsageStore as "logging disabled" and never fail an
// operation because usage could not be recorded.
type UsageStore interface {
	// Log records one model invocation.
	Log(ctx context.Context, model string, usage domain.TokenUsage) error

	// Totals returns the accumulated usage across all recorded invocations.
	Totals(ctx context.Context) (domain.TokenUsage, error)
}

// ConfigStore provides persistent key-value configuration.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	GetInt(key string) int

	// Set stores a configuration value and persists it.
	Set(key string, value any) error

	// Keys returns all configured keys.
	Keys() []string
}

// Well-known configuration keys shared between the config store and its
// consumers. Dot notation maps onto nested TOML tables.
const (
	KeyGroqAPIKey        = "groq.api_key"
	KeyGroqModel         = "groq.model"
	KeyEmbeddingModel    = "embedding.model"
	KeyChunkSize         = "splitter.chunk_size"
	KeyChunkOverlap      = "splitter.overlap"
	KeyRetrievalK        = "chat.retrieval_k"
	KeySummaryInputLimit = "research.summary_input_limit"
	KeyArticleInputLimit = "market.article_input_limit"
	KeyChartInputLimit   = "market.chart_input_limit"
)
