package driving

import (
	"context"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

// ResearchService runs the academic research flow.
type ResearchService interface {
	// Research searches the archive for the topic, selects the most
	// relevant paper, summarises it into a report and ingests the full
	// paper text into the session for follow-up chat.
	Research(ctx context.Context, session *domain.Session, topic string) (*domain.Report, error)

	// IngestPDF normalises a local PDF and ingests it into the session.
	IngestPDF(ctx context.Context, session *domain.Session, path string) (*domain.Document, error)
}

// MarketService runs the market intelligence flow.
type MarketService interface {
	// Report searches recent news for the topic, generates a market
	// intelligence report with optional chart data, and ingests the report
	// into the session for follow-up chat.
	Report(ctx context.Context, session *domain.Session, topic string) (*domain.Report, error)
}

// ChatService answers follow-up questions grounded in the session's
// ingested content.
type ChatService interface {
	// Ask retrieves relevant chunks for the question and produces a
	// grounded answer. On success the exchange is appended to the session
	// conversation; on failure the conversation is left unmodified.
	Ask(ctx context.Context, session *domain.Session, question string) (string, error)
}

// HistoryService lists previously generated reports.
type HistoryService interface {
	// History returns up to limit saved reports, newest first.
	History(ctx context.Context, limit int) ([]domain.Report, error)

	// Usage returns accumulated token usage across all model calls.
	Usage(ctx context.Context) (domain.TokenUsage, error)
}
