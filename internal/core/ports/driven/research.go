package driven

import (
	"context"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

// PaperSource discovers academic papers and fetches their full text.
// Backed by the arXiv Atom API.
type PaperSource interface {
	// Search returns up to max papers relevant to the topic, ordered by
	// relevance as reported by the backend.
	Search(ctx context.Context, topic string, max int) ([]domain.Paper, error)

	// FetchPDF downloads the PDF bytes for the given paper ID.
	FetchPDF(ctx context.Context, id string) ([]byte, error)
}

// NewsSource discovers recent news articles for a topic.
// Backed by DuckDuckGo; the implementation falls back from the news backend
// to plain text search when the news backend fails, mirroring the retry
// policy of the upstream service rather than the core.
type NewsSource interface {
	// Search returns up to max articles for the topic.
	Search(ctx context.Context, topic string, max int) ([]domain.Article, error)
}

// ArticleExtractor turns an article URL into readable body text.
type ArticleExtractor interface {
	// Extract downloads the page and strips it to its main text content.
	Extract(ctx context.Context, url string) (string, error)
}

// Normaliser converts raw document bytes into a plain text Document.
// The core treats this as a black box producing UTF-8 text with optional
// markdown heading markers.
type Normaliser interface {
	// Normalise parses raw bytes (e.g. a PDF) into a Document.
	Normalise(ctx context.Context, name string, raw []byte) (*domain.Document, error)
}
