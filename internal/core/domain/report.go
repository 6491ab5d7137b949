package domain

import "time"

// ReportType distinguishes the two research modes.
type ReportType string

const (
	// ReportTypeAcademic is a paper summary produced by the academic flow.
	ReportTypeAcademic ReportType = "academic"

	// ReportTypeMarket is a market intelligence report produced from news.
	ReportTypeMarket ReportType = "market"
)

// Report is a generated research artefact persisted to the report store.
type Report struct {
	// ID is the unique identifier for the report.
	ID string

	// Topic is the user-supplied research topic.
	Topic string

	// Type is the research mode that produced the report.
	Type ReportType

	// Content is the generated markdown.
	Content string

	// Chart holds chart-worthy data extracted from the content, if any.
	Chart *ChartData

	// CreatedAt is when the report was generated.
	CreatedAt time.Time
}

// Paper is an academic paper candidate returned by the paper source.
type Paper struct {
	// ID is the archive identifier (e.g. "2401.12345v2").
	ID string

	// Title is the paper title.
	Title string

	// Abstract is the paper abstract.
	Abstract string

	// PDFURL is the download location for the full text.
	PDFURL string
}

// Article is a news article reference returned by the news source.
type Article struct {
	// Title is the headline.
	Title string

	// URL is the article location.
	URL string

	// Source is the publisher name. Text-search fallback results carry
	// "Web Search" because the backend does not report a publisher.
	Source string

	// Date is the publication date as reported by the backend.
	Date string
}

// TokenUsage reports token consumption of a single model invocation.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
}

// Total returns the combined token count.
func (u TokenUsage) Total() int {
	return u.PromptTokens + u.CompletionTokens
}

// Completion is the validated result of a language model call.
type Completion struct {
	// Content is the generated text.
	Content string

	// Usage is the token consumption reported by the provider.
	Usage TokenUsage
}
