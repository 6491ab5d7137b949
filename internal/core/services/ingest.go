package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/livingcool/researchfirm/internal/core/domain"
	"github.com/livingcool/researchfirm/internal/core/ports/driven"
	"github.com/livingcool/researchfirm/internal/logger"
	"github.com/livingcool/researchfirm/internal/splitter"
)

// Ingestor is the shared ingestion pipeline: split text into chunks, embed
// them into a fresh vector index, and install the index on the session.
// Every flow that makes content chattable goes through here.
type Ingestor struct {
	splitter *splitter.Splitter
	builder  driven.IndexBuilder
}

// NewIngestor creates an ingestor with the given splitter and index builder.
func NewIngestor(sp *splitter.Splitter, builder driven.IndexBuilder) *Ingestor {
	return &Ingestor{
		splitter: sp,
		builder:  builder,
	}
}

// Ingest replaces the session's active index with one built from text.
// The previous index is discarded wholesale. Returns the chunk count.
func (i *Ingestor) Ingest(ctx context.Context, session *domain.Session, topic, text string) (int, error) {
	chunks := i.splitter.Split(text)
	logger.Debug("Split %q into %d chunks", topic, len(chunks))

	idx, err := i.builder.Build(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("build index: %w", err)
	}

	session.ReplaceIndex(idx, topic)
	logger.Info("Ingested %q: %d chunks indexed", topic, len(chunks))
	return len(chunks), nil
}

// logUsage records token consumption, tolerating a nil store. Recording
// failures are logged and swallowed so they never fail the operation.
func logUsage(ctx context.Context, store driven.UsageStore, model string, usage domain.TokenUsage) {
	if store == nil {
		return
	}
	logger.Debug("Token usage: model=%s prompt=%d completion=%d",
		model, usage.PromptTokens, usage.CompletionTokens)
	if err := store.Log(ctx, model, usage); err != nil {
		logger.Warn("Failed to record token usage: %v", err)
	}
}

// loadPrompt loads a named template from the store, falling back to the
// compiled-in default when the store is nil or the load fails.
func loadPrompt(store driven.PromptStore, name, fallback string) string {
	if store == nil {
		return fallback
	}
	prompt, err := store.Load(name)
	if err != nil {
		logger.Warn("Prompt %q unavailable, using built-in default: %v", name, err)
		return fallback
	}
	return prompt
}

// saveReport persists a report, tolerating a nil store. A failed save is
// logged and swallowed; the report is still returned to the caller.
func saveReport(ctx context.Context, store driven.ReportStore, report *domain.Report) {
	if store == nil {
		return
	}
	if err := store.Save(ctx, *report); err != nil {
		logger.Warn("Failed to save report %s: %v", report.ID, err)
	}
}

// truncateRunes caps s at n runes. Limits are rune counts so multi-byte
// text never gets cut mid-character.
func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
