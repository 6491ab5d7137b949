package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

var testArticles = []domain.Article{
	{Title: "EV sales surge", URL: "http://news.example/ev-sales", Source: "Example News", Date: "2026-08-28"},
	{Title: "Battery costs fall", URL: "http://news.example/batteries", Source: "Example Wire", Date: "2026-08-27"},
}

func newMarketService(news *mockNewsSource, extractor *mockExtractor, llm *mockLLM, charts *ChartExtractor, reports *mockReportStore, usage *mockUsageStore) *MarketService {
	svc := NewMarketService(news, extractor, llm, nil, charts, nil, nil, newTestIngestor(), MarketConfig{})
	if reports != nil {
		svc.reports = reports
	}
	if usage != nil {
		svc.usage = usage
	}
	return svc
}

func TestMarketReport(t *testing.T) {
	t.Run("full flow with chart extraction", func(t *testing.T) {
		news := &mockNewsSource{articles: testArticles}
		extractor := &mockExtractor{bodies: map[string]string{
			"http://news.example/ev-sales":  "Electric vehicle sales rose 40% year over year.",
			"http://news.example/batteries": "Battery pack prices dropped to $80 per kWh.",
		}}
		llm := &mockLLM{completions: []domain.Completion{
			{Content: "## Executive Summary\nEV demand is strong.\n## Key Trends\n...", Usage: domain.TokenUsage{PromptTokens: 600, CompletionTokens: 200}},
			{Content: `{"title": "EV sales growth", "labels": ["2025", "2026"], "values": [100, 140], "type": "bar"}`},
		}}
		reports := &mockReportStore{}
		usage := &mockUsageStore{}
		charts := NewChartExtractor(llm, nil, usage, 0)
		svc := newMarketService(news, extractor, llm, charts, reports, usage)

		session := domain.NewSession()
		report, err := svc.Report(context.Background(), session, "electric vehicles")
		require.NoError(t, err)

		assert.Equal(t, domain.ReportTypeMarket, report.Type)
		assert.Contains(t, report.Content, "Executive Summary")
		require.NotNil(t, report.Chart)
		assert.Equal(t, "EV sales growth", report.Chart.Title)
		assert.Equal(t, domain.ChartTypeBar, report.Chart.Type)

		// Report ingested for follow-up chat, persisted, usage logged twice.
		assert.True(t, session.HasIndex())
		assert.Equal(t, "electric vehicles", session.Topic)
		require.Len(t, reports.saved, 1)
		assert.NotNil(t, reports.saved[0].Chart)
		assert.Len(t, usage.logged, 2)

		// Prompt context carries both articles.
		require.NotEmpty(t, llm.prompts)
		assert.Contains(t, llm.prompts[0], "Example News")
		assert.Contains(t, llm.prompts[0], "Battery pack prices")
	})

	t.Run("extraction failures skip articles softly", func(t *testing.T) {
		news := &mockNewsSource{articles: testArticles}
		extractor := &mockExtractor{
			bodies: map[string]string{"http://news.example/batteries": "Battery prices fell."},
			errs:   map[string]error{"http://news.example/ev-sales": errors.New("paywall")},
		}
		llm := &mockLLM{completions: []domain.Completion{{Content: "## Executive Summary\n..."}}}
		svc := newMarketService(news, extractor, llm, nil, nil, nil)

		report, err := svc.Report(context.Background(), domain.NewSession(), "electric vehicles")
		require.NoError(t, err)
		assert.NotContains(t, llm.prompts[0], "ev-sales")
		assert.Contains(t, llm.prompts[0], "Battery prices fell")
		assert.Nil(t, report.Chart)
	})

	t.Run("no articles found", func(t *testing.T) {
		svc := newMarketService(&mockNewsSource{}, &mockExtractor{}, &mockLLM{}, nil, nil, nil)
		_, err := svc.Report(context.Background(), domain.NewSession(), "nothing newsworthy")
		assert.ErrorIs(t, err, domain.ErrNoArticles)
	})

	t.Run("all extractions failing is ErrNoArticles", func(t *testing.T) {
		news := &mockNewsSource{articles: testArticles}
		extractor := &mockExtractor{errs: map[string]error{
			"http://news.example/ev-sales":  errors.New("timeout"),
			"http://news.example/batteries": errors.New("timeout"),
		}}
		svc := newMarketService(news, extractor, &mockLLM{}, nil, nil, nil)
		_, err := svc.Report(context.Background(), domain.NewSession(), "electric vehicles")
		assert.ErrorIs(t, err, domain.ErrNoArticles)
	})

	t.Run("chart failure is soft", func(t *testing.T) {
		news := &mockNewsSource{articles: testArticles[:1]}
		extractor := &mockExtractor{bodies: map[string]string{"http://news.example/ev-sales": "EV sales data."}}
		llm := &mockLLM{completions: []domain.Completion{
			{Content: "## Executive Summary\n..."},
			{Content: "not json at all"},
		}}
		charts := NewChartExtractor(llm, nil, nil, 0)
		svc := newMarketService(news, extractor, llm, charts, nil, nil)

		report, err := svc.Report(context.Background(), domain.NewSession(), "electric vehicles")
		require.NoError(t, err)
		assert.Nil(t, report.Chart)
	})

	t.Run("long article bodies are capped in the prompt", func(t *testing.T) {
		long := strings.Repeat("x", 5000)
		news := &mockNewsSource{articles: testArticles[:1]}
		extractor := &mockExtractor{bodies: map[string]string{"http://news.example/ev-sales": long}}
		llm := &mockLLM{completions: []domain.Completion{{Content: "## Executive Summary\n..."}}}
		svc := newMarketService(news, extractor, llm, nil, nil, nil)

		_, err := svc.Report(context.Background(), domain.NewSession(), "electric vehicles")
		require.NoError(t, err)
		assert.NotContains(t, llm.prompts[0], strings.Repeat("x", DefaultArticleInputLimit+1))
	})
}
