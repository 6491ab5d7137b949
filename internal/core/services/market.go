package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/livingcool/researchfirm/internal/core/domain"
	"github.com/livingcool/researchfirm/internal/core/ports/driven"
	"github.com/livingcool/researchfirm/internal/core/ports/driving"
	"github.com/livingcool/researchfirm/internal/logger"
)

// Ensure MarketService implements the interface.
var _ driving.MarketService = (*MarketService)(nil)

// Default configuration values for the market flow.
const (
	DefaultNewsSearchMax     = 5
	DefaultArticleInputLimit = 2000
)

// MarketService runs the market intelligence flow: gather recent news,
// generate an analyst report with optional chart data, and make the report
// chattable.
type MarketService struct {
	news      driven.NewsSource
	extractor driven.ArticleExtractor
	llm       driven.LLMService
	prompts   driven.PromptStore
	charts    *ChartExtractor
	reports   driven.ReportStore
	usage     driven.UsageStore
	ingestor  *Ingestor

	searchMax    int
	articleLimit int
}

// MarketConfig holds optional tuning for the market flow.
// Zero values select the defaults.
type MarketConfig struct {
	// SearchMax is how many articles to fetch.
	SearchMax int

	// ArticleInputLimit caps each article's text in the prompt context.
	ArticleInputLimit int
}

// NewMarketService creates the market intelligence service.
// charts, reports and usage may be nil; chart extraction and persistence
// are then skipped.
func NewMarketService(
	news driven.NewsSource,
	extractor driven.ArticleExtractor,
	llm driven.LLMService,
	prompts driven.PromptStore,
	charts *ChartExtractor,
	reports driven.ReportStore,
	usage driven.UsageStore,
	ingestor *Ingestor,
	cfg MarketConfig,
) *MarketService {
	if cfg.SearchMax <= 0 {
		cfg.SearchMax = DefaultNewsSearchMax
	}
	if cfg.ArticleInputLimit <= 0 {
		cfg.ArticleInputLimit = DefaultArticleInputLimit
	}
	return &MarketService{
		news:         news,
		extractor:    extractor,
		llm:          llm,
		prompts:      prompts,
		charts:       charts,
		reports:      reports,
		usage:        usage,
		ingestor:     ingestor,
		searchMax:    cfg.SearchMax,
		articleLimit: cfg.ArticleInputLimit,
	}
}

// Report searches recent news, builds the analyst report and ingests it
// into the session for follow-up chat.
func (s *MarketService) Report(ctx context.Context, session *domain.Session, topic string) (*domain.Report, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: empty topic", domain.ErrInvalidInput)
	}

	logger.Section("Market Intelligence")
	logger.Debug("Topic: %q", topic)

	articles, err := s.news.Search(ctx, topic, s.searchMax)
	if err != nil {
		return nil, fmt.Errorf("search news: %w", err)
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("%w: topic %q", domain.ErrNoArticles, topic)
	}
	logger.Info("Found %d articles", len(articles))

	contextBlock := s.buildContext(ctx, articles)
	if contextBlock == "" {
		return nil, fmt.Errorf("%w: no article content could be extracted", domain.ErrNoArticles)
	}

	template := loadPrompt(s.prompts, driven.PromptMarketReport, defaultMarketReportPrompt)
	prompt := fmt.Sprintf(template, topic, contextBlock)

	completion, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{Temperature: 0.4})
	if err != nil {
		return nil, fmt.Errorf("generate market report: %w", err)
	}
	logUsage(ctx, s.usage, s.llm.ModelName(), completion.Usage)

	report := &domain.Report{
		ID:        uuid.NewString(),
		Topic:     topic,
		Type:      domain.ReportTypeMarket,
		Content:   completion.Content,
		Chart:     s.extractChart(ctx, completion.Content),
		CreatedAt: time.Now().UTC(),
	}
	saveReport(ctx, s.reports, report)

	if _, err := s.ingestor.Ingest(ctx, session, topic, report.Content); err != nil {
		return nil, fmt.Errorf("ingest report: %w", err)
	}

	return report, nil
}

// buildContext extracts each article's body and assembles the prompt
// context. Articles that cannot be extracted are skipped; each body is
// capped so one long article cannot crowd out the rest.
func (s *MarketService) buildContext(ctx context.Context, articles []domain.Article) string {
	var b strings.Builder
	for _, a := range articles {
		body, err := s.extractor.Extract(ctx, a.URL)
		if err != nil {
			logger.Warn("Skipping article %q: %v", a.URL, err)
			continue
		}
		body = strings.TrimSpace(body)
		if body == "" {
			logger.Warn("Skipping article %q: no extractable text", a.URL)
			continue
		}

		fmt.Fprintf(&b, "Source: %s\nTitle: %s\nDate: %s\n%s\n\n",
			a.Source, a.Title, a.Date, truncateRunes(body, s.articleLimit))
	}
	return strings.TrimSpace(b.String())
}

// extractChart runs chart extraction as a best effort. Any failure is
// logged and reported as "no chart".
func (s *MarketService) extractChart(ctx context.Context, content string) *domain.ChartData {
	if s.charts == nil {
		return nil
	}
	chart, err := s.charts.Extract(ctx, content)
	if err != nil {
		logger.Warn("Chart extraction failed: %v", err)
		return nil
	}
	return chart
}
