package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/livingcool/researchfirm/internal/core/domain"
	"github.com/livingcool/researchfirm/internal/core/ports/driven"
	"github.com/livingcool/researchfirm/internal/core/ports/driving"
	"github.com/livingcool/researchfirm/internal/logger"
)

// Ensure ResearchService implements the interface.
var _ driving.ResearchService = (*ResearchService)(nil)

// Default configuration values for the academic flow.
const (
	DefaultPaperSearchMax    = 5
	DefaultSummaryInputLimit = 10000
)

// ResearchService runs the academic research flow: find papers, pick the
// most relevant one, summarise it, and make its full text chattable.
type ResearchService struct {
	papers     driven.PaperSource
	normaliser driven.Normaliser
	llm        driven.LLMService
	prompts    driven.PromptStore
	reports    driven.ReportStore
	usage      driven.UsageStore
	ingestor   *Ingestor

	searchMax    int
	summaryLimit int
}

// ResearchConfig holds optional tuning for the academic flow.
// Zero values select the defaults.
type ResearchConfig struct {
	// SearchMax is how many paper candidates to fetch.
	SearchMax int

	// SummaryInputLimit caps how much paper text feeds the summary prompt.
	SummaryInputLimit int
}

// NewResearchService creates the academic research service.
// reports and usage may be nil; persistence is then skipped.
func NewResearchService(
	papers driven.PaperSource,
	normaliser driven.Normaliser,
	llm driven.LLMService,
	prompts driven.PromptStore,
	reports driven.ReportStore,
	usage driven.UsageStore,
	ingestor *Ingestor,
	cfg ResearchConfig,
) *ResearchService {
	if cfg.SearchMax <= 0 {
		cfg.SearchMax = DefaultPaperSearchMax
	}
	if cfg.SummaryInputLimit <= 0 {
		cfg.SummaryInputLimit = DefaultSummaryInputLimit
	}
	return &ResearchService{
		papers:       papers,
		normaliser:   normaliser,
		llm:          llm,
		prompts:      prompts,
		reports:      reports,
		usage:        usage,
		ingestor:     ingestor,
		searchMax:    cfg.SearchMax,
		summaryLimit: cfg.SummaryInputLimit,
	}
}

// Research searches the archive, selects the best paper, summarises it into
// a report and ingests the full paper text for follow-up chat.
func (s *ResearchService) Research(ctx context.Context, session *domain.Session, topic string) (*domain.Report, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: empty topic", domain.ErrInvalidInput)
	}

	logger.Section("Academic Research")
	logger.Debug("Topic: %q", topic)

	papers, err := s.papers.Search(ctx, topic, s.searchMax)
	if err != nil {
		return nil, fmt.Errorf("search papers: %w", err)
	}
	if len(papers) == 0 {
		return nil, fmt.Errorf("%w: topic %q", domain.ErrNoPapers, topic)
	}
	logger.Info("Found %d candidate papers", len(papers))

	paper, err := s.selectPaper(ctx, topic, papers)
	if err != nil {
		return nil, err
	}
	logger.Info("Selected paper %s: %s", paper.ID, paper.Title)

	raw, err := s.papers.FetchPDF(ctx, paper.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch paper %s: %w", paper.ID, err)
	}
	logger.Debug("Downloaded %d bytes", len(raw))

	doc, err := s.normaliser.Normalise(ctx, paper.Title, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise paper %s: %w", paper.ID, err)
	}
	logger.Debug("Normalised to %d characters", len(doc.Content))

	content, err := s.summarise(ctx, paper, doc.Content)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		ID:        uuid.NewString(),
		Topic:     topic,
		Type:      domain.ReportTypeAcademic,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	saveReport(ctx, s.reports, report)

	if _, err := s.ingestor.Ingest(ctx, session, paper.Title, doc.Content); err != nil {
		return nil, fmt.Errorf("ingest paper: %w", err)
	}

	return report, nil
}

// IngestPDF normalises a local PDF file and ingests it into the session,
// without generating a report.
func (s *ResearchService) IngestPDF(ctx context.Context, session *domain.Session, path string) (*domain.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc, err := s.normaliser.Normalise(ctx, name, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", path, err)
	}

	if _, err := s.ingestor.Ingest(ctx, session, doc.Title, doc.Content); err != nil {
		return nil, fmt.Errorf("ingest %s: %w", path, err)
	}
	return doc, nil
}

// selectPaper asks the model to pick the most relevant candidate. The model
// is told to return only an ID; the reply is matched by substring against
// the candidates. An unrecognised reply falls back to the first candidate,
// which the backend already ordered by relevance.
func (s *ResearchService) selectPaper(ctx context.Context, topic string, papers []domain.Paper) (domain.Paper, error) {
	var list strings.Builder
	for _, p := range papers {
		fmt.Fprintf(&list, "ID: %s\nTitle: %s\nAbstract: %s\n\n", p.ID, p.Title, p.Abstract)
	}

	template := loadPrompt(s.prompts, driven.PromptPaperSelect, defaultPaperSelectPrompt)
	prompt := fmt.Sprintf(template, topic, list.String())

	completion, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   64,
		Temperature: 0,
	})
	if err != nil {
		return domain.Paper{}, fmt.Errorf("select paper: %w", err)
	}
	logUsage(ctx, s.usage, s.llm.ModelName(), completion.Usage)

	reply := strings.TrimSpace(completion.Content)
	for _, p := range papers {
		if strings.Contains(reply, p.ID) {
			return p, nil
		}
	}

	logger.Warn("Model reply %q matched no candidate ID, using the top result", reply)
	return papers[0], nil
}

// summarise generates the structured presentation summary over the opening
// portion of the paper text.
func (s *ResearchService) summarise(ctx context.Context, paper domain.Paper, text string) (string, error) {
	template := loadPrompt(s.prompts, driven.PromptPresentation, defaultPresentationPrompt)
	prompt := fmt.Sprintf(template, truncateRunes(text, s.summaryLimit))

	completion, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{Temperature: 0.3})
	if err != nil {
		return "", fmt.Errorf("summarise paper %s: %w", paper.ID, err)
	}
	logUsage(ctx, s.usage, s.llm.ModelName(), completion.Usage)
	return completion.Content, nil
}
