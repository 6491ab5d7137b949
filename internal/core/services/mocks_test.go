package services

import (
	"context"
	"fmt"

	"github.com/livingcool/researchfirm/internal/core/domain"
	"github.com/livingcool/researchfirm/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLLM implements driven.LLMService for testing. It replays canned
// completions in order and records every prompt it receives.
type mockLLM struct {
	completions []domain.Completion
	err         error
	calls       int
	prompts     []string
	chats       [][]driven.ChatMessage
}

func (m *mockLLM) next() (domain.Completion, error) {
	if m.err != nil {
		return domain.Completion{}, m.err
	}
	if m.calls >= len(m.completions) {
		return domain.Completion{}, fmt.Errorf("mockLLM: unexpected call %d", m.calls)
	}
	c := m.completions[m.calls]
	m.calls++
	return c, nil
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (domain.Completion, error) {
	m.prompts = append(m.prompts, prompt)
	return m.next()
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (domain.Completion, error) {
	m.chats = append(m.chats, messages)
	return m.next()
}

func (m *mockLLM) ModelName() string            { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockPaperSource implements driven.PaperSource for testing.
type mockPaperSource struct {
	papers    []domain.Paper
	searchErr error
	pdf       []byte
	fetchErr  error
	fetchedID string
}

func (m *mockPaperSource) Search(_ context.Context, _ string, max int) ([]domain.Paper, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if max < len(m.papers) {
		return m.papers[:max], nil
	}
	return m.papers, nil
}

func (m *mockPaperSource) FetchPDF(_ context.Context, id string) ([]byte, error) {
	m.fetchedID = id
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.pdf, nil
}

// mockNewsSource implements driven.NewsSource for testing.
type mockNewsSource struct {
	articles []domain.Article
	err      error
}

func (m *mockNewsSource) Search(_ context.Context, _ string, max int) ([]domain.Article, error) {
	if m.err != nil {
		return nil, m.err
	}
	if max < len(m.articles) {
		return m.articles[:max], nil
	}
	return m.articles, nil
}

// mockExtractor implements driven.ArticleExtractor for testing.
type mockExtractor struct {
	bodies map[string]string
	errs   map[string]error
}

func (m *mockExtractor) Extract(_ context.Context, url string) (string, error) {
	if err, ok := m.errs[url]; ok {
		return "", err
	}
	return m.bodies[url], nil
}

// mockNormaliser implements driven.Normaliser for testing. It treats the
// raw bytes as plain text.
type mockNormaliser struct {
	err error
}

func (m *mockNormaliser) Normalise(_ context.Context, name string, raw []byte) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Document{
		ID:      name,
		Title:   name,
		Content: string(raw),
	}, nil
}

// mockReportStore implements driven.ReportStore for testing.
type mockReportStore struct {
	saved   []domain.Report
	saveErr error
	listErr error
}

func (m *mockReportStore) Save(_ context.Context, report domain.Report) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, report)
	return nil
}

func (m *mockReportStore) Get(_ context.Context, id string) (*domain.Report, error) {
	for i := range m.saved {
		if m.saved[i].ID == id {
			return &m.saved[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockReportStore) List(_ context.Context, limit int) ([]domain.Report, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit > 0 && limit < len(m.saved) {
		return m.saved[:limit], nil
	}
	return m.saved, nil
}

// mockUsageStore implements driven.UsageStore for testing.
type mockUsageStore struct {
	logged []domain.TokenUsage
	logErr error
}

func (m *mockUsageStore) Log(_ context.Context, _ string, usage domain.TokenUsage) error {
	if m.logErr != nil {
		return m.logErr
	}
	m.logged = append(m.logged, usage)
	return nil
}

func (m *mockUsageStore) Totals(_ context.Context) (domain.TokenUsage, error) {
	var total domain.TokenUsage
	for _, u := range m.logged {
		total.PromptTokens += u.PromptTokens
		total.CompletionTokens += u.CompletionTokens
	}
	return total, nil
}
