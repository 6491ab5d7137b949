package cli

import (
	"context"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

// setupTestServices installs mock services and a fresh session, returning a
// cleanup that restores the previous wiring.
func setupTestServices() func() {
	oldResearch := researchService
	oldMarket := marketService
	oldChat := chatService
	oldHistory := historyService
	oldSession := activeSession

	researchService = &mockResearchService{}
	marketService = &mockMarketService{}
	chatService = &mockChatService{}
	historyService = &mockHistoryService{}
	activeSession = domain.NewSession()

	return func() {
		researchService = oldResearch
		marketService = oldMarket
		chatService = oldChat
		historyService = oldHistory
		activeSession = oldSession
	}
}

// mockResearchService implements driving.ResearchService for command tests.
type mockResearchService struct {
	report   *domain.Report
	document *domain.Document
	err      error

	gotTopic string
	gotPath  string
}

func (m *mockResearchService) Research(_ context.Context, session *domain.Session, topic string) (*domain.Report, error) {
	m.gotTopic = topic
	if m.err != nil {
		return nil, m.err
	}
	session.ReplaceIndex(stubIndex(3), topic)
	if m.report == nil {
		return &domain.Report{ID: "rep-test", Topic: topic, Type: domain.ReportTypeAcademic, Content: "# Report"}, nil
	}
	return m.report, nil
}

func (m *mockResearchService) IngestPDF(_ context.Context, session *domain.Session, path string) (*domain.Document, error) {
	m.gotPath = path
	if m.err != nil {
		return nil, m.err
	}
	session.ReplaceIndex(stubIndex(3), "paper")
	if m.document == nil {
		return &domain.Document{ID: "doc-test", Title: "paper"}, nil
	}
	return m.document, nil
}

// mockMarketService implements driving.MarketService for command tests.
type mockMarketService struct {
	report *domain.Report
	err    error
}

func (m *mockMarketService) Report(_ context.Context, session *domain.Session, topic string) (*domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	session.ReplaceIndex(stubIndex(3), topic)
	if m.report == nil {
		return &domain.Report{ID: "rep-market", Topic: topic, Type: domain.ReportTypeMarket, Content: "# Market"}, nil
	}
	return m.report, nil
}

// mockChatService implements driving.ChatService for command tests.
type mockChatService struct {
	answer string
	err    error
}

func (m *mockChatService) Ask(_ context.Context, session *domain.Session, question string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if !session.HasIndex() {
		return "", domain.ErrNoSession
	}
	if m.answer == "" {
		return "mock answer", nil
	}
	return m.answer, nil
}

// mockHistoryService implements driving.HistoryService for command tests.
type mockHistoryService struct {
	reports []domain.Report
	usage   domain.TokenUsage
	err     error
}

func (m *mockHistoryService) History(_ context.Context, limit int) ([]domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && limit < len(m.reports) {
		return m.reports[:limit], nil
	}
	return m.reports, nil
}

func (m *mockHistoryService) Usage(_ context.Context) (domain.TokenUsage, error) {
	if m.err != nil {
		return domain.TokenUsage{}, m.err
	}
	return m.usage, nil
}

// stubIndex satisfies domain.Index for session state in tests.
type stubIndex int

func (s stubIndex) Len() int { return int(s) }
