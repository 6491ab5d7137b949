package mcp

import (
	"context"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

// mockResearchService implements driving.ResearchService for testing.
type mockResearchService struct {
	report   *domain.Report
	document *domain.Document
	err      error

	gotTopic string
}

func (m *mockResearchService) Research(_ context.Context, session *domain.Session, topic string) (*domain.Report, error) {
	m.gotTopic = topic
	if m.err != nil {
		return nil, m.err
	}
	session.ReplaceIndex(fakeIndex{}, topic)
	if m.report == nil {
		return &domain.Report{}, nil
	}
	return m.report, nil
}

func (m *mockResearchService) IngestPDF(_ context.Context, _ *domain.Session, _ string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.document, nil
}

// mockMarketService implements driving.MarketService for testing.
type mockMarketService struct {
	report *domain.Report
	err    error
}

func (m *mockMarketService) Report(_ context.Context, session *domain.Session, topic string) (*domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	session.ReplaceIndex(fakeIndex{}, topic)
	if m.report == nil {
		return &domain.Report{}, nil
	}
	return m.report, nil
}

// mockChatService implements driving.ChatService for testing.
type mockChatService struct {
	answer string
	err    error

	gotQuestion string
}

func (m *mockChatService) Ask(_ context.Context, _ *domain.Session, question string) (string, error) {
	m.gotQuestion = question
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

// fakeIndex satisfies domain.Index for session state in tests.
type fakeIndex struct{}

func (fakeIndex) Len() int { return 1 }

func validPorts() *Ports {
	return &Ports{
		Research: &mockResearchService{},
		Market:   &mockMarketService{},
		Chat:     &mockChatService{},
	}
}
