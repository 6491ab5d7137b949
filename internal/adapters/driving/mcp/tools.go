package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

// ResearchInput is the input schema for the research tool.
type ResearchInput struct {
	Topic string `json:"topic" jsonschema:"the academic topic to research"`
}

// MarketInput is the input schema for the market_report tool.
type MarketInput struct {
	Topic string `json:"topic" jsonschema:"the market topic to report on"`
}

// ReportOutput is the output schema shared by the report-producing tools.
type ReportOutput struct {
	ReportID string       `json:"report_id"`
	Topic    string       `json:"topic"`
	Type     string       `json:"type"`
	Content  string       `json:"content"`
	Chart    *ChartOutput `json:"chart,omitempty"`
}

// ChartOutput carries extracted chart data.
type ChartOutput struct {
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Type   string    `json:"type"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"a question about the last researched topic"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer string `json:"answer"`
	Topic  string `json:"topic,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "research",
		Description: "Research an academic topic: fetch and summarise the most relevant arXiv paper",
	}, s.handleResearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "market_report",
		Description: "Generate a market intelligence report from recent news",
	}, s.handleMarketReport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a follow-up question grounded in the last researched content",
	}, s.handleAsk)
}

// handleResearch handles the research tool invocation.
func (s *Server) handleResearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ResearchInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.ports.Research.Research(ctx, s.session, input.Topic)
	if err != nil {
		return nil, ReportOutput{}, err
	}

	return nil, reportOutput(report), nil
}

// handleMarketReport handles the market_report tool invocation.
func (s *Server) handleMarketReport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MarketInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.ports.Market.Report(ctx, s.session, input.Topic)
	if err != nil {
		return nil, ReportOutput{}, err
	}

	return nil, reportOutput(report), nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	answer, err := s.ports.Chat.Ask(ctx, s.session, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{Answer: answer, Topic: s.session.Topic}, nil
}

func reportOutput(report *domain.Report) ReportOutput {
	out := ReportOutput{
		ReportID: report.ID,
		Topic:    report.Topic,
		Type:     string(report.Type),
		Content:  report.Content,
	}
	if report.Chart != nil {
		out.Chart = &ChartOutput{
			Title:  report.Chart.Title,
			Labels: report.Chart.Labels,
			Values: report.Chart.Values,
			Type:   string(report.Chart.Type),
		}
	}
	return out
}
