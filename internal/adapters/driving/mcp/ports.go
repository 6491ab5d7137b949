package mcp

import (
	"github.com/livingcool/researchfirm/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Research runs the academic research flow.
	Research driving.ResearchService

	// Market runs the market intelligence flow.
	Market driving.MarketService

	// Chat answers grounded follow-up questions.
	Chat driving.ChatService

	// History lists saved reports. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Research == nil {
		return ErrMissingResearchService
	}
	if p.Market == nil {
		return ErrMissingMarketService
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
