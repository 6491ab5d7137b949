// Package tui provides the interactive chat interface. It is a driving
// adapter: everything it does goes through the driving ports.
package tui

import (
	"github.com/livingcool/researchfirm/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces the TUI needs.
type Ports struct {
	// Chat answers grounded follow-up questions.
	Chat driving.ChatService

	// Research runs the academic research flow for /research.
	Research driving.ResearchService

	// Market runs the market intelligence flow for /market.
	Market driving.MarketService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Research == nil {
		return ErrMissingResearchService
	}
	if p.Market == nil {
		return ErrMissingMarketService
	}
	return nil
}
