package services

import (
	"context"
	"fmt"

	"github.com/livingcool/researchfirm/internal/core/domain"
	"github.com/livingcool/researchfirm/internal/core/ports/driven"
	"github.com/livingcool/researchfirm/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService exposes the report archive and accumulated token spend.
// Both stores may be nil, in which case results are simply empty.
type HistoryService struct {
	reports driven.ReportStore
	usage   driven.UsageStore
}

// NewHistoryService creates a history service over the given stores.
func NewHistoryService(reports driven.ReportStore, usage driven.UsageStore) *HistoryService {
	return &HistoryService{
		reports: reports,
		usage:   usage,
	}
}

// History returns up to limit saved reports, newest first.
func (s *HistoryService) History(ctx context.Context, limit int) ([]domain.Report, error) {
	if s.reports == nil {
		return nil, nil
	}
	reports, err := s.reports.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// Usage returns accumulated token usage across all recorded model calls.
func (s *HistoryService) Usage(ctx context.Context) (domain.TokenUsage, error) {
	if s.usage == nil {
		return domain.TokenUsage{}, nil
	}
	totals, err := s.usage.Totals(ctx)
	if err != nil {
		return domain.TokenUsage{}, fmt.Errorf("usage totals: %w", err)
	}
	return totals, nil
}
