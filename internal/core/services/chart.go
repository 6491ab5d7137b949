package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/livingcool/researchfirm/internal/core/domain"
	"github.com/livingcool/researchfirm/internal/core/ports/driven"
	"github.com/livingcool/researchfirm/internal/logger"
)

// DefaultChartInputLimit caps how much report text is sent to the model
// for chart extraction.
const DefaultChartInputLimit = 4000

// ChartExtractor pulls chart-worthy numbers out of generated report text.
// The model's output is validated here, at the boundary, before any
// ChartData is allowed to propagate inward.
type ChartExtractor struct {
	llm        driven.LLMService
	prompts    driven.PromptStore
	usage      driven.UsageStore
	inputLimit int
}

// NewChartExtractor creates a chart extractor. inputLimit <= 0 selects the
// default.
func NewChartExtractor(llm driven.LLMService, prompts driven.PromptStore, usage driven.UsageStore, inputLimit int) *ChartExtractor {
	if inputLimit <= 0 {
		inputLimit = DefaultChartInputLimit
	}
	return &ChartExtractor{
		llm:        llm,
		prompts:    prompts,
		usage:      usage,
		inputLimit: inputLimit,
	}
}

// Extract asks the model for strict-JSON chart data over the first part of
// text. A result of (nil, nil) means the text holds nothing worth charting,
// which the model signals with an empty JSON object. Malformed model output
// is an error wrapping domain.ErrModelInvocation.
func (e *ChartExtractor) Extract(ctx context.Context, text string) (*domain.ChartData, error) {
	template := loadPrompt(e.prompts, driven.PromptChartExtract, defaultChartExtractPrompt)
	prompt := fmt.Sprintf(template, truncateRunes(text, e.inputLimit))

	completion, err := e.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   500,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("chart extraction: %w", err)
	}
	logUsage(ctx, e.usage, e.llm.ModelName(), completion.Usage)

	raw := stripFences(completion.Content)
	logger.Debug("Chart extraction raw output: %q", raw)

	var chart domain.ChartData
	if err := json.Unmarshal([]byte(raw), &chart); err != nil {
		return nil, fmt.Errorf("%w: chart data is not valid JSON: %w", domain.ErrModelInvocation, err)
	}
	if chart.Empty() {
		return nil, nil
	}
	if err := chart.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrModelInvocation, err)
	}
	return &chart, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag. Models habitually wrap JSON in one despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
