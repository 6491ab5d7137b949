package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

func TestChartExtract(t *testing.T) {
	extract := func(t *testing.T, reply string) (*domain.ChartData, error) {
		t.Helper()
		llm := &mockLLM{completions: []domain.Completion{{Content: reply}}}
		return NewChartExtractor(llm, nil, nil, 0).Extract(context.Background(), "Revenue was 100 in 2025 and 140 in 2026.")
	}

	t.Run("valid chart data", func(t *testing.T) {
		chart, err := extract(t, `{"title": "Revenue", "labels": ["2025", "2026"], "values": [100, 140], "type": "line"}`)
		require.NoError(t, err)
		require.NotNil(t, chart)
		assert.Equal(t, "Revenue", chart.Title)
		assert.Equal(t, []string{"2025", "2026"}, chart.Labels)
		assert.Equal(t, []float64{100, 140}, chart.Values)
		assert.Equal(t, domain.ChartTypeLine, chart.Type)
	})

	t.Run("fenced JSON is unwrapped", func(t *testing.T) {
		chart, err := extract(t, "```json\n{\"title\": \"Revenue\", \"labels\": [\"a\"], \"values\": [1], \"type\": \"pie\"}\n```")
		require.NoError(t, err)
		require.NotNil(t, chart)
		assert.Equal(t, domain.ChartTypePie, chart.Type)
	})

	t.Run("empty object means no chart", func(t *testing.T) {
		chart, err := extract(t, "{}")
		require.NoError(t, err)
		assert.Nil(t, chart)
	})

	t.Run("malformed JSON wraps ErrModelInvocation", func(t *testing.T) {
		_, err := extract(t, "Here is the chart you asked for.")
		assert.ErrorIs(t, err, domain.ErrModelInvocation)
	})

	t.Run("mismatched labels and values wrap ErrModelInvocation", func(t *testing.T) {
		_, err := extract(t, `{"title": "x", "labels": ["a", "b"], "values": [1], "type": "bar"}`)
		assert.ErrorIs(t, err, domain.ErrModelInvocation)
	})

	t.Run("unknown chart type wraps ErrModelInvocation", func(t *testing.T) {
		_, err := extract(t, `{"title": "x", "labels": ["a"], "values": [1], "type": "scatter"}`)
		assert.ErrorIs(t, err, domain.ErrModelInvocation)
	})
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain fence", "```\n{}\n```", "{}"},
		{"surrounding whitespace", "  \n{}\n  ", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.in))
		})
	}
}
