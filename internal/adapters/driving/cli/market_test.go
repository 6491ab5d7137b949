package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

func TestMarketCmd_Use(t *testing.T) {
	assert.Equal(t, "market [topic]", marketCmd.Use)
}

func TestMarketCmd_ExecutesWithTopic(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"market", "electric vehicles"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "# Market")
	assert.Contains(t, buf.String(), "Report rep-market saved")
}

func TestMarketCmd_PrintsChart(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	marketService = &mockMarketService{
		report: &domain.Report{
			ID:      "rep-chart",
			Type:    domain.ReportTypeMarket,
			Content: "# Market",
			Chart: &domain.ChartData{
				Title:  "Market Share",
				Labels: []string{"Tesla", "BYD"},
				Values: []float64{55.5, 44.5},
				Type:   domain.ChartTypePie,
			},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"market", "EV makers"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Chart: Market Share (pie)")
	assert.Contains(t, buf.String(), "Tesla")
	assert.Contains(t, buf.String(), "55.50")
}

func TestMarketCmd_NoArticlesIsNotAnError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	marketService = &mockMarketService{err: domain.ErrNoArticles}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"market", "obscurity"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No usable news articles")
}

func TestMarketCmd_ServiceNotConfigured(t *testing.T) {
	oldService := marketService
	marketService = nil
	defer func() {
		marketService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"market", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "market service not configured")
}
