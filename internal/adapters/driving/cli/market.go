package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

var marketJSON bool

var marketCmd = &cobra.Command{
	Use:   "market [topic]",
	Short: "Generate a market intelligence report",
	Long: `Searches recent news for the topic and generates a market
intelligence report. Numerical data found in the report is extracted as
chart data. The report is ingested for follow-up questions.`,
	Args: cobra.ExactArgs(1),
	RunE: runMarket,
}

func init() {
	marketCmd.Flags().BoolVar(&marketJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(marketCmd)
}

func runMarket(cmd *cobra.Command, args []string) error {
	topic := args[0]

	if marketService == nil {
		return errors.New("market service not configured")
	}

	report, err := marketService.Report(cmd.Context(), activeSession, topic)
	if err != nil {
		if errors.Is(err, domain.ErrNoArticles) {
			cmd.Printf("No usable news articles found for %q.\n", topic)
			return nil
		}
		return fmt.Errorf("market report failed: %w", err)
	}

	if marketJSON {
		return outputReportJSON(cmd, report)
	}

	outputReport(cmd, report)
	if report.Chart != nil {
		outputChart(cmd, report.Chart)
	}
	cmd.Println("Ask follow-up questions with 'researchfirm chat'.")
	return nil
}

func outputChart(cmd *cobra.Command, chart *domain.ChartData) {
	cmd.Printf("Chart: %s (%s)\n", chart.Title, chart.Type)
	for i := range chart.Labels {
		cmd.Printf("  %-24s %10.2f\n", chart.Labels[i], chart.Values[i])
	}
	cmd.Println()
}
