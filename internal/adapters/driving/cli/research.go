package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

var researchJSON bool

var researchCmd = &cobra.Command{
	Use:   "research [topic]",
	Short: "Research an academic topic",
	Long: `Searches arXiv for the topic, selects the most relevant paper,
summarises it into a structured report and ingests the full paper text
for follow-up questions.

The report is persisted and can be listed later with 'researchfirm history'.`,
	Args: cobra.ExactArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().BoolVar(&researchJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	topic := args[0]

	if researchService == nil {
		return errors.New("research service not configured")
	}

	report, err := researchService.Research(cmd.Context(), activeSession, topic)
	if err != nil {
		if errors.Is(err, domain.ErrNoPapers) {
			cmd.Printf("No papers found for %q.\n", topic)
			return nil
		}
		return fmt.Errorf("research failed: %w", err)
	}

	if researchJSON {
		return outputReportJSON(cmd, report)
	}

	outputReport(cmd, report)
	cmd.Println("Ask follow-up questions with 'researchfirm chat'.")
	return nil
}

func outputReportJSON(cmd *cobra.Command, report *domain.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputReport(cmd *cobra.Command, report *domain.Report) {
	cmd.Println(report.Content)
	cmd.Println()
	cmd.Printf("Report %s saved (%s).\n", report.ID, report.Type)
}
