package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved reports",
	RunE:  runHistory,
}

var historyUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show accumulated token usage",
	RunE:  runHistoryUsage,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of reports")
	historyCmd.AddCommand(historyUsageCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	reports, err := historyService.History(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if len(reports) == 0 {
		cmd.Println("No reports yet.")
		return nil
	}

	cmd.Println("Reports:")
	cmd.Println()
	for i := range reports {
		r := &reports[i]
		cmd.Printf("  [%s] %s (%s)\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Topic, r.Type)
		cmd.Printf("      ID: %s\n", r.ID)
		if r.Chart != nil {
			cmd.Printf("      Chart: %s\n", r.Chart.Title)
		}
		cmd.Println()
	}
	return nil
}

func runHistoryUsage(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	usage, err := historyService.Usage(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read usage: %w", err)
	}

	cmd.Println("Token usage:")
	cmd.Printf("  Prompt:     %d\n", usage.PromptTokens)
	cmd.Printf("  Completion: %d\n", usage.CompletionTokens)
	cmd.Printf("  Total:      %d\n", usage.Total())
	return nil
}
