package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.pdf]",
	Short: "Ingest a local PDF for chat",
	Long: `Extracts the text of a local PDF, chunks and embeds it, and makes it
the active context for follow-up questions. Replaces any previously
ingested content.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	if researchService == nil {
		return errors.New("research service not configured")
	}

	doc, err := researchService.IngestPDF(cmd.Context(), activeSession, path)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %q (%d chunks indexed).\n", doc.Title, activeSession.ActiveIndex().Len())
	cmd.Println("Ask follow-up questions with 'researchfirm chat'.")
	return nil
}
