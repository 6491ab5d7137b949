package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

var askFile string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question over ingested content",
	Long: `Answers a single question grounded in the active context.

Use --file to ingest a local PDF first, making it the context for the
question. Without it the question runs against whatever was ingested
earlier in this process.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askFile, "file", "f", "", "PDF to ingest before asking")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if chatService == nil {
		return errors.New("chat service not configured")
	}

	if askFile != "" {
		if researchService == nil {
			return errors.New("research service not configured")
		}
		if _, err := researchService.IngestPDF(cmd.Context(), activeSession, askFile); err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
	}

	answer, err := chatService.Ask(cmd.Context(), activeSession, question)
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			return errors.New("nothing ingested yet: run 'research', 'market' or 'ingest' first, or pass --file")
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer)
	return nil
}
