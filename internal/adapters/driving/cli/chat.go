package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/livingcool/researchfirm/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat interface",
	Long: `Launch the interactive terminal interface for research and chat.

Type a question to get an answer grounded in the ingested content, or use
slash commands to bring content in:

  /research <topic>   research an academic topic and ingest the paper
  /market <topic>     generate a market report and ingest it
  /ingest <file.pdf>  ingest a local PDF
  /reset              clear the session
  /help               show all commands

Esc or Ctrl+C quits.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Surface panics with a stack trace instead of a corrupted terminal
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if chatService == nil {
		return errors.New("chat service not configured")
	}

	ports := &tui.Ports{
		Chat:     chatService,
		Research: researchService,
		Market:   marketService,
	}

	app, err := tui.NewApp(ports, activeSession)
	if err != nil {
		return fmt.Errorf("failed to create chat UI: %w", err)
	}

	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}

	return nil
}
