package cli

import (
	"github.com/spf13/cobra"

	"github.com/livingcool/researchfirm/internal/core/domain"
	"github.com/livingcool/researchfirm/internal/core/ports/driven"
	"github.com/livingcool/researchfirm/internal/core/ports/driving"
	"github.com/livingcool/researchfirm/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by the composition root before Execute.
var (
	researchService driving.ResearchService
	marketService   driving.MarketService
	chatService     driving.ChatService
	historyService  driving.HistoryService
	configStore     driven.ConfigStore
	promptStore     driven.PromptStore
)

// activeSession scopes ingested content and conversation to this process.
var activeSession = domain.NewSession()

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "researchfirm",
	Short: "LLM-powered research assistant",
	Long: `Researchfirm retrieves academic papers and market news, summarises
them into reports and answers follow-up questions grounded in the
ingested content.

Start with 'researchfirm research <topic>' or 'researchfirm market <topic>',
then switch to 'researchfirm chat' for an interactive session.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Services bundles everything the commands need.
type Services struct {
	Research driving.ResearchService
	Market   driving.MarketService
	Chat     driving.ChatService
	History  driving.HistoryService
	Config   driven.ConfigStore
	Prompts  driven.PromptStore
}

// SetServices wires the core services into the command tree.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	researchService = s.Research
	marketService = s.Market
	chatService = s.Chat
	historyService = s.History
	configStore = s.Config
	promptStore = s.Prompts
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}
