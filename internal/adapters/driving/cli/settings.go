package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/livingcool/researchfirm/internal/core/ports/driven"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure models, chunking and retrieval options.

Settings live in ~/.researchfirm/config.toml and can also be edited there
directly. The Groq API key is read from the GROQ_API_KEY environment
variable first, falling back to the stored value.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show a single setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a setting",
	Long: `Set a configuration value. Integer values are stored as integers.

Common keys:
  groq.model                    - chat model name
  embedding.model               - embedding model ("local" or an Ollama model)
  splitter.chunk_size           - chunk size in characters
  splitter.overlap              - chunk overlap in characters
  chat.retrieval_k              - chunks retrieved per question`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store the Groq API key",
	Long:  `Prompts for the Groq API key without echoing it and stores it in the config file.`,
	RunE:  runSettingsSetKey,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	keys := configStore.Keys()
	if len(keys) == 0 {
		cmd.Println("No settings stored yet. Use 'researchfirm settings set' or 'set-key'.")
		return nil
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	for _, key := range keys {
		value, _ := configStore.Get(key)
		cmd.Printf("  %s = %s\n", key, displayValue(key, value))
	}
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	value, ok := configStore.Get(key)
	if !ok {
		return fmt.Errorf("key %q is not set", key)
	}

	cmd.Printf("%s = %s\n", key, displayValue(key, value))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]

	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = n
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	cmd.Printf("Set %s = %s\n", key, displayValue(key, value))
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Print("Enter Groq API key: ")
	apiKey := readPassword()
	cmd.Println()
	if apiKey == "" {
		return errors.New("no API key entered")
	}

	if err := configStore.Set(driven.KeyGroqAPIKey, apiKey); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}

	cmd.Printf("API key stored (%s).\n", maskAPIKey(apiKey))
	return nil
}

// Helper functions.

func displayValue(key string, value any) string {
	s := fmt.Sprintf("%v", value)
	if key == driven.KeyGroqAPIKey {
		return maskAPIKey(s)
	}
	return s
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read the key without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
