package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from user-editable files with embedded
// defaults as fallback.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptPaperSelect asks the model to pick the most relevant paper.
	// The template expects %s (topic) and %s (candidate list) placeholders.
	PromptPaperSelect = "paper_select"

	// PromptPresentation produces the structured paper summary.
	// The template expects a %s placeholder for the paper text.
	PromptPresentation = "presentation"

	// PromptMarketReport produces the market intelligence report.
	// The template expects %s (topic) and %s (article context) placeholders.
	PromptMarketReport = "market_report"

	// PromptChartExtract asks for strict-JSON chart data.
	// The template expects a %s placeholder for the source text.
	PromptChartExtract = "chart_extract"

	// PromptChatSystem is the system prompt for grounded chat.
	// This prompt has no format placeholders.
	PromptChatSystem = "chat_system"
)
