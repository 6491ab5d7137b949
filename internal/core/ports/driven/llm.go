package driven

import (
	"context"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

// LLMService provides language model operations for report generation and
// grounded question answering. The core is a caller of this service, never
// an implementer: summarisation, paper ranking and chart extraction are all
// plain prompt calls through this port.
//
// Implementations may include:
//   - Groq (llama-3.3-70b-versatile, OpenAI-compatible API)
//   - Any OpenAI-compatible endpoint via base URL override
type LLMService interface {
	// Generate produces a completion from a single prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (domain.Completion, error)

	// Chat conducts a multi-turn conversation.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (domain.Completion, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
