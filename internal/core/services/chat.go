package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/livingcool/researchfirm/internal/core/domain"
	"github.com/livingcool/researchfirm/internal/core/ports/driven"
	"github.com/livingcool/researchfirm/internal/core/ports/driving"
	"github.com/livingcool/researchfirm/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// DefaultRetrievalK is how many chunks are retrieved per question.
const DefaultRetrievalK = 4

// ChatService answers follow-up questions grounded in the session's active
// index. One question means one retrieval and one model call; the session's
// conversation grows only when the call succeeds.
type ChatService struct {
	embedder driven.EmbeddingService
	llm      driven.LLMService
	prompts  driven.PromptStore
	usage    driven.UsageStore
	k        int
}

// NewChatService creates a chat service. The embedder must be the same
// instance used to build session indexes. k <= 0 selects the default.
func NewChatService(embedder driven.EmbeddingService, llm driven.LLMService, prompts driven.PromptStore, usage driven.UsageStore, k int) *ChatService {
	if k <= 0 {
		k = DefaultRetrievalK
	}
	return &ChatService{
		embedder: embedder,
		llm:      llm,
		prompts:  prompts,
		usage:    usage,
		k:        k,
	}
}

// Ask retrieves relevant chunks and produces a grounded answer.
func (s *ChatService) Ask(ctx context.Context, session *domain.Session, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if !session.HasIndex() {
		return "", domain.ErrNoSession
	}

	logger.Section("Grounded Chat")
	logger.Debug("Question: %q", question)

	chunks, err := s.retrieve(ctx, session, question)
	if err != nil {
		return "", err
	}
	logger.Debug("Retrieved %d chunks", len(chunks))

	contextBlock := composeContext(chunks)
	systemPrompt := loadPrompt(s.prompts, driven.PromptChatSystem, defaultChatSystemPrompt)

	messages := make([]driven.ChatMessage, 0, len(session.Messages())+2)
	messages = append(messages, driven.ChatMessage{
		Role:    "system",
		Content: systemPrompt + "\n\nContext:\n" + contextBlock,
	})
	for _, msg := range session.Messages() {
		messages = append(messages, driven.ChatMessage{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, driven.ChatMessage{Role: domain.RoleUser, Content: question})

	completion, err := s.llm.Chat(ctx, messages, driven.ChatOptions{Temperature: 0.7})
	if err != nil {
		return "", fmt.Errorf("answer question: %w", err)
	}

	logUsage(ctx, s.usage, s.llm.ModelName(), completion.Usage)
	session.Append(question, completion.Content)
	return completion.Content, nil
}

// retrieve embeds the question and searches the session's index. An empty
// index is a soft state: retrieval over it returns no chunks, not an error.
func (s *ChatService) retrieve(ctx context.Context, session *domain.Session, question string) ([]domain.Chunk, error) {
	idx, ok := session.ActiveIndex().(driven.VectorIndex)
	if !ok {
		return nil, domain.ErrNoSession
	}
	if idx.Len() == 0 {
		return nil, nil
	}

	query, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embed question: %w", domain.ErrEmbeddingUnavailable, err)
	}

	hits, err := idx.Search(ctx, query, s.k)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	chunks := make([]domain.Chunk, len(hits))
	for i, hit := range hits {
		chunks[i] = hit.Chunk
		logger.Debug("Hit %d: position=%d score=%.4f", i, hit.Chunk.Position, hit.Score)
	}
	return chunks, nil
}

// composeContext joins retrieved chunk texts in relevance order. Zero
// chunks yield an empty block; the model is still called so the user gets
// an answer rather than an error.
func composeContext(chunks []domain.Chunk) string {
	if len(chunks) == 0 {
		return ""
	}
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Text
	}
	return strings.Join(parts, "\n\n")
}
