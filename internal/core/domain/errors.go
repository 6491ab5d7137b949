package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding model failed to load
	// or run. Index builds and retrieval fail hard on this; no partial
	// index is left in a usable state.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates no language model is configured.
	// Report generation and chat are disabled without one.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrModelInvocation indicates the language model call failed or
	// returned content that could not be parsed into the expected shape.
	// The conversation is left unmodified when this is returned.
	ErrModelInvocation = errors.New("model invocation failed")

	// ErrNoPapers indicates the paper search returned no candidates.
	ErrNoPapers = errors.New("no papers found")

	// ErrNoArticles indicates no usable news articles were found.
	ErrNoArticles = errors.New("no articles found")

	// ErrNoSession indicates an operation needs ingested content but the
	// session has none.
	ErrNoSession = errors.New("no active research session")
)
