package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The default implementation is a local deterministic model so that index
// builds and query embedding never depend on the network. One instance is
// shared by the build path and the query path: both sides of retrieval must
// apply the exact same transformation, and sharing the instance makes the
// symmetry structural rather than a convention.
//
// Implementations may include:
//   - Local hashed-feature model (default, 384 dimensions)
//   - Ollama (all-minilm, nomic-embed-text)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, one vector per
	// input, order-preserving.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
