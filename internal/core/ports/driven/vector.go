package driven

import (
	"context"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

// VectorIndex stores (chunk, vector) pairs for one ingested document or
// report and answers nearest-neighbour queries. An index is built once and
// read-only afterwards; a new ingestion event builds a fresh index and the
// session discards the previous one wholesale.
type VectorIndex interface {
	domain.Index

	// Search finds the k nearest neighbours to the query vector, ordered by
	// descending similarity with ties broken by ascending chunk position.
	// It returns fewer than k hits when the index is smaller than k, and an
	// empty slice (never an error) on an empty index.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Dimensions returns the vector size every entry shares.
	Dimensions() int
}

// IndexBuilder constructs a VectorIndex from chunks by embedding them.
type IndexBuilder interface {
	// Build embeds all chunks and stores them. Zero chunks produce a valid
	// empty index. An embedding failure is fatal: the error wraps
	// domain.ErrEmbeddingUnavailable and no partial index is returned.
	Build(ctx context.Context, chunks []domain.Chunk) (VectorIndex, error)
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk.
	Chunk domain.Chunk

	// Score is the cosine similarity over L2-normalised vectors.
	Score float64
}
