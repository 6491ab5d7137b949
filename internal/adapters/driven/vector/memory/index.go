// Package memory provides an in-memory vector index with brute-force
// cosine similarity search. One index holds the chunks of exactly one
// ingested document or report; a new ingestion builds a fresh index and the
// session discards the old one wholesale, so there is no incremental
// insert or delete.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/livingcool/researchfirm/internal/core/domain"
	"github.com/livingcool/researchfirm/internal/core/ports/driven"
)

// Ensure interfaces are implemented.
var (
	_ driven.VectorIndex  = (*Index)(nil)
	_ driven.IndexBuilder = (*Builder)(nil)
)

// Builder constructs indexes with a shared embedding service.
// Using the same service instance for building and querying keeps the two
// transformations symmetric; retrieval quality silently degrades otherwise.
type Builder struct {
	embedder driven.EmbeddingService
}

// NewBuilder creates an index builder backed by the given embedder.
func NewBuilder(embedder driven.EmbeddingService) *Builder {
	return &Builder{embedder: embedder}
}

// Build embeds all chunks and stores them. Zero chunks produce a valid
// empty index; searching it returns no hits rather than an error. An
// embedding failure aborts the build: the error wraps
// domain.ErrEmbeddingUnavailable and no partial index is returned.
func (b *Builder) Build(ctx context.Context, chunks []domain.Chunk) (driven.VectorIndex, error) {
	idx := &Index{
		dimensions: b.embedder.Dimensions(),
	}
	if len(chunks) == 0 {
		return idx, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding %d chunks: %w", domain.ErrEmbeddingUnavailable, len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: expected %d vectors, got %d", domain.ErrEmbeddingUnavailable, len(chunks), len(vectors))
	}

	for i := range vectors {
		normalize(vectors[i])
	}

	idx.chunks = chunks
	idx.vectors = vectors
	return idx, nil
}

// Index is a read-only set of (chunk, vector) pairs. All vectors share the
// same dimensionality and are stored L2-normalised, so cosine similarity
// reduces to a dot product.
type Index struct {
	dimensions int
	chunks     []domain.Chunk
	vectors    [][]float32
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Dimensions returns the vector size every entry shares.
func (idx *Index) Dimensions() int {
	return idx.dimensions
}

// Search returns up to k nearest neighbours by cosine similarity, ordered
// by descending score. Equal scores are broken by ascending chunk position
// so results are deterministic. An empty index yields an empty slice.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 || len(idx.chunks) == 0 {
		return nil, nil
	}
	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", domain.ErrInvalidInput, len(query), idx.dimensions)
	}

	q := make([]float32, len(query))
	copy(q, query)
	normalize(q)

	hits := make([]driven.VectorHit, len(idx.chunks))
	for i, vec := range idx.vectors {
		hits[i] = driven.VectorHit{
			Chunk: idx.chunks[i],
			Score: dot(vec, q),
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].Chunk.Position < hits[b].Chunk.Position
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// normalize scales vec to unit length in place. The zero vector stays zero.
func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
