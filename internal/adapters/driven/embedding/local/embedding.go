// Package local provides a self-contained embedding service that runs
// entirely in-process. Texts are mapped to fixed-width vectors with a
// signed hashing trick over token unigrams and bigrams, then L2-normalised.
//
// The model is deterministic: the same text always yields the same vector,
// with no network dependency and no corpus fitting step. That makes the
// build-time and query-time transformations identical by construction.
package local

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"github.com/livingcool/researchfirm/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions matches the width of the small sentence-transformer
// models this embedder stands in for.
const DefaultDimensions = 384

// ModelName identifies this embedder and its feature scheme. Bump the
// version when the tokenisation or hashing changes: vectors from different
// versions are not comparable.
const ModelName = "hashed-ngram-v1"

// Config holds configuration for the local embedding service.
type Config struct {
	// Dimensions is the embedding vector size (default: 384).
	Dimensions int
}

// EmbeddingService generates embeddings with token feature hashing.
type EmbeddingService struct {
	dimensions   int
	tokenPattern *regexp.Regexp
}

// NewEmbeddingService creates a new local embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}

	return &EmbeddingService{
		dimensions:   cfg.Dimensions,
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}]+`),
	}
}

// Embed generates a vector embedding for the given text.
// Text with no recognisable tokens yields the zero vector.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, s.dimensions)

	tokens := s.tokenize(text)
	for i, tok := range tokens {
		s.addFeature(vec, tok)
		if i+1 < len(tokens) {
			s.addFeature(vec, tok+" "+tokens[i+1])
		}
	}

	normalize(vec)
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts, order-preserving.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// addFeature hashes a feature into a bucket with a sign bit, the usual
// hashing-trick construction to keep collisions unbiased.
func (s *EmbeddingService) addFeature(vec []float32, feature string) {
	h := fnv.New32a()
	h.Write([]byte(feature))
	sum := h.Sum32()

	bucket := int(sum % uint32(s.dimensions))
	if sum&0x80000000 != 0 {
		vec[bucket]--
	} else {
		vec[bucket]++
	}
}

func (s *EmbeddingService) tokenize(text string) []string {
	return s.tokenPattern.FindAllString(strings.ToLower(text), -1)
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
