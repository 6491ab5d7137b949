package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/livingcool/researchfirm/internal/adapters/driven/embedding/local"
	"github.com/livingcool/researchfirm/internal/core/domain"
)

func TestBuild(t *testing.T) {
	builder := NewBuilder(local.NewEmbeddingService(local.Config{}))

	t.Run("empty chunk list yields valid empty index", func(t *testing.T) {
		idx, err := builder.Build(context.Background(), nil)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if idx.Len() != 0 {
			t.Errorf("Len() = %d, want 0", idx.Len())
		}

		hits, err := idx.Search(context.Background(), make([]float32, local.DefaultDimensions), 4)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(hits) != 0 {
			t.Errorf("Search() returned %d hits, want 0", len(hits))
		}
	})

	t.Run("indexes every chunk", func(t *testing.T) {
		chunks := []domain.Chunk{
			{Text: "transformer attention mechanisms", Position: 0},
			{Text: "convolutional image classification", Position: 1},
			{Text: "reinforcement learning agents", Position: 2},
		}
		idx, err := builder.Build(context.Background(), chunks)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if idx.Len() != len(chunks) {
			t.Errorf("Len() = %d, want %d", idx.Len(), len(chunks))
		}
		if idx.Dimensions() != local.DefaultDimensions {
			t.Errorf("Dimensions() = %d, want %d", idx.Dimensions(), local.DefaultDimensions)
		}
	})

	t.Run("embedding failure aborts the build", func(t *testing.T) {
		failing := NewBuilder(&failingEmbedder{})
		_, err := failing.Build(context.Background(), []domain.Chunk{{Text: "anything"}})
		if err == nil {
			t.Fatal("Build() error = nil, want error")
		}
		if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
			t.Errorf("error %v does not wrap ErrEmbeddingUnavailable", err)
		}
	})
}

func TestSearch(t *testing.T) {
	embedder := local.NewEmbeddingService(local.Config{})
	builder := NewBuilder(embedder)

	chunks := []domain.Chunk{
		{Text: "the stock market rallied on strong earnings reports", Position: 0},
		{Text: "neural networks learn hierarchical feature representations", Position: 1},
		{Text: "market volatility and stock earnings drive investor sentiment", Position: 2},
	}
	idx, err := builder.Build(context.Background(), chunks)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	embed := func(t *testing.T, text string) []float32 {
		t.Helper()
		vec, err := embedder.Embed(context.Background(), text)
		if err != nil {
			t.Fatalf("Embed() error = %v", err)
		}
		return vec
	}

	t.Run("ranks related chunks first", func(t *testing.T) {
		hits, err := idx.Search(context.Background(), embed(t, "stock market earnings"), 3)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(hits) != 3 {
			t.Fatalf("Search() returned %d hits, want 3", len(hits))
		}
		if hits[2].Chunk.Position != 1 {
			t.Errorf("least relevant hit has position %d, want 1 (the unrelated chunk)", hits[2].Chunk.Position)
		}
		for i := 1; i < len(hits); i++ {
			if hits[i].Score > hits[i-1].Score {
				t.Errorf("hits out of order: score[%d]=%f > score[%d]=%f", i, hits[i].Score, i-1, hits[i-1].Score)
			}
		}
	})

	t.Run("caps results at index size", func(t *testing.T) {
		hits, err := idx.Search(context.Background(), embed(t, "market"), 10)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(hits) != len(chunks) {
			t.Errorf("Search() returned %d hits, want %d", len(hits), len(chunks))
		}
	})

	t.Run("non-positive k returns nothing", func(t *testing.T) {
		hits, err := idx.Search(context.Background(), embed(t, "market"), 0)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(hits) != 0 {
			t.Errorf("Search() returned %d hits, want 0", len(hits))
		}
	})

	t.Run("rejects mismatched query dimensions", func(t *testing.T) {
		_, err := idx.Search(context.Background(), []float32{1, 2, 3}, 4)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("error %v does not wrap ErrInvalidInput", err)
		}
	})

	t.Run("breaks score ties by ascending position", func(t *testing.T) {
		dup := []domain.Chunk{
			{Text: "identical text", Position: 3},
			{Text: "identical text", Position: 0},
			{Text: "identical text", Position: 1},
		}
		dupIdx, err := builder.Build(context.Background(), dup)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		hits, err := dupIdx.Search(context.Background(), embed(t, "identical text"), 3)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		want := []int{0, 1, 3}
		for i, w := range want {
			if hits[i].Chunk.Position != w {
				t.Errorf("hits[%d].Position = %d, want %d", i, hits[i].Chunk.Position, w)
			}
		}
	})
}

// failingEmbedder always errors, for exercising the build failure path.
type failingEmbedder struct{}

func (f *failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("embedder offline")
}

func (f *failingEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("embedder offline")
}

func (f *failingEmbedder) Dimensions() int   { return 4 }
func (f *failingEmbedder) ModelName() string { return "failing" }
func (f *failingEmbedder) Close() error      { return nil }
