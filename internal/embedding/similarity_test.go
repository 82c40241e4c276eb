package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"testing"

	"jobfit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := s.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 0, 0}
		}
	}
	return out, nil
}

var embTestLogger = errors.NewLogger(slog.LevelError)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := []float32{0.3, -0.2, 0.9, 0.1}
	b := []float32{-0.1, 0.4, 0.5, 0.8}
	assert.InDelta(t, CosineSimilarity(a, b), CosineSimilarity(b, a), 1e-12)
}

func TestRescaleSimilarity(t *testing.T) {
	// Endpoints span the full output range.
	assert.InDelta(t, 0.0, RescaleSimilarity(-1), 1e-9)
	assert.InDelta(t, 1.0, RescaleSimilarity(1), 1e-9)
	assert.InDelta(t, 0.5, RescaleSimilarity(0), 1e-9)

	// Strictly monotonic.
	prev := -1.0
	for raw := -1.0; raw <= 1.0; raw += 0.1 {
		v := RescaleSimilarity(raw)
		assert.Greater(t, v, prev, "rescale must increase at raw=%.1f", raw)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		prev = v
	}

	// The sigmoid stretches the middle: a small step near the center
	// moves the output more than the same step near the edge.
	centerDelta := RescaleSimilarity(0.1) - RescaleSimilarity(0)
	edgeDelta := RescaleSimilarity(0.99) - RescaleSimilarity(0.89)
	assert.Greater(t, centerDelta, edgeDelta)
}

func TestChunkText(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, ChunkText("", 100))
		assert.Nil(t, ChunkText("   ", 100))
	})

	t.Run("short text is one chunk", func(t *testing.T) {
		chunks := ChunkText("A short text.", 100)
		assert.Equal(t, []string{"A short text."}, chunks)
	})

	t.Run("breaks on sentence boundaries", func(t *testing.T) {
		text := "First sentence here. Second sentence here. Third sentence here."
		chunks := ChunkText(text, 45)
		require.Greater(t, len(chunks), 1)
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 45)
			assert.True(t, strings.HasSuffix(c, "."), "chunk should end at a sentence: %q", c)
		}
	})

	t.Run("oversized sentence stays whole", func(t *testing.T) {
		long := strings.Repeat("word ", 30) + "end."
		chunks := ChunkText(long+" Short one.", 50)
		require.NotEmpty(t, chunks)
		assert.Contains(t, chunks[0], "end.")
	})

	t.Run("no content lost", func(t *testing.T) {
		text := "Alpha beta gamma. Delta epsilon zeta! Eta theta iota? Kappa lambda."
		chunks := ChunkText(text, 25)
		joined := strings.Join(chunks, " ")
		for _, word := range strings.Fields(text) {
			assert.Contains(t, joined, strings.Trim(word, ".!?"))
		}
	})
}

func TestCalculateSimilarityIdenticalTexts(t *testing.T) {
	stub := &stubEmbedder{vectors: map[string][]float32{
		"The same text.": {0.2, 0.5, 0.8},
	}}
	sp := NewSimilarityProvider(stub, embTestLogger)

	got := sp.CalculateSimilarity(context.Background(), "The same text.", "The same text.")
	assert.InDelta(t, 1.0, got, 1e-6, "identical embeddings rescale to 1")
	assert.Equal(t, 1, stub.calls, "both texts embed in one batched call")
}

func TestCalculateSimilarityOrthogonalTexts(t *testing.T) {
	stub := &stubEmbedder{vectors: map[string][]float32{
		"Left text.":  {1, 0, 0},
		"Right text.": {0, 1, 0},
	}}
	sp := NewSimilarityProvider(stub, embTestLogger)

	got := sp.CalculateSimilarity(context.Background(), "Left text.", "Right text.")
	assert.InDelta(t, 0.5, got, 1e-6, "orthogonal vectors land at the sigmoid center")
}

func TestCalculateSimilaritySymmetric(t *testing.T) {
	stub := &stubEmbedder{vectors: map[string][]float32{
		"Backend Go services.": {0.9, 0.1, 0.3},
		"Frontend React apps.": {0.2, 0.8, 0.1},
	}}
	sp := NewSimilarityProvider(stub, embTestLogger)

	ab := sp.CalculateSimilarity(context.Background(), "Backend Go services.", "Frontend React apps.")
	ba := sp.CalculateSimilarity(context.Background(), "Frontend React apps.", "Backend Go services.")
	assert.InDelta(t, ab, ba, 1e-9)
}

func TestCalculateSimilarityFallsBackOnError(t *testing.T) {
	stub := &stubEmbedder{err: fmt.Errorf("embedding service down")}
	sp := NewSimilarityProvider(stub, embTestLogger)

	got := sp.CalculateSimilarity(context.Background(), "Some text.", "Other text.")
	assert.Equal(t, NeutralSimilarity, got)
}

func TestCalculateSimilarityEmptyTexts(t *testing.T) {
	stub := &stubEmbedder{}
	sp := NewSimilarityProvider(stub, embTestLogger)

	assert.Equal(t, NeutralSimilarity, sp.CalculateSimilarity(context.Background(), "", "something"))
	assert.Equal(t, NeutralSimilarity, sp.CalculateSimilarity(context.Background(), "something", ""))
	assert.Equal(t, 0, stub.calls, "empty input never reaches the embedder")
}

func TestCalculateSimilarityBounded(t *testing.T) {
	stub := &stubEmbedder{vectors: map[string][]float32{
		"A.": {0.5, -0.5, 0.5},
		"B.": {-0.5, 0.5, 0.5},
	}}
	sp := NewSimilarityProvider(stub, embTestLogger)

	got := sp.CalculateSimilarity(context.Background(), "A.", "B.")
	assert.False(t, math.IsNaN(got))
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 1.0)
}
