package embedding

import (
	"context"
	"math"
	"sort"
	"strings"

	"jobfit/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// NeutralSimilarity substitutes for the real similarity when the
	// embedding provider is unreachable or misconfigured.
	NeutralSimilarity = 0.5

	// maxChunkChars bounds each embedding request below the provider's
	// input limit. Chunks break on sentence boundaries, never mid
	// sentence.
	maxChunkChars = 7000

	// sigmoidSteepness controls the centered-sigmoid rescale that
	// expands mid-range discrimination of raw cosine scores.
	sigmoidSteepness = 12.0

	maxWeight  = 0.7
	topKWeight = 0.3
	topK       = 3
)

// SimilarityProvider computes a rescaled embedding similarity between
// two texts through an external Embedder.
type SimilarityProvider struct {
	embedder Embedder
	logger   *errors.Logger
}

// NewSimilarityProvider wires a provider around an embedder.
func NewSimilarityProvider(embedder Embedder, logger *errors.Logger) *SimilarityProvider {
	return &SimilarityProvider{embedder: embedder, logger: logger}
}

// CalculateSimilarity returns a similarity in [0,1] between two texts.
// Both texts are chunked, embedded, compared pairwise across the full
// chunk cross-product, blended (max plus top-3 mean) and remapped
// through a centered sigmoid. Provider failure degrades to
// NeutralSimilarity instead of failing the caller.
func (sp *SimilarityProvider) CalculateSimilarity(ctx context.Context, text1, text2 string) float64 {
	tracer := otel.Tracer("jobfit.embedding")
	ctx, span := tracer.Start(ctx, "embedding.similarity")
	defer span.End()

	chunks1 := ChunkText(text1, maxChunkChars)
	chunks2 := ChunkText(text2, maxChunkChars)
	span.SetAttributes(
		attribute.Int("embedding.chunks_left", len(chunks1)),
		attribute.Int("embedding.chunks_right", len(chunks2)),
	)
	if len(chunks1) == 0 || len(chunks2) == 0 {
		return NeutralSimilarity
	}

	vectors, err := sp.embedder.Embed(ctx, append(append([]string{}, chunks1...), chunks2...))
	if err != nil {
		span.RecordError(err)
		if sp.logger != nil {
			sp.logger.Warn("Embedding call failed, using neutral similarity",
				"error", err.Error())
		}
		return NeutralSimilarity
	}
	if len(vectors) != len(chunks1)+len(chunks2) {
		if sp.logger != nil {
			sp.logger.Warn("Embedding provider returned unexpected vector count",
				"want", len(chunks1)+len(chunks2), "got", len(vectors))
		}
		return NeutralSimilarity
	}

	left := vectors[:len(chunks1)]
	right := vectors[len(chunks1):]

	pairwise := make([]float64, 0, len(left)*len(right))
	for _, a := range left {
		for _, b := range right {
			pairwise = append(pairwise, CosineSimilarity(a, b))
		}
	}

	raw := blendPairwise(pairwise)
	rescaled := RescaleSimilarity(raw)
	span.SetAttributes(
		attribute.Float64("embedding.raw_similarity", raw),
		attribute.Float64("embedding.similarity", rescaled),
	)
	return rescaled
}

// NeutralSimilarityCalculator always reports NeutralSimilarity. It
// stands in for the real provider when no embedder can be constructed.
type NeutralSimilarityCalculator struct{}

// CalculateSimilarity returns NeutralSimilarity for every input pair.
func (NeutralSimilarityCalculator) CalculateSimilarity(ctx context.Context, text1, text2 string) float64 {
	return NeutralSimilarity
}

// blendPairwise combines pairwise cosine scores: the best pair carries
// most of the weight, the mean of the top 3 stabilizes against a single
// lucky chunk.
func blendPairwise(pairwise []float64) float64 {
	if len(pairwise) == 0 {
		return 0
	}
	sorted := make([]float64, len(pairwise))
	copy(sorted, pairwise)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	k := topK
	if len(sorted) < k {
		k = len(sorted)
	}
	var topSum float64
	for _, v := range sorted[:k] {
		topSum += v
	}
	return maxWeight*sorted[0] + topKWeight*(topSum/float64(k))
}

// CosineSimilarity computes the cosine of the angle between two
// vectors, in [-1,1]. Mismatched or zero vectors yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// RescaleSimilarity maps a raw cosine score from [-1,1] to [0,1]
// through a sigmoid centered at 0.5 of the shifted range. The sigmoid
// compresses the extremes and stretches the crowded middle where
// real-world embedding scores cluster; the output is renormalized so
// the mapping spans the full [0,1].
func RescaleSimilarity(raw float64) float64 {
	shifted := (raw + 1) / 2

	sig := func(x float64) float64 {
		return 1 / (1 + math.Exp(-sigmoidSteepness*(x-0.5)))
	}
	lo, hi := sig(0), sig(1)
	return (sig(shifted) - lo) / (hi - lo)
}

// ChunkText splits text into chunks of at most limit characters,
// breaking on sentence boundaries. A single sentence longer than the
// limit becomes its own oversized chunk rather than being split
// mid-sentence.
func ChunkText(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= limit {
		return []string{text}
	}

	sentences := splitSentences(text)
	var chunks []string
	var current strings.Builder
	for _, s := range sentences {
		if current.Len() > 0 && current.Len()+len(s)+1 > limit {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(s)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}

// splitSentences breaks text after '.', '!', '?' or newlines, keeping
// the terminator with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '.' || c == '!' || c == '?' || c == '\n' {
			// Consume trailing run of terminators.
			for i+1 < len(text) && (text[i+1] == '.' || text[i+1] == '!' || text[i+1] == '?' || text[i+1] == '\n') {
				i++
			}
			s := strings.TrimSpace(text[start : i+1])
			if s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
