package embedding

import (
	"context"
	"fmt"

	"jobfit/internal/config"
	jobfitErrors "jobfit/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

// GeminiEmbedder implements Embedder on top of the Gemini embedding
// API.
type GeminiEmbedder struct {
	client  *genai.Client
	model   string
	breaker *gobreaker.CircuitBreaker[*genai.EmbedContentResponse]
	logger  *jobfitErrors.Logger
}

// Ensure GeminiEmbedder implements Embedder
var _ Embedder = (*GeminiEmbedder)(nil)

// NewGeminiEmbedder creates an embedder for the configured embedding
// model, with its own circuit breaker so a flapping embedding endpoint
// cannot take the generation breaker down with it.
func NewGeminiEmbedder(cfg *config.EmbeddingConfig, logger *jobfitErrors.Logger) (*GeminiEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, jobfitErrors.NewConfigError(jobfitErrors.ErrCodeMissingAPIKey,
			"Embedding provider requires an API key", nil)
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, jobfitErrors.NewEmbeddingError(jobfitErrors.ErrCodeEmbeddingFailed,
			"Failed to create Gemini embedding client", err)
	}

	var breaker *gobreaker.CircuitBreaker[*genai.EmbedContentResponse]
	if cfg.CircuitBreaker.Enabled {
		breaker = gobreaker.NewCircuitBreaker[*genai.EmbedContentResponse](gobreaker.Settings{
			Name:        "Embedding",
			MaxRequests: cfg.CircuitBreaker.MaxRequests,
			Interval:    cfg.CircuitBreaker.Interval,
			Timeout:     cfg.CircuitBreaker.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= cfg.CircuitBreaker.MinRequests &&
					failureRatio >= cfg.CircuitBreaker.FailureThreshold
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				if logger != nil {
					logger.Info("Circuit breaker state changed",
						"name", name,
						"from", from.String(),
						"to", to.String())
				}
			},
		})
	}

	return &GeminiEmbedder{
		client:  client,
		model:   cfg.Model,
		breaker: breaker,
		logger:  logger,
	}, nil
}

// Embed requests one vector per input text in a single batched call.
func (ge *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
	}

	call := func() (*genai.EmbedContentResponse, error) {
		return ge.client.Models.EmbedContent(ctx, ge.model, contents, &genai.EmbedContentConfig{})
	}

	var resp *genai.EmbedContentResponse
	var err error
	if ge.breaker != nil {
		resp, err = ge.breaker.Execute(call)
	} else {
		resp, err = call()
	}
	if err != nil {
		return nil, jobfitErrors.NewEmbeddingError(jobfitErrors.ErrCodeEmbeddingFailed,
			"Embedding request failed", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, jobfitErrors.NewEmbeddingError(jobfitErrors.ErrCodeEmbeddingFailed,
			fmt.Sprintf("Embedding provider returned %d vectors for %d inputs", len(resp.Embeddings), len(texts)), nil)
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		vectors[i] = e.Values
	}
	return vectors, nil
}

// BreakerHealthy reports whether the embedding breaker is closed.
func (ge *GeminiEmbedder) BreakerHealthy() bool {
	return ge.breaker == nil || ge.breaker.State() == gobreaker.StateClosed
}

// BreakerStats exposes breaker counters for the stats endpoint.
func (ge *GeminiEmbedder) BreakerStats() map[string]any {
	if ge.breaker == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    ge.breaker.Name(),
		"state":   ge.breaker.State().String(),
		"counts":  ge.breaker.Counts(),
		"enabled": true,
	}
}
