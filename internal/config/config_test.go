package config

import (
	"testing"
	"time"

	"jobfit/internal/matching"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a minimal configuration that passes Validate.
func validConfig() Config {
	return Config{
		AI: AIConfig{
			Provider: "gemini",
		},
		Embedding: EmbeddingConfig{
			Provider: "gemini",
		},
		Scoring: matching.Weights{
			FuzzyThreshold:   0.8,
			SimilarityWeight: 0.35,
			ComponentWeight:  0.45,
		},
		App: AppConfig{
			LogLevel: "info",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid config",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.App.LogLevel = "verbose" },
			expectError: true,
			errorMsg:    "invalid log level: verbose",
		},
		{
			name:        "unsupported AI provider",
			mutate:      func(c *Config) { c.AI.Provider = "openai" },
			expectError: true,
			errorMsg:    "unsupported AI provider: openai",
		},
		{
			name:        "unsupported embedding provider",
			mutate:      func(c *Config) { c.Embedding.Provider = "local" },
			expectError: true,
			errorMsg:    "unsupported embedding provider: local",
		},
		{
			name:        "similarity weight above range",
			mutate:      func(c *Config) { c.Scoring.SimilarityWeight = 1.5 },
			expectError: true,
			errorMsg:    "scoring.similarityWeight must be in [0,1]",
		},
		{
			name:        "component weight negative",
			mutate:      func(c *Config) { c.Scoring.ComponentWeight = -0.1 },
			expectError: true,
			errorMsg:    "scoring.componentWeight must be in [0,1]",
		},
		{
			name:        "fuzzy threshold zero",
			mutate:      func(c *Config) { c.Scoring.FuzzyThreshold = 0 },
			expectError: true,
			errorMsg:    "scoring.fuzzyThreshold must be in (0,1]",
		},
		{
			name: "invalid TLS propagates",
			mutate: func(c *Config) {
				c.Server.TLS.Mode = "server"
			},
			expectError: true,
			errorMsg:    "server TLS mode requires certFile and keyFile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetExplainConfigFallbacks(t *testing.T) {
	globalTimeout := 60 * time.Second
	cfg := validConfig()
	cfg.AI.Model = "gemini-2.0-flash"
	cfg.AI.Timeout = globalTimeout
	cfg.AI.APIKey = "global-key"
	cfg.AI.MaxRetries = 3
	cfg.AI.Temperature = 0.7

	t.Run("empty operation inherits globals", func(t *testing.T) {
		opCfg := cfg.GetExplainConfig()

		assert.Equal(t, "gemini", opCfg.Provider)
		assert.Equal(t, "gemini-2.0-flash", opCfg.Model)
		assert.Equal(t, "global-key", opCfg.APIKey)
		require.NotNil(t, opCfg.Timeout)
		assert.Equal(t, globalTimeout, *opCfg.Timeout)
		require.NotNil(t, opCfg.MaxRetries)
		assert.Equal(t, 3, *opCfg.MaxRetries)
		require.NotNil(t, opCfg.Temperature)
		assert.InDelta(t, 0.7, float64(*opCfg.Temperature), 0.001)
	})

	t.Run("operation overrides win", func(t *testing.T) {
		opTimeout := 45 * time.Second
		opTemperature := float32(0.4)
		cfg.AI.Explain = OperationAIConfig{
			Model:       "gemini-2.5-pro",
			Timeout:     &opTimeout,
			Temperature: &opTemperature,
		}

		opCfg := cfg.GetExplainConfig()

		assert.Equal(t, "gemini-2.5-pro", opCfg.Model)
		assert.Equal(t, opTimeout, *opCfg.Timeout)
		assert.InDelta(t, 0.4, float64(*opCfg.Temperature), 0.001)
		// Unset fields still inherit
		assert.Equal(t, "global-key", opCfg.APIKey)
	})
}

func TestGetEmbeddingConfigAPIKeyFallback(t *testing.T) {
	cfg := validConfig()
	cfg.AI.APIKey = "global-key"

	t.Run("falls back to AI key", func(t *testing.T) {
		embeddingCfg := cfg.GetEmbeddingConfig()
		assert.Equal(t, "global-key", embeddingCfg.APIKey)
	})

	t.Run("own key wins", func(t *testing.T) {
		cfg.Embedding.APIKey = "embedding-key"
		embeddingCfg := cfg.GetEmbeddingConfig()
		assert.Equal(t, "embedding-key", embeddingCfg.APIKey)
	})
}

func TestApplyServerAPIKeyFallbacks(t *testing.T) {
	t.Run("env keys used when config empty", func(t *testing.T) {
		t.Setenv("JOBFIT_SERVER_APIKEYS", "key-one, key-two ,key-three")

		cfg := validConfig()
		cfg.applyFallbacks()

		assert.Equal(t, []string{"key-one", "key-two", "key-three"}, cfg.Server.APIKeys)
	})

	t.Run("config keys win over env", func(t *testing.T) {
		t.Setenv("JOBFIT_SERVER_APIKEYS", "env-key")

		cfg := validConfig()
		cfg.Server.APIKeys = []string{"config-key"}
		cfg.applyFallbacks()

		assert.Equal(t, []string{"config-key"}, cfg.Server.APIKeys)
	})
}

func TestApplyTLSDefaults(t *testing.T) {
	t.Run("mutual mode defaults client auth policy", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.TLS.Mode = "mutual"
		cfg.applyFallbacks()

		assert.Equal(t, "require", cfg.Server.TLS.ClientAuthPolicy)
		assert.Equal(t, "1.2", cfg.Server.TLS.MinVersion)
	})

	t.Run("disabled mode gets no min version", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.TLS.Mode = "disabled"
		cfg.applyFallbacks()

		assert.Empty(t, cfg.Server.TLS.MinVersion)
	})
}
