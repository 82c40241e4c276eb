package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"jobfit/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultClient wraps the Vault API client for secret retrieval
type VaultClient struct {
	client *api.Client
	logger *errors.Logger
}

// NewVaultClient creates and authenticates a Vault client
func NewVaultClient(config VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if config.Address == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"Vault address is required when Vault is enabled", nil)
	}

	apiConfig := api.DefaultConfig()
	apiConfig.Address = config.Address

	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"Failed to create Vault client", err)
	}

	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	token, err := resolveVaultToken(config)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	if logger != nil {
		logger.Debug("Vault client initialized", "address", config.Address)
	}

	return &VaultClient{client: client, logger: logger}, nil
}

// resolveVaultToken resolves the token from config, token file, or the
// VAULT_TOKEN environment variable, in that order.
func resolveVaultToken(config VaultConfig) (string, error) {
	if config.Token != "" {
		return config.Token, nil
	}
	if config.TokenFile != "" {
		data, err := os.ReadFile(config.TokenFile)
		if err != nil {
			return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("Failed to read Vault token file: %s", config.TokenFile), err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if token := os.Getenv("VAULT_TOKEN"); token != "" {
		return token, nil
	}
	return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
		"No Vault token available (set vault.token, vault.tokenFile, or VAULT_TOKEN)", nil)
}

// readSecretData reads a KV v2 secret and returns its data map.
func (vc *VaultClient) readSecretData(path string) (map[string]any, error) {
	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeNetworkTimeout,
			fmt.Sprintf("Failed to read Vault secret: %s", path), err)
	}
	if secret == nil || secret.Data == nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Vault secret not found: %s", path), nil)
	}

	// KV v2 nests the payload under "data"
	if data, ok := secret.Data["data"].(map[string]any); ok {
		return data, nil
	}
	return secret.Data, nil
}

// VaultSecret represents a secret read from Vault's KV v2 engine,
// including the version number used for change detection.
type VaultSecret struct {
	Data    map[string]any
	Version int64
}

// GetSecretV2 retrieves a secret with its version from a KV v2 store
func (vc *VaultClient) GetSecretV2(path string) (*VaultSecret, error) {
	if vc == nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"Vault client not initialized", nil)
	}

	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeNetworkTimeout,
			fmt.Sprintf("Failed to read Vault secret: %s", path), err)
	}
	if secret == nil || secret.Data == nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Vault secret not found: %s", path), nil)
	}

	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Vault secret %s is not in KV v2 format", path), nil)
	}

	version, err := extractSecretVersion(secret.Data, path)
	if err != nil {
		return nil, err
	}

	return &VaultSecret{Data: data, Version: version}, nil
}

// extractSecretVersion parses the KV v2 metadata version, which arrives
// as json.Number over the wire but may be a plain number in tests.
func extractSecretVersion(raw map[string]any, path string) (int64, error) {
	metadata, ok := raw["metadata"].(map[string]any)
	if !ok {
		return 0, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Vault secret %s has no KV v2 metadata", path), nil)
	}

	switch v := metadata["version"].(type) {
	case json.Number:
		version, err := v.Int64()
		if err != nil {
			return 0, errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("Vault secret %s has unparseable version", path), err)
		}
		return version, nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Vault secret %s has no version field", path), nil)
	}
}

// GetStringSecret reads one string value from a KV v2 secret
func (vc *VaultClient) GetStringSecret(path, key string) (string, error) {
	data, err := vc.readSecretData(path)
	if err != nil {
		return "", err
	}
	value, ok := data[key].(string)
	if !ok {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Vault secret %s has no string value for key %s", path, key), nil)
	}
	return value, nil
}

// GetStringSliceSecret reads a comma-separated or list value from a KV
// v2 secret
func (vc *VaultClient) GetStringSliceSecret(path, key string) ([]string, error) {
	data, err := vc.readSecretData(path)
	if err != nil {
		return nil, err
	}
	switch value := data[key].(type) {
	case string:
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Vault secret %s has unexpected type for key %s", path, key), nil)
	}
}

// ApplyVaultSecrets overlays Vault-held secrets onto the configuration.
// Vault values take precedence over everything else; individual secret
// paths are optional and skipped when unset.
func ApplyVaultSecrets(config *Config, logger *errors.Logger) error {
	if !config.Vault.Enabled {
		return nil
	}

	client, err := NewVaultClient(config.Vault, logger)
	if err != nil {
		return err
	}

	if path := config.Vault.Secrets.GeminiKey; path != "" {
		key, err := client.GetStringSecret(path, "apiKey")
		if err != nil {
			return err
		}
		config.AI.APIKey = key
		config.Embedding.APIKey = key
		if logger != nil {
			logger.Info("Loaded Gemini API key from Vault", "path", path)
		}
	}

	if path := config.Vault.Secrets.APIKeys; path != "" {
		keys, err := client.GetStringSliceSecret(path, "keys")
		if err != nil {
			return err
		}
		config.Server.APIKeys = keys
		if logger != nil {
			logger.Info("Loaded server API keys from Vault", "path", path, "count", len(keys))
		}
	}

	if path := config.Vault.Secrets.TLSCerts; path != "" {
		data, err := client.readSecretData(path)
		if err != nil {
			return err
		}
		if cert, ok := data["certificate"].(string); ok {
			config.Server.TLS.CertContent = cert
		}
		if key, ok := data["privateKey"].(string); ok {
			config.Server.TLS.KeyContent = key
		}
		if ca, ok := data["caCertificate"].(string); ok {
			config.Server.TLS.CAContent = ca
		}
		if logger != nil {
			logger.Info("Loaded TLS certificate content from Vault", "path", path)
		}
	}

	return nil
}
