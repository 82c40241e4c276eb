package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test resolveVaultToken function
func TestResolveVaultToken(t *testing.T) {
	t.Run("token from config", func(t *testing.T) {
		config := VaultConfig{
			Token: "direct-token",
		}

		token, err := resolveVaultToken(config)
		assert.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("token from file", func(t *testing.T) {
		// Create temporary token file
		tmpDir := t.TempDir()
		tokenFile := filepath.Join(tmpDir, "vault-token")
		err := os.WriteFile(tokenFile, []byte("  file-token  \n"), 0600)
		require.NoError(t, err)

		config := VaultConfig{
			TokenFile: tokenFile,
		}

		token, err := resolveVaultToken(config)
		assert.NoError(t, err)
		assert.Equal(t, "file-token", token) // Should be trimmed
	})

	t.Run("config token wins over file", func(t *testing.T) {
		tmpDir := t.TempDir()
		tokenFile := filepath.Join(tmpDir, "vault-token")
		err := os.WriteFile(tokenFile, []byte("file-token"), 0600)
		require.NoError(t, err)

		config := VaultConfig{
			Token:     "direct-token",
			TokenFile: tokenFile,
		}

		token, err := resolveVaultToken(config)
		assert.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("missing token file", func(t *testing.T) {
		config := VaultConfig{
			TokenFile: "/nonexistent/token/file",
		}

		_, err := resolveVaultToken(config)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Failed to read Vault token file")
	})

	t.Run("token from environment", func(t *testing.T) {
		t.Setenv("VAULT_TOKEN", "env-token")

		config := VaultConfig{}

		token, err := resolveVaultToken(config)
		assert.NoError(t, err)
		assert.Equal(t, "env-token", token)
	})

	t.Run("no token provided", func(t *testing.T) {
		t.Setenv("VAULT_TOKEN", "")

		config := VaultConfig{}

		_, err := resolveVaultToken(config)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "No Vault token available")
	})
}

// Test extractSecretVersion function
func TestExtractSecretVersion(t *testing.T) {
	tests := []struct {
		name        string
		raw         map[string]any
		expected    int64
		expectError bool
	}{
		{
			name: "json.Number version",
			raw: map[string]any{
				"metadata": map[string]any{
					"version": json.Number("42"),
				},
			},
			expected: 42,
		},
		{
			name: "int64 version",
			raw: map[string]any{
				"metadata": map[string]any{
					"version": int64(7),
				},
			},
			expected: 7,
		},
		{
			name: "int version",
			raw: map[string]any{
				"metadata": map[string]any{
					"version": 3,
				},
			},
			expected: 3,
		},
		{
			name: "float64 version",
			raw: map[string]any{
				"metadata": map[string]any{
					"version": float64(12),
				},
			},
			expected: 12,
		},
		{
			name: "unparseable json.Number",
			raw: map[string]any{
				"metadata": map[string]any{
					"version": json.Number("not-a-number"),
				},
			},
			expectError: true,
		},
		{
			name: "missing metadata",
			raw: map[string]any{
				"data": map[string]any{},
			},
			expectError: true,
		},
		{
			name: "missing version field",
			raw: map[string]any{
				"metadata": map[string]any{
					"other": "value",
				},
			},
			expectError: true,
		},
		{
			name: "unsupported version type",
			raw: map[string]any{
				"metadata": map[string]any{
					"version": "42",
				},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, err := extractSecretVersion(tt.raw, "secret/data/test")

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, version)
			}
		})
	}
}

// GetSecretV2 on a nil client must fail cleanly instead of panicking;
// the certificate watcher calls it through an interface value.
func TestGetSecretV2NilClient(t *testing.T) {
	var vc *VaultClient

	secret, err := vc.GetSecretV2("secret/data/tls")
	assert.Error(t, err)
	assert.Nil(t, secret)
	assert.Contains(t, err.Error(), "Vault client not initialized")
}

// Test ApplyVaultSecrets function with disabled vault
func TestApplyVaultSecretsDisabled(t *testing.T) {
	config := &Config{
		Vault: VaultConfig{
			Enabled: false,
		},
	}

	err := ApplyVaultSecrets(config, nil)
	assert.NoError(t, err)
	assert.Empty(t, config.AI.APIKey)
	assert.Empty(t, config.Server.APIKeys)
}

// Vault enabled without an address must fail before any network call.
func TestApplyVaultSecretsMissingAddress(t *testing.T) {
	config := &Config{
		Vault: VaultConfig{
			Enabled: true,
		},
	}

	err := ApplyVaultSecrets(config, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Vault address is required")
}
