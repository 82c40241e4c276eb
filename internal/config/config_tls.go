package config

import "fmt"

// ValidateTLSConfig validates the server TLS configuration for the
// configured mode.
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS
	if err := validateTLSMode(tls); err != nil {
		return err
	}

	switch tls.Mode {
	case "disabled":
		return nil
	case "server":
		return validateServerModeTLS(tls)
	case "mutual":
		return validateMutualModeTLS(tls)
	}
	return nil
}

func validateTLSMode(tls TLSConfig) error {
	switch tls.Mode {
	case "", "disabled", "server", "mutual":
		return nil
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be disabled, server, or mutual)", tls.Mode)
	}
}

// validateServerModeTLS requires a certificate and key, from files or
// from Vault-provided content.
func validateServerModeTLS(tls TLSConfig) error {
	hasFiles := tls.CertFile != "" && tls.KeyFile != ""
	hasContent := tls.CertContent != "" && tls.KeyContent != ""
	if !hasFiles && !hasContent {
		return fmt.Errorf("server TLS mode requires certFile and keyFile (or Vault-provided certificate content)")
	}
	return validateTLSVersion(tls.MinVersion)
}

// validateMutualModeTLS additionally requires CA material for client
// certificate verification.
func validateMutualModeTLS(tls TLSConfig) error {
	if err := validateServerModeTLS(tls); err != nil {
		return err
	}
	if tls.CAFile == "" && tls.CAContent == "" {
		return fmt.Errorf("mutual TLS mode requires caFile (or Vault-provided CA content)")
	}
	switch tls.ClientAuthPolicy {
	case "", "require", "request", "verify":
	default:
		return fmt.Errorf("invalid client auth policy: %s (must be require, request, or verify)", tls.ClientAuthPolicy)
	}
	return nil
}

func validateTLSVersion(version string) error {
	switch version {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minimum version: %s (must be 1.2 or 1.3)", version)
	}
}
