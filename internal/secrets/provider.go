// Package secrets retrieves runtime secrets from the environment or
// from Azure Key Vault, depending on the deployment environment.
package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Source defines where secrets are loaded from
type Source string

const (
	// SourceEnvironment reads secrets from environment variables
	SourceEnvironment Source = "environment"
	// SourceVault reads secrets from Azure Key Vault
	SourceVault Source = "vault"
	// SourceAuto picks environment in development and vault elsewhere
	SourceAuto Source = "auto"
)

// Provider resolves named secrets against the configured source
type Provider struct {
	source Source
	vault  *VaultClient
	logger *zap.Logger
}

// ProviderConfig holds configuration for the secrets provider
type ProviderConfig struct {
	Source      Source
	VaultName   string
	Environment string
	CacheTTL    time.Duration
}

// NewProvider creates a secrets provider. With the auto source,
// development and local environments read from the process environment
// and everything else goes to the vault.
func NewProvider(cfg *ProviderConfig, logger *zap.Logger) (*Provider, error) {
	source := cfg.Source
	if source == SourceAuto {
		switch cfg.Environment {
		case "development", "local", "":
			source = SourceEnvironment
		default:
			source = SourceVault
		}
		logger.Info("resolved secret source",
			zap.String("source", string(source)),
			zap.String("environment", cfg.Environment))
	}

	p := &Provider{
		source: source,
		logger: logger,
	}

	if source == SourceVault {
		if cfg.VaultName == "" {
			return nil, fmt.Errorf("vault name required when using vault secret source")
		}
		vault, err := NewVaultClient(&VaultConfig{
			VaultName: cfg.VaultName,
			CacheTTL:  cfg.CacheTTL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vault client: %w", err)
		}
		p.vault = vault
	}

	return p, nil
}

// GetSecret retrieves a secret by name. For the environment source the
// name is mapped to an environment variable (db-password -> DB_PASSWORD).
func (p *Provider) GetSecret(ctx context.Context, secretName string) (string, error) {
	switch p.source {
	case SourceEnvironment:
		envName := strings.ToUpper(strings.ReplaceAll(secretName, "-", "_"))
		value := os.Getenv(envName)
		if value == "" {
			return "", fmt.Errorf("environment variable %s not set", envName)
		}
		return value, nil

	case SourceVault:
		if p.vault == nil {
			return "", fmt.Errorf("vault client not initialized")
		}
		return p.vault.GetSecret(ctx, secretName)

	default:
		return "", fmt.Errorf("unknown secret source: %s", p.source)
	}
}

// GetSecretWithDefault retrieves a secret, returning defaultValue when
// the source has no entry
func (p *Provider) GetSecretWithDefault(ctx context.Context, secretName, defaultValue string) string {
	value, err := p.GetSecret(ctx, secretName)
	if err != nil {
		p.logger.Debug("using default value for secret",
			zap.String("secret_name", secretName),
			zap.String("source", string(p.source)))
		return defaultValue
	}
	return value
}

// Source returns the resolved secret source
func (p *Provider) Source() Source {
	return p.source
}
