package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/soundprediction/orgchart/pkg/config"
	"github.com/soundprediction/orgchart/pkg/driver"
)

// Source names where secrets were resolved from.
type Source string

const (
	SourceEnv Source = "env"
	SourceSSM Source = "ssm"
)

// Provider supplies startup secrets.
type Provider interface {
	Neo4jCredentials(ctx context.Context) (driver.Neo4jCredentials, error)
	AdminKey(ctx context.Context) (string, error)
	Source() Source
}

// EnvProvider serves secrets from the loaded configuration.
type EnvProvider struct {
	db       config.DatabaseConfig
	adminKey string
}

// NewEnvProvider creates an env provider over cfg.
func NewEnvProvider(cfg *config.Config) *EnvProvider {
	return &EnvProvider{db: cfg.Database, adminKey: cfg.Auth.AdminKey}
}

// Neo4jCredentials returns the configured connection settings.
func (p *EnvProvider) Neo4jCredentials(ctx context.Context) (driver.Neo4jCredentials, error) {
	if strings.TrimSpace(p.db.URI) == "" {
		return driver.Neo4jCredentials{}, &FatalError{Op: "env credentials", Err: fmt.Errorf("NEO4J_URI is not set")}
	}
	return driver.Neo4jCredentials{
		URI:      p.db.URI,
		Username: p.db.Username,
		Password: p.db.Password,
		Database: p.db.Database,
	}, nil
}

// AdminKey returns the configured admin key, possibly empty.
func (p *EnvProvider) AdminKey(ctx context.Context) (string, error) {
	return p.adminKey, nil
}

// Source returns SourceEnv.
func (p *EnvProvider) Source() Source {
	return SourceEnv
}

// Choose decides the source for cfg without contacting AWS.
func Choose(cfg *config.Config) (Source, error) {
	switch cfg.Secrets.Source {
	case string(SourceEnv):
		return SourceEnv, nil
	case string(SourceSSM):
		return SourceSSM, nil
	case "", "auto":
		if strings.TrimSpace(cfg.Database.URI) != "" {
			return SourceEnv, nil
		}
		return SourceSSM, nil
	default:
		return "", fmt.Errorf("unsupported secrets source: %s", cfg.Secrets.Source)
	}
}

// Resolve builds the provider chosen for cfg.
func Resolve(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	source, err := Choose(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Resolving secrets", "source", source)

	if source == SourceEnv {
		return NewEnvProvider(cfg), nil
	}

	client, err := NewSSMClient(ctx, cfg.Secrets.Region)
	if err != nil {
		return nil, err
	}
	return NewSSMProvider(client, cfg.Secrets, logger), nil
}
