package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	for _, key := range []string{"NEO4J_URI", "NEO4J_USER", "NEO4J_PASSWORD", "NEO4J_DATABASE", "DB_DRIVER", "SECRETS_SOURCE", "AWS_REGION", "ORGCHART_ADMIN_API_KEY", "SERVER_HOST", "SERVER_PORT", "TELEMETRY_PARQUET_PATH"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "neo4j", cfg.Database.Driver)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "auto", cfg.Secrets.Source)
	assert.Equal(t, "neo4j_connection_json_string", cfg.Secrets.Neo4jParameter)
	assert.Equal(t, "orgchart_admin_api_key", cfg.Secrets.AdminKeyParameter)
	assert.Equal(t, 3, cfg.Secrets.MaxAttempts)
	assert.Equal(t, "X-Admin-Key", cfg.Auth.Header)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.CircuitBreaker.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("NEO4J_URI", "neo4j+s://db.example.com")
	t.Setenv("NEO4J_USER", "svc")
	t.Setenv("NEO4J_PASSWORD", "pw")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("ORGCHART_ADMIN_API_KEY", "k")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("AWS_REGION", "eu-central-1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "neo4j+s://db.example.com", cfg.Database.URI)
	assert.Equal(t, "svc", cfg.Database.Username)
	assert.Equal(t, "pw", cfg.Database.Password)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "k", cfg.Auth.AdminKey)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "eu-central-1", cfg.Secrets.Region)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8000},
			Database: DatabaseConfig{Driver: "neo4j"},
			Secrets:  SecretsConfig{Source: "auto"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid port"},
		{"bad driver", func(c *Config) { c.Database.Driver = "ladybug" }, "unsupported database driver"},
		{"bad source", func(c *Config) { c.Secrets.Source = "vault" }, "unsupported secrets source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
