package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Database configuration
	Database DatabaseConfig `mapstructure:"database"`

	// Secrets configuration
	Secrets SecretsConfig `mapstructure:"secrets"`

	// Auth configuration
	Auth AuthConfig `mapstructure:"auth"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// Metrics configuration
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Alert configuration
	Alert AlertConfig `mapstructure:"alert"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// AlertConfig holds configuration for alerting
type AlertConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	SMTPHost string   `mapstructure:"smtp_host"`
	SMTPPort int      `mapstructure:"smtp_port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	// ParquetPath enables the parquet error sink when non-empty.
	ParquetPath string `mapstructure:"parquet_path"`
}

// MetricsConfig holds prometheus configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
	// MaxUploadBytes caps the multipart body accepted by /upload.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // neo4j, memory
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// SecretsConfig selects where Neo4j credentials and the admin key come from.
type SecretsConfig struct {
	// Source is "auto", "env" or "ssm". auto uses env when database.uri is set.
	Source string `mapstructure:"source"`
	Region string `mapstructure:"region"`
	// Neo4jParameter holds a JSON document with NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD.
	Neo4jParameter string `mapstructure:"neo4j_parameter"`
	// AdminKeyParameter holds the admin API key.
	AdminKeyParameter string `mapstructure:"admin_key_parameter"`
	MaxAttempts       int    `mapstructure:"max_attempts"`
}

// AuthConfig holds admin authorization configuration
type AuthConfig struct {
	// AdminKey is used when secrets resolve from the local environment.
	AdminKey string `mapstructure:"admin_key"`
	// Header carries the admin key on upload requests.
	Header string `mapstructure:"header"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Local .env files are optional
	_ = godotenv.Load()

	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.max_upload_bytes", 32<<20)

	// Database defaults
	viper.SetDefault("database.driver", "neo4j")
	viper.SetDefault("database.uri", "")
	viper.SetDefault("database.username", "neo4j")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.database", "neo4j")

	// Secrets defaults
	viper.SetDefault("secrets.source", "auto")
	viper.SetDefault("secrets.region", "")
	viper.SetDefault("secrets.neo4j_parameter", "neo4j_connection_json_string")
	viper.SetDefault("secrets.admin_key_parameter", "orgchart_admin_api_key")
	viper.SetDefault("secrets.max_attempts", 3)

	// Auth defaults
	viper.SetDefault("auth.admin_key", "")
	viper.SetDefault("auth.header", "X-Admin-Key")

	// Metrics defaults
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", false)
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	// Database credentials
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.Database.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		config.Database.Username = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.Database.Password = pass
	}
	if db := os.Getenv("NEO4J_DATABASE"); db != "" {
		config.Database.Database = db
	}

	// Generic database settings
	if dbDriver := os.Getenv("DB_DRIVER"); dbDriver != "" {
		config.Database.Driver = dbDriver
	}

	// Secrets and auth
	if source := os.Getenv("SECRETS_SOURCE"); source != "" {
		config.Secrets.Source = source
	}
	if region := os.Getenv("AWS_REGION"); region != "" && config.Secrets.Region == "" {
		config.Secrets.Region = region
	}
	if key := os.Getenv("ORGCHART_ADMIN_API_KEY"); key != "" {
		config.Auth.AdminKey = key
	}

	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	// Telemetry settings
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}

// Validate checks the settings every command relies on.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case "neo4j", "memory":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	switch c.Secrets.Source {
	case "auto", "env", "ssm":
	default:
		return fmt.Errorf("unsupported secrets source: %s", c.Secrets.Source)
	}
	return nil
}
