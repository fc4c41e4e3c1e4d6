package orgchart

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/soundprediction/orgchart"
	"github.com/soundprediction/orgchart/pkg/alert"
	"github.com/soundprediction/orgchart/pkg/config"
	"github.com/soundprediction/orgchart/pkg/driver"
	"github.com/soundprediction/orgchart/pkg/logger"
	"github.com/soundprediction/orgchart/pkg/metrics"
	"github.com/soundprediction/orgchart/pkg/secrets"
	"github.com/soundprediction/orgchart/pkg/telemetry"
	"github.com/soundprediction/orgchart/pkg/types"
	"github.com/spf13/cobra"
)

// app holds what a command needs once startup has succeeded.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	secrets   secrets.Provider
	client    *orgchart.Client
	metrics   *metrics.Metrics
	telemetry *telemetry.ParquetHandler
}

// loadConfig loads the configuration, applies the global flags and
// validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("db-driver") {
		cfg.Database.Driver, _ = flags.GetString("db-driver")
	}
	if flags.Changed("db-uri") {
		cfg.Database.URI, _ = flags.GetString("db-uri")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the colour logger, wrapped by the parquet error sink
// when a telemetry path is configured.
func newLogger(cfg *config.Config) (*slog.Logger, *telemetry.ParquetHandler) {
	handler := logger.NewColorHandler(os.Stderr, &slog.HandlerOptions{
		Level: logger.ParseLevel(cfg.Log.Level),
	})

	if cfg.Telemetry.ParquetPath == "" {
		return slog.New(handler), nil
	}

	parquetHandler, err := telemetry.NewParquetHandler(handler, cfg.Telemetry.ParquetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to initialize error tracking: %v\n", err)
		return slog.New(handler), nil
	}
	return slog.New(parquetHandler), parquetHandler
}

// cliContext tags ctx as coming from the command line.
func cliContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, types.ContextKeyRequestSource, "cli")
}

// openDriver connects to the configured graph store.
func openDriver(ctx context.Context, cfg *config.Config, provider secrets.Provider, log *slog.Logger) (driver.GraphDriver, error) {
	var graph driver.GraphDriver

	switch cfg.Database.Driver {
	case string(driver.GraphProviderMemory):
		log.Warn("Using the in-memory graph store; data is lost on exit")
		graph = driver.NewMemoryDriver()

	case string(driver.GraphProviderNeo4j):
		creds, err := provider.Neo4jCredentials(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve neo4j credentials: %w", err)
		}
		if creds.Database == "" {
			creds.Database = cfg.Database.Database
		}

		neo4jDriver, err := driver.NewNeo4jDriverFromCredentials(creds)
		if err != nil {
			return nil, err
		}
		if err := neo4jDriver.VerifyConnectivity(ctx); err != nil {
			_ = neo4jDriver.Close(ctx)
			return nil, fmt.Errorf("failed to connect to neo4j at %s: %w", creds.URI, err)
		}
		log.Info("Connected to Neo4j", "uri", creds.URI, "database", creds.Database, "source", provider.Source())
		graph = neo4jDriver

	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	if cfg.CircuitBreaker.Enabled {
		graph = driver.NewBreakerDriver(graph, cfg.CircuitBreaker, alert.New(cfg.Alert), log)
	}
	return graph, nil
}

// bootstrap resolves secrets, opens the graph store and builds the client.
func bootstrap(ctx context.Context, cfg *config.Config) (*app, error) {
	log, sink := newLogger(cfg)

	provider, err := secrets.Resolve(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	graph, err := openDriver(ctx, cfg, provider, log)
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	client := orgchart.NewClient(graph, &orgchart.Config{Metrics: m}, log)
	return &app{
		cfg:       cfg,
		logger:    log,
		secrets:   provider,
		client:    client,
		metrics:   m,
		telemetry: sink,
	}, nil
}

// close releases the driver and flushes telemetry.
func (r *app) close(ctx context.Context) {
	if err := r.client.Close(ctx); err != nil {
		r.logger.Error("Failed to close graph driver", "error", err)
	}
	if r.telemetry != nil {
		if err := r.telemetry.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to flush telemetry: %v\n", err)
		}
	}
}
