package orgchart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soundprediction/orgchart/pkg/auth"
	"github.com/soundprediction/orgchart/pkg/config"
	"github.com/soundprediction/orgchart/pkg/server"
	"github.com/soundprediction/orgchart/pkg/utils"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the orgchart HTTP server",
	Long: `Start the orgchart HTTP server.

The server provides endpoints for:
- Uploading employee CSV files (admin key required)
- Resolving the reporting subtree of an employee
- Health checks and prometheus metrics

Neo4j credentials come from the environment when NEO4J_URI is set and from
AWS SSM Parameter Store otherwise.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().StringVar(&serverHost, "host", "0.0.0.0", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8000, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "release", "Server mode (debug, release, test)")

	// Secrets flags
	serverCmd.Flags().String("secrets-source", "auto", "Where secrets come from (auto, env, ssm)")
	serverCmd.Flags().String("aws-region", "", "AWS region for SSM")

	// Telemetry flags
	serverCmd.Flags().String("telemetry-parquet-path", "", "Directory for parquet error logs")

	// Resilience flags
	serverCmd.Flags().Bool("circuit-breaker", false, "Wrap the graph store in a circuit breaker")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Override config with command-line flags
	overrideConfigWithFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	startCtx, cancelStart := context.WithTimeout(cliContext(context.Background()), 2*time.Minute)
	defer cancelStart()

	rt, err := bootstrap(startCtx, cfg)
	if err != nil {
		return err
	}
	defer rt.close(context.Background())

	adminKey, err := rt.secrets.AdminKey(startCtx)
	if err != nil {
		return fmt.Errorf("failed to resolve admin key: %w", err)
	}
	if adminKey == "" {
		rt.logger.Warn("No admin key configured; uploads are disabled")
	}

	if err := rt.client.CreateIndices(startCtx); err != nil {
		return fmt.Errorf("failed to create indices: %w", err)
	}

	// Create and setup server
	srv := server.New(cfg, rt.client, auth.NewAuthorizer(adminKey),
		server.WithMetrics(rt.metrics),
		server.WithLogger(rt.logger))
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrChan := utils.Go(srv.Start)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrChan:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		rt.logger.Info("Received signal", "signal", sig.String())

		// Create shutdown context with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Shutdown server
		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		rt.logger.Info("Server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	// Server flags
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	// Secrets flags
	if cmd.Flags().Changed("secrets-source") {
		cfg.Secrets.Source, _ = cmd.Flags().GetString("secrets-source")
	}
	if cmd.Flags().Changed("aws-region") {
		cfg.Secrets.Region, _ = cmd.Flags().GetString("aws-region")
	}

	// Telemetry flags
	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}

	if cmd.Flags().Changed("circuit-breaker") {
		cfg.CircuitBreaker.Enabled, _ = cmd.Flags().GetBool("circuit-breaker")
	}
}
