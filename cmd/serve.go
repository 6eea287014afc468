package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bionovax/bionova/internal/apiserver"
	"github.com/bionovax/bionova/internal/cache"
	"github.com/bionovax/bionova/internal/config"
	"github.com/bionovax/bionova/internal/gemini"
	"github.com/bionovax/bionova/internal/metrics"
	"github.com/bionovax/bionova/internal/observability"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the BioNova-X API server",
	Long: `
The serve command starts the HTTP API server. It exposes the search,
analysis, glossary and chat endpoints backed by the Gemini API, with a
SQLite cache in front of the search endpoint.

Configuration is read from the environment (a .env file is loaded when
present). GEMINI_API_KEY is required.

Example:
  bionova serve                # Start on the configured port (default 3001)
  bionova serve --port 8080    # Override the listen port
`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0,
		"Port to bind the API server (overrides SERVER_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Best-effort; environments without a .env file are fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if servePort != 0 {
		cfg.ServerPort = servePort
	}

	logger := newLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	if err := metrics.Init(); err != nil {
		logger.Warn().Err(err).Msg("request metrics disabled")
	}
	defer func() { _ = metrics.Close() }()

	otelShutdown, err := observability.Init(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	if cfg.OTelEnabled {
		if err := metrics.RegisterObservableGauges(observability.Meter()); err != nil {
			logger.Warn().Err(err).Msg("failed to register request gauges")
		}
	}

	provider, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	store, err := openCacheStore(cfg.CacheDBPath)
	if err != nil {
		return fmt.Errorf("failed to open search cache: %w", err)
	}
	defer func() { _ = store.Close() }()

	server, err := apiserver.NewServer(cfg, provider, store, logger)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	return server.Run(ctx)
}

func openCacheStore(path string) (*cache.Store, error) {
	if path != "" {
		return cache.NewStoreWithPath(path)
	}
	return cache.NewStore()
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(parsed).With().Timestamp().Logger()
}
