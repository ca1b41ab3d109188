// Package main is the entry point for the library catalog.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/jsamuelsen/library-catalog/internal/adapters/console"
	"github.com/jsamuelsen/library-catalog/internal/adapters/storage"
	"github.com/jsamuelsen/library-catalog/internal/app"
	"github.com/jsamuelsen/library-catalog/internal/platform/config"
	"github.com/jsamuelsen/library-catalog/internal/platform/logging"
	"github.com/jsamuelsen/library-catalog/internal/platform/metrics"
	"github.com/jsamuelsen/library-catalog/internal/platform/telemetry"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD)"
var (
	// Version is the semantic version of the catalog.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("CATALOG_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging, tagged with this run's id
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	ctx = logging.WithContext(ctx, logger)
	ctx = logging.WithRunID(ctx, uuid.NewString())
	logger = logging.FromContext(ctx)

	logger.InfoContext(ctx, "starting catalog",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("backend", cfg.Storage.Backend),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.ErrorContext(ctx, "telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Open the configured store
	store, closeStore, err := storage.Open(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	defer func() {
		if closeErr := closeStore(); closeErr != nil {
			logger.ErrorContext(ctx, "closing store", slog.Any("error", closeErr))
		}
	}()

	// 6. Create the catalog service (application layer)
	registry := metrics.New()

	service, err := app.NewCatalogService(app.CatalogServiceConfig{
		Store:    store,
		Logger:   logger,
		Recorder: registry,
	})
	if err != nil {
		return fmt.Errorf("creating catalog service: %w", err)
	}

	// 7. Restore the catalog; failures are reported and the shell starts empty
	loadCatalog(ctx, service, os.Stdout)

	// 8. Run the menu until exit or end of input; it saves before returning
	shell := console.New(console.Config{
		Catalog: service,
		In:      os.Stdin,
		Out:     os.Stdout,
		Err:     os.Stderr,
		Logger:  logger,
	})

	if err := shell.Run(ctx); err != nil {
		logger.ErrorContext(ctx, "catalog not saved", slog.Any("error", err))
	}

	// 9. Publish counters for the node-exporter textfile collector
	if cfg.Metrics.Textfile != "" {
		if err := registry.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.ErrorContext(ctx, "writing metrics textfile", slog.Any("error", err))
		}
	}

	logger.InfoContext(ctx, "catalog stopped")

	return nil
}

// loadCatalog restores the stored catalog and prints the startup notices.
func loadCatalog(ctx context.Context, service *app.CatalogService, out io.Writer) {
	result, err := service.Load(ctx)

	switch {
	case errors.Is(err, app.ErrCreateStore):
		fmt.Fprintln(out, "No book file found. Creating new file.")
		fmt.Fprintf(out, "Error creating file: %v\n", err)
	case err != nil:
		fmt.Fprintf(out, "Error loading books: %v\n", err)
	case result.Created:
		fmt.Fprintln(out, "No book file found. Creating new file.")
	}

	for _, skipped := range result.Skipped {
		fmt.Fprintf(out, "Skipping Malformed Line: %s\n", skipped.Text)
	}
}
