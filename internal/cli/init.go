// Package cli provides the initialization shared by the fintrack server and
// the fintrack-cli binary.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/classify"
	"fintrack/internal/config"
	"fintrack/internal/export"
	"fintrack/internal/log"
	"fintrack/internal/rules"
	ports "fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
	mem "fintrack/internal/sheets/memory"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from cfg and installs it as the
// slog default.
func SetupLogger(cfg *config.Config) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentApp,
		Output:    os.Stderr,
	})
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "configuration:", err)
		os.Exit(1)
	}
	return cfg
}

// LoadClassifier returns a classifier over RULES_FILE, or over the built-in
// table when no file is configured.
func LoadClassifier(cfg *config.Config, logger *log.Logger) (*classify.Classifier, error) {
	if cfg.RulesFile == "" {
		return classify.New(rules.Default()), nil
	}
	table, err := rules.LoadFile(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	logger.Info("Loaded rule table", "path", cfg.RulesFile, "rules", len(table.Rules()))
	return classify.New(table), nil
}

// NewExporter builds the exporter selected by EXPORT_BACKEND. The "none"
// backend yields a disabled exporter. Missing or unusable Google credentials
// are logged and also yield a disabled exporter that reports the cause on
// every export, so import and browsing keep working.
func NewExporter(ctx context.Context, cfg *config.Config, table *rules.Table, logger *log.Logger) (*export.Exporter, error) {
	var appender ports.RowAppender
	switch cfg.ExportBackend {
	case config.ExportSheets:
		if !cfg.HasGoogleCredentials() {
			cause := fmt.Errorf("google sheets client: %w", gsheet.ErrMissingCredentials)
			logger.Error("Spreadsheet export disabled", log.FieldError, cause)
			return export.Disabled(cause), nil
		}
		client, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			cause := fmt.Errorf("google sheets client: %w", err)
			logger.Error("Spreadsheet export disabled", log.FieldError, cause)
			return export.Disabled(cause), nil
		}
		appender = client
	case config.ExportMemory:
		appender = mem.NewWithHeader(cfg.ExportSheetName, export.DefaultHeader(table.Categories()))
	default:
		logger.Info("Spreadsheet export disabled", "backend", cfg.ExportBackend)
		return export.New(nil), nil
	}
	logger.Info("Initialized export backend", "backend", cfg.ExportBackend, log.FieldSheet, cfg.ExportSheetName)
	return export.New(appender), nil
}

// DefaultTarget returns the configured spreadsheet target.
func DefaultTarget(cfg *config.Config) ports.Target {
	return ports.Target{SpreadsheetID: cfg.GoogleSpreadsheetID, Sheet: cfg.ExportSheetName}
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		cancel()
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
