package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	"fintrack/internal/importer"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/services"
	"fintrack/internal/workset"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	classifier, err := cli.LoadClassifier(cfg, logger)
	if err != nil {
		logger.Error("Failed to load rule table", log.FieldError, err)
		os.Exit(1)
	}

	exporter, err := cli.NewExporter(context.Background(), cfg, classifier.Table(), logger)
	if err != nil {
		logger.Error("Failed to initialize export backend", log.FieldError, err, "backend", cfg.ExportBackend)
		os.Exit(1)
	}

	svc := services.NewDashboardService(importer.DefaultRegistry(cfg.CSVPreambleLines), exporter, cli.DefaultTarget(cfg), logger)

	sessions := cache.NewSessions(cfg.MaxSessions, cfg.SessionTTL, func() *workset.Set {
		return workset.New(classifier)
	})
	cacheManager := cache.NewManager(logger.WithComponent(log.ComponentSession))
	cacheManager.Register(sessions)
	cacheManager.StartCleanup(5 * time.Minute)

	srv := apphttp.NewServer(":"+cfg.Port, svc, sessions, logger, apphttp.Options{
		MaxUploadBytes: cfg.MaxUploadBytes(),
		RateLimit:      ratelimit.DefaultConfig(),
	})
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		cacheManager.Stop()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	logger.Info("Starting fintrack server", "port", cfg.Port, "export_backend", cfg.ExportBackend, log.FieldOperation, log.OpStartup)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
