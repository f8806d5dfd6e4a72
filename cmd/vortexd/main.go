// Command vortexd runs the capture analysis pipeline and the HTTP API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/vortex/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/vortex/internal/adapter/kafka"
	"github.com/couchcryptid/vortex/internal/adapter/ocr"
	"github.com/couchcryptid/vortex/internal/adapter/webhook"
	"github.com/couchcryptid/vortex/internal/config"
	"github.com/couchcryptid/vortex/internal/observability"
	"github.com/couchcryptid/vortex/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recognizer, closeOCR, err := ocr.New(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to initialize ocr", "error", err)
		os.Exit(1)
	}

	reporter := webhook.NewReporter(cfg.WebhookURL, cfg.WebhookTimeout, logger, metrics)
	if !reporter.Configured() {
		logger.Warn("webhook not set, error reports are disabled", "config_file", cfg.ConfigFile)
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	analyzer := pipeline.NewAnalyzer(logger, metrics)

	p := pipeline.New(reader, analyzer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Ready:      p,
		Recognizer: recognizer,
		Reporter:   reporter,
		Metrics:    metrics,
	}, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start capture pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if err := closeOCR(); err != nil {
		logger.Error("ocr close error", "error", err)
	}

	logger.Info("shutdown complete")
}
