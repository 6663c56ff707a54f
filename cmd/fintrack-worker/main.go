package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/events"
	"fintrack/internal/export"
	"fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{Level: slog.LevelInfo, Component: log.ComponentWorker})
	log.SetDefault(logger)

	logger.Info("starting export worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the worker")
		os.Exit(1)
	}

	st, cleanup, err := backend.NewFactory(logger).Create(cfg)
	if err != nil {
		logger.Error("backend setup failed", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.Error("backend cleanup failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exporter, err := export.NewSheetsExporter(ctx,
		cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, cfg.GoogleCredentialsJSON, logger)
	if err != nil {
		logger.Error("sheets exporter setup failed", "error", err)
		os.Exit(1)
	}

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("event broker setup failed", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	exportWorker := worker.NewExportWorker(st, exporter, logger)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return client.Consume(ctx, exportWorker.HandleEvent)
	})
	group.Go(func() error {
		return exportWorker.Run(ctx, cfg.ExportInterval)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped gracefully")
}
