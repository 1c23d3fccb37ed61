package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"baecha/internal/amqp"
	"baecha/internal/config"
	applog "baecha/internal/log"
	"baecha/internal/services"
	gsheet "baecha/internal/sheets/google"
	"baecha/internal/storage"
	"baecha/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.InfoContext(ctx, "Starting baecha-worker")

	if err := cfg.Validate(); err != nil {
		logger.ErrorContext(ctx, "Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	layouts, err := config.LoadLayouts(cfg.LayoutFile)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load layouts", applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to open store", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	source, err := gsheet.NewFromEnv(ctx, layouts.Transaction)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize Google Sheets client", applog.FieldError, err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	service := services.NewIngestService(source, repo, layouts.Dispatch, layouts.Transaction,
		services.WithFetchConcurrency(cfg.FetchConcurrency),
		services.WithFetchTimeout(cfg.FetchTimeout))
	ingestWorker := worker.NewIngestWorker(service)

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.InfoContext(ctx, "Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	if err := ingestWorker.Run(ctx, amqpClient); err != nil && err != context.Canceled {
		logger.ErrorContext(ctx, "Worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "baecha-worker stopped")
}
