package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fondo/internal/amqp"
	"fondo/internal/backend"
	"fondo/internal/config"
	"fondo/internal/disclosure"
	dgoogle "fondo/internal/disclosure/google"
	dmemory "fondo/internal/disclosure/memory"
	applog "fondo/internal/log"
	"fondo/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logCfg := applog.DefaultConfig()
	logCfg.Component = applog.ComponentWorker
	logger := applog.New(logCfg)
	applog.SetDefault(logger)

	logger.Info("Starting fondo-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := backend.NewStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize ledger backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	payoutStore, ok := store.(worker.PayoutStore)
	if !ok {
		logger.Error("Ledger backend does not track payouts", "backend", cfg.DataBackend)
		os.Exit(1)
	}

	// Disclosure target: Google Sheets when configured, otherwise an
	// in-memory report (useful for local runs without credentials).
	var report disclosure.ReportWriter
	if cfg.GoogleSpreadsheetID != "" {
		report, err = dgoogle.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		logger.Info("Google Sheets disclosure initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		report = dmemory.New()
		logger.Info("No GOOGLE_SPREADSHEET_ID provided - disclosing to in-memory report")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payoutWorker := worker.NewPayoutWorker(payoutStore, report, cfg.PayoutBatchSize)

	// On startup, disclose anything approved while the worker was down
	if err := payoutWorker.StartupCheck(ctx); err != nil {
		logger.Error("Startup payout check failed", "error", err)
		// Don't exit - continue with normal operation
	}

	go func() {
		if err := amqpClient.ConsumePayouts(ctx, payoutWorker.HandlePayoutMessage); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	// Periodic scan for payouts whose message was lost
	ticker := time.NewTicker(cfg.PayoutInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := payoutWorker.ProcessPendingPayouts(ctx); err != nil {
					logger.Error("Periodic payout scan failed", "error", err)
				}
			}
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give in-flight handlers a moment to finish
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
