package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/DiegoEstrada07/expense-tracker/internal/amqp"
	"github.com/DiegoEstrada07/expense-tracker/internal/backend"
	"github.com/DiegoEstrada07/expense-tracker/internal/config"
	apphttp "github.com/DiegoEstrada07/expense-tracker/internal/http"
	"github.com/DiegoEstrada07/expense-tracker/internal/reminder"
	"github.com/DiegoEstrada07/expense-tracker/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := backend.OpenLedger(cfg)
	if err != nil {
		logger.Error("Failed to open ledger store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	reminders, err := reminder.New(cfg.ReminderPath, cfg.BudgetPath)
	if err != nil {
		logger.Error("Failed to open reminder store", "error", err)
		os.Exit(1)
	}

	// AMQP is optional: without a broker the tracker runs standalone.
	var events services.TransactionEvents
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			defer amqpClient.Close()
			events = amqpClient
			logger.Info("AMQP event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	ledgerSvc := services.NewLedgerService(store, events)
	queries := services.NewQueryService(ledgerSvc)
	promoter := services.NewPromoter(ledgerSvc, reminders)

	srv := apphttp.NewServer(":"+cfg.Port, ledgerSvc, queries, reminders, promoter)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting tracker server", "port", cfg.Port, "backend", cfg.LedgerBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := promoter.Run(ctx, cfg.PromotionInterval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Tracker exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
