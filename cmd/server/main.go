// Package main implements the cardgen API server, which generates English
// vocabulary study cards through an LLM backend and serves batch progress
// over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lexcraft/cardgen/internal/api"
	"github.com/lexcraft/cardgen/internal/config"
	"github.com/lexcraft/cardgen/internal/generation"
	"github.com/lexcraft/cardgen/internal/platform/llm"
	"github.com/lexcraft/cardgen/internal/platform/logger"
	"github.com/lexcraft/cardgen/internal/service"
	"github.com/lexcraft/cardgen/internal/validation"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logg := logger.Setup(cfg.Server)
	logg.Info("configuration loaded",
		"port", cfg.Server.Port,
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.ModelName,
		"concurrency", cfg.Batch.Concurrency,
		"rate_limit_per_minute", cfg.Batch.RateLimitPerMinute)

	ctx := context.Background()

	completer, err := llm.New(ctx, logg, cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM backend: %w", err)
	}

	validator := validation.New(logg, cfg.Generation.TipKinds)
	cardGen, err := generation.NewCardGenerator(
		completer, validator, logg,
		validation.ParseMode(cfg.Generation.ValidationMode),
		cfg.Generation.MaxRetries, cfg.Generation.RetryDelay())
	if err != nil {
		return fmt.Errorf("failed to build card generator: %w", err)
	}

	batchGen, err := generation.NewBatchGenerator(
		cardGen, logg, cfg.Batch.Concurrency, cfg.Batch.RateLimitPerMinute)
	if err != nil {
		return fmt.Errorf("failed to build batch generator: %w", err)
	}

	runner := service.NewBatchRunner(batchGen, logg)
	handler := api.NewGenerationHandler(runner, completer, cfg.Generation.Rules(), cfg.Export, logg)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logg.Info("starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to serve: %w", err)
	case sig := <-shutdownCh:
		logg.Info("shutting down", "signal", sig.String())
	}

	// Stop the in-flight batch so workers exit before the listener closes.
	runner.Cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logg.Info("server shutdown completed")
	return nil
}
