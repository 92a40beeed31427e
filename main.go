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

	"loan-quote/config"
	httpLayer "loan-quote/http"
	"loan-quote/repository"
	"loan-quote/service"
)

func main() {
	appConfig, err := config.LoadAppConfig()
	if err != nil {
		slog.Error("loading configuration", "error", err)
		os.Exit(1)
	}

	logger := config.NewLogger(appConfig.LogLevel, appConfig.LogFormat, os.Stderr)
	slog.SetDefault(logger)

	if err := run(appConfig, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(appConfig *config.AppConfig, logger *slog.Logger) error {
	loanConfig := config.LoanConfigOrDefault(appConfig.LoanConfigPath, logger)

	var quotes repository.QuoteRepository = repository.NewQuoteRepositoryMemory()
	if appConfig.SQLitePath != "" {
		store, err := repository.OpenQuoteRepositorySQLite(context.Background(), appConfig.SQLitePath)
		if err != nil {
			return err
		}
		defer store.Close()
		quotes = store
	}

	rateLimiter := httpLayer.NewRateLimiter(appConfig.RateLimitPerMinute, time.Minute)
	defer rateLimiter.Stop()

	simulator := service.NewFailureSimulator(service.SimulatorConfig{
		QuoteFailureRate:  appConfig.QuoteFailureRate,
		ConfigFailureRate: appConfig.ConfigFailureRate,
		DelayMin:          appConfig.SimDelayMin,
		DelayMax:          appConfig.SimDelayMax,
	}, nil)

	policy := service.NewQuotePolicy(service.QuotePolicyDeps{
		Config:    loanConfig,
		Limiter:   rateLimiter,
		Simulator: simulator,
		Quotes:    quotes,
		Logger:    logger,
	})

	loanService, err := service.NewLoanService(loanConfig)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr: appConfig.HTTPAddr,
		Handler: httpLayer.NewRouter(httpLayer.RouterDeps{
			Policy:  policy,
			Loans:   loanService,
			Quotes:  quotes,
			Limiter: rateLimiter,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("quote API listening", "addr", appConfig.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
		logger.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("error during server shutdown", "error", err)
	}

	logger.Info("server exited")
	return nil
}
