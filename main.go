package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ivayloh/ledgerbot/internal/adapter/ledgerstore"
	"github.com/ivayloh/ledgerbot/internal/adapter/ratesapi"
	"github.com/ivayloh/ledgerbot/internal/adapter/telegram"
	"github.com/ivayloh/ledgerbot/internal/config"
	"github.com/ivayloh/ledgerbot/internal/directory"
	"github.com/ivayloh/ledgerbot/internal/journal"
	"github.com/ivayloh/ledgerbot/internal/match"
	"github.com/ivayloh/ledgerbot/internal/rates"
	"github.com/ivayloh/ledgerbot/internal/service"
	handler "github.com/ivayloh/ledgerbot/internal/transport/http"
)

const clientTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "path", *configPath, "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("starting transaction recorder",
		"listen", cfg.ListenAddr, "webhook", cfg.Telegram.WebhookPath,
		"matching", cfg.Matching.Strategy)

	// Adapters
	store := ledgerstore.NewClient(ledgerstore.Config{
		BaseURL:              cfg.LedgerStore.BaseURL,
		Token:                cfg.LedgerStore.Token,
		BaseID:               cfg.LedgerStore.BaseID,
		TransactionsTable:    cfg.LedgerStore.TransactionsTable,
		AccountsTable:        cfg.LedgerStore.AccountsTable,
		AccountNameField:     cfg.LedgerStore.AccountNameField,
		AccountCurrencyField: cfg.LedgerStore.AccountCurrencyField,
		Timeout:              clientTimeout,
	})
	chat := telegram.NewClient(cfg.Telegram.BaseURL, cfg.Telegram.Token, clientTimeout)
	rateFetcher := ratesapi.NewClient(cfg.Rates.BaseURL, clientTimeout)

	// Caches
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := directory.New(store)
	if _, err := dir.Refresh(ctx); err != nil {
		logger.Warn("initial account directory load failed", "error", err)
	}
	dir.StartRefreshing(ctx, cfg.Directory.RefreshInterval(), logger)

	rateCache := rates.New(rateFetcher, cfg.Rates.TTL())

	matcher, err := match.New(match.Strategy(cfg.Matching.Strategy), cfg.Matching.FuzzyCutoff)
	if err != nil {
		logger.Error("invalid matching configuration", "error", err)
		os.Exit(1)
	}

	jnl, err := newJournal(cfg.Journal.Path)
	if err != nil {
		logger.Error("failed to open journal", "path", cfg.Journal.Path, "error", err)
		os.Exit(1)
	}
	defer jnl.Close()

	svc := service.New(chat, store, dir, rateCache, matcher, service.NewFieldMap(), jnl, logger)

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	handler.NewHandler(svc, cfg.Telegram.WebhookPath, logger).RegisterRoutes(e)

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()
	logger.Info("webhook listening", "addr", cfg.ListenAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func newJournal(path string) (journal.Journal, error) {
	if path == "" {
		return journal.NewMemory(), nil
	}
	return journal.NewSQLite(path)
}
