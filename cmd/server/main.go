// Package main is the entry point for the supplyspend report API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/klauspost/compress/gzhttp"

	"supplyspend/internal/config"
	"supplyspend/internal/domain/budget"
	"supplyspend/internal/domain/reports"
	v1 "supplyspend/internal/infrastructure/http/v1"
	"supplyspend/internal/infrastructure/storage/postgres"
	"supplyspend/internal/infrastructure/storage/postgres/budget_repo"
	"supplyspend/internal/infrastructure/storage/postgres/catalog_repo"
	"supplyspend/internal/infrastructure/storage/postgres/ledger_repo"
	"supplyspend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.IsDevelopment(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting supplyspend server", "env", cfg.App.Env, "version", cfg.App.Version)

	// --- Schema ---
	if cfg.Database.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.Database.URL); err != nil {
			log.Fatalw("failed to apply migrations", "error", err)
		}
		log.Info("database migrations applied")
	}

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	pool.LogStats(ctx)

	txm := postgres.NewTxManager(pool, cfg.Database.StatementTimeout)

	// --- Reports ---
	calculator := budget.NewCalculator(budget_repo.NewBudgetRepo(txm), cfg.Reports.MissingCensusPolicy)
	service := reports.NewService(
		ledger_repo.NewLedgerRepo(txm),
		catalog_repo.NewCatalogRepo(txm),
		calculator,
		reports.WithLookupTimeout(cfg.Reports.LookupTimeout),
	)
	log.Infow("report service initialized",
		"lookup_timeout", cfg.Reports.LookupTimeout,
		"missing_census_policy", calculator.Policy(),
	)

	// --- Router ---
	var handler http.Handler = v1.NewRouter(v1.RouterConfig{
		Logger:   log,
		Database: pool,
		Reports:  service,
		Version:  cfg.App.Version,
		Debug:    cfg.App.IsDevelopment(),
	})
	if cfg.HTTP.Gzip {
		handler = gzhttp.GzipHandler(handler)
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port, "gzip", cfg.HTTP.Gzip)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
