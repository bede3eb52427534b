package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"spendash/internal/amqp"
	"spendash/internal/backend"
	"spendash/internal/cache"
	"spendash/internal/cli"
	"spendash/internal/client"
	"spendash/internal/config"
	"spendash/internal/dashboard"
	"spendash/internal/fixtures"
	apphttp "spendash/internal/http"
	"spendash/internal/store"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "run database migrations and exit")
	seedDemo := flag.Bool("seed-demo", false, "seed the SQLite backend with the demo dataset and exit")
	invalidate := flag.Bool("invalidate", false, "publish a cache invalidation message and exit")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	switch {
	case *migrateFlag:
		runMigrations(logger, cfg)
	case *seedDemo:
		runSeedDemo(logger, cfg)
	case *invalidate:
		runInvalidate(logger, cfg)
	default:
		runServer(logger, cfg)
	}
}

func runMigrations(logger *slog.Logger, cfg *config.Config) {
	if err := store.RunMigrations(cfg.SQLiteDBPath); err != nil {
		logger.Error("Migrations failed", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	logger.Info("Migrations applied", "path", cfg.SQLiteDBPath)
}

// runSeedDemo loads the embedded demo dataset into SQLite so the sqlite
// backend starts with the same data the fixture backend serves.
func runSeedDemo(logger *slog.Logger, cfg *config.Config) {
	ds, err := fixtures.Load()
	if err != nil {
		logger.Error("Failed to load demo dataset", "error", err)
		os.Exit(1)
	}

	st, err := store.NewSQLiteStore(cfg.SQLiteDBPath, logger)
	if err != nil {
		logger.Error("Failed to open SQLite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := st.Seed(ctx, ds); err != nil {
		logger.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Demo dataset seeded",
		"path", cfg.SQLiteDBPath,
		"transactions", len(ds.Transactions),
		"goals", len(ds.Goals))
}

func runInvalidate(logger *slog.Logger, cfg *config.Config) {
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL must be set to publish invalidations")
		os.Exit(1)
	}

	bus, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := bus.PublishInvalidate(ctx, amqp.ScopeAll, "manual invalidation"); err != nil {
		logger.Error("Failed to publish invalidation", "error", err)
		os.Exit(1)
	}
	logger.Info("Invalidation published", "exchange", cfg.AMQPExchange)
}

func runServer(logger *slog.Logger, cfg *config.Config) {
	ctx := context.Background()

	facade, storeCleanup := buildClient(ctx, logger, cfg)

	manager := cache.NewManager(logger)
	manager.StartCleanup(time.Minute)

	svc := dashboard.NewService(logger, facade, dashboard.Options{
		StaleAfter: cfg.CacheStaleAfter,
		TTL:        cfg.CacheTTL,
		MaxEntries: cfg.CacheMaxEntries,
	}, manager)

	var opts apphttp.Options
	var respCache *apphttp.ResponseCache
	if cfg.RedisURL != "" {
		rc, err := apphttp.NewResponseCache(ctx, logger, cfg.RedisURL, cfg.CacheStaleAfter)
		if err != nil {
			logger.Error("Failed to connect to Redis response cache", "error", err)
			os.Exit(1)
		}
		respCache = rc
		opts.ResponseCache = rc
		logger.Info("Redis response cache enabled")
	}

	var bus *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		bus, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		logger.Info("Invalidation bus connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	srv := apphttp.NewServer(":"+cfg.Port, cfg.CustomerID, svc, opts)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(stopCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		manager.Stop()
		if bus != nil {
			bus.Close()
		}
		if storeCleanup != nil {
			storeCleanup()
		}
	})

	if bus != nil {
		go consumeInvalidations(shutdownCtx, logger, bus, svc, respCache)
	}

	logger.Info("Starting spendash server",
		"port", cfg.Port,
		"customer_id", cfg.CustomerID,
		"backend", cfg.DataBackend,
		"remote", cfg.APIBaseURL != "")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}

// buildClient selects remote mode when an API base URL is configured,
// otherwise backs the local facade with the configured store.
func buildClient(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*client.Client, backend.CleanupFunc) {
	if cfg.APIBaseURL != "" {
		logger.Info("Using remote data source", "base_url", cfg.APIBaseURL)
		return client.NewRemote(logger, cfg.APIBaseURL, cfg.CustomerID), nil
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateStore(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to create data store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	return client.NewLocal(logger, result.Store, cfg.FetchLatency), result.Cleanup
}

func consumeInvalidations(ctx context.Context, logger *slog.Logger, bus *amqp.Client, svc *dashboard.Service, respCache *apphttp.ResponseCache) {
	err := bus.ConsumeInvalidations(ctx, func(msg *amqp.InvalidateMessage) error {
		logger.InfoContext(ctx, "Invalidation received", "scope", msg.Scope, "reason", msg.Reason)
		svc.InvalidateAll()
		if respCache != nil {
			if err := respCache.Purge(ctx); err != nil {
				logger.ErrorContext(ctx, "Failed to purge response cache", "error", err)
			}
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("Invalidation consumer stopped", "error", err)
	}
}
