package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"erp-core/internal/adapters/cli"
	"erp-core/internal/app"
	"erp-core/internal/config"
	"erp-core/internal/core"
	"erp-core/internal/db"
	"erp-core/internal/logging"
	"erp-core/internal/store/postgres"
	"erp-core/internal/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	slog.SetDefault(logger)

	ctx := context.Background()
	store, migrate, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", slog.String("store", cfg.Store), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	svc := app.New(store, logger)
	if cfg.SeedChart {
		if _, err := svc.SeedChart(ctx); err != nil {
			logger.Error("Failed to seed chart of accounts", slog.String("error", err.Error()))
			closeStore()
			os.Exit(1)
		}
	}

	if err := cli.NewRootCommand(svc, migrate).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", core.Class(err), err)
		closeStore()
		os.Exit(1)
	}
}

// openStore opens the configured store. For Postgres it also returns the migration
// runner, after applying pending migrations when MIGRATE_ON_START is set.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (core.Store, cli.MigrateFunc, func(), error) {
	if cfg.Store == config.StoreSQLite {
		s, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return s, nil, func() { s.Close() }, nil
	}

	migrate := func() (uint, error) { return db.Migrate(cfg.DatabaseURL) }
	if cfg.MigrateOnStart {
		version, err := migrate()
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Debug("Database schema up to date", slog.Uint64("version", uint64(version)))
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	return postgres.New(pool), migrate, pool.Close, nil
}
