// Package storage opens the repository provider selected by STORAGE_DRIVER.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/adapters/database/memory"
	"github.com/SscSPs/ledger_posting_engine/internal/adapters/database/pgsql"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting_engine/internal/platform/config"
	"github.com/SscSPs/ledger_posting_engine/pkg/database"
)

// MigrationsPath is where golang-migrate finds the schema, relative to the working directory.
const MigrationsPath = "file://migrations"

// Options tune Open.
type Options struct {
	// Migrate applies pending migrations before the pool is handed out.
	Migrate bool
}

// Open returns the repositories for cfg.StorageDriver and a cleanup func.
func Open(ctx context.Context, cfg *config.Config, opts Options) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		store := memory.NewStore()
		if cfg.SeedFile != "" {
			if err := loadSeed(ctx, store, cfg.SeedFile); err != nil {
				return portsrepo.RepositoryProvider{}, nil, err
			}
		}
		return store.Provider(), func() {}, nil
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	if opts.Migrate {
		slog.Info("Running database migrations...")
		if err := database.RunMigrations(cfg.DatabaseURL, MigrationsPath); err != nil {
			database.ClosePgxPool(pool)
			return portsrepo.RepositoryProvider{}, nil, err
		}
	}
	return pgsql.NewRepositoryProvider(pool, cfg.PostingLockTimeout), func() { database.ClosePgxPool(pool) }, nil
}

func loadSeed(ctx context.Context, store *memory.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	if err := store.LoadSeed(ctx, f, time.Now().UTC()); err != nil {
		return err
	}
	slog.Info("Loaded seed data", slog.String("file", path))
	return nil
}
