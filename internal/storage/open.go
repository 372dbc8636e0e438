package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/garrettladley/passbridge/internal/config"
	pgmigrations "github.com/garrettladley/passbridge/internal/migrations/postgres"
	sqlitemigrations "github.com/garrettladley/passbridge/internal/migrations/sqlite"
	"github.com/garrettladley/passbridge/internal/xslog"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OpenCredentialStore connects to the configured driver and brings its
// schema up to date before returning.
func OpenCredentialStore(ctx context.Context, cfg config.Database, logger *slog.Logger) (CredentialStore, error) {
	logger.InfoContext(ctx, "opening credential store", xslog.Driver(string(cfg.Driver)))

	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		applied, err := pgmigrations.Apply(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		logApplied(ctx, logger, applied)
		return NewPostgresCredentialStore(pool), nil

	case config.DriverSQLite:
		db, err := OpenSQLite(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		applied, err := sqlitemigrations.Apply(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite migrations: %w", err)
		}
		logApplied(ctx, logger, applied)
		return NewSQLiteCredentialStore(db), nil

	case config.DriverMemory:
		logger.WarnContext(ctx, "credentials are kept in memory and lost on restart")
		return NewMemoryCredentialStore(), nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func logApplied(ctx context.Context, logger *slog.Logger, applied []string) {
	for _, name := range applied {
		logger.InfoContext(ctx, "applied migration", slog.String("migration", name))
	}
}
