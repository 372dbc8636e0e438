package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const Dir = "sql"

//go:embed sql/*.sql
var migrationsFS embed.FS

// Apply runs every embedded migration not yet recorded in migrations_history
// and returns the names it applied. Each file runs in its own transaction.
func Apply(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	if err := createHistoryTable(ctx, pool); err != nil {
		return nil, err
	}

	files, err := migrationFiles()
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, filename := range files {
		done, err := isMigrationApplied(ctx, pool, filename)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, Dir+"/"+filename)
		if err != nil {
			return applied, fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		if err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			for stmt := range strings.SplitSeq(string(content), ";") {
				stmt = strings.TrimSpace(stmt)
				if stmt == "" {
					continue
				}
				if _, err := tx.Exec(ctx, stmt); err != nil {
					return err
				}
			}
			_, err := tx.Exec(ctx, "INSERT INTO migrations_history (name) VALUES ($1)", filename)
			return err
		}); err != nil {
			return applied, fmt.Errorf("failed to execute migration %s: %w", filename, err)
		}

		applied = append(applied, filename)
	}

	return applied, nil
}

func migrationFiles() ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

func createHistoryTable(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS migrations_history (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("creating migrations history table: %w", err)
	}
	return nil
}

func isMigrationApplied(ctx context.Context, pool *pgxpool.Pool, name string) (bool, error) {
	var count int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM migrations_history WHERE name = $1", name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking if migration applied: %w", err)
	}
	return count > 0, nil
}
