package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var _ CredentialStore = (*SQLiteCredentialStore)(nil)

const (
	sqliteGetCredentials = `
		SELECT location_id, api_key, program_id, updated_at
		FROM sub_account_credentials
		WHERE location_id = ?`

	sqliteUpsertCredentials = `
		INSERT OR REPLACE INTO sub_account_credentials (location_id, api_key, program_id, updated_at)
		VALUES (?, ?, ?, ?)`
)

// OpenSQLite opens path with WAL journaling and a busy timeout so concurrent
// upserts queue instead of failing with SQLITE_BUSY.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return db, nil
}

type SQLiteCredentialStore struct {
	db *sql.DB
}

func NewSQLiteCredentialStore(db *sql.DB) *SQLiteCredentialStore {
	return &SQLiteCredentialStore{db: db}
}

func (s *SQLiteCredentialStore) Get(ctx context.Context, tenantID string) (TenantCredentials, error) {
	var creds TenantCredentials
	err := s.db.QueryRowContext(ctx, sqliteGetCredentials, tenantID).Scan(
		&creds.TenantID,
		&creds.APIKey,
		&creds.ProgramID,
		&creds.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return TenantCredentials{}, ErrNotFound
	}
	if err != nil {
		return TenantCredentials{}, newStoreError(unavailableStatus(err), "failed to read credentials", err)
	}
	return creds, nil
}

func (s *SQLiteCredentialStore) Put(ctx context.Context, creds TenantCredentials) error {
	_, err := s.db.ExecContext(ctx, sqliteUpsertCredentials,
		creds.TenantID,
		creds.APIKey,
		creds.ProgramID,
		time.Now().UTC(),
	)
	if err != nil {
		return newStoreError(unavailableStatus(err), "failed to save credentials", err)
	}
	return nil
}

func (s *SQLiteCredentialStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteCredentialStore) Close() error {
	return s.db.Close()
}
