package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ CredentialStore = (*PostgresCredentialStore)(nil)

const (
	pgGetCredentials = `
		SELECT location_id, api_key, program_id, updated_at
		FROM sub_account_credentials
		WHERE location_id = $1`

	pgUpsertCredentials = `
		INSERT INTO sub_account_credentials (location_id, api_key, program_id, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (location_id) DO UPDATE
		SET api_key = EXCLUDED.api_key,
			program_id = EXCLUDED.program_id,
			updated_at = EXCLUDED.updated_at`
)

type PostgresCredentialStore struct {
	pool *pgxpool.Pool
}

func NewPostgresCredentialStore(pool *pgxpool.Pool) *PostgresCredentialStore {
	return &PostgresCredentialStore{pool: pool}
}

func (s *PostgresCredentialStore) Get(ctx context.Context, tenantID string) (TenantCredentials, error) {
	var creds TenantCredentials
	err := s.pool.QueryRow(ctx, pgGetCredentials, tenantID).Scan(
		&creds.TenantID,
		&creds.APIKey,
		&creds.ProgramID,
		&creds.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return TenantCredentials{}, ErrNotFound
	}
	if err != nil {
		return TenantCredentials{}, newStoreError(unavailableStatus(err), "failed to read credentials", err)
	}
	return creds, nil
}

func (s *PostgresCredentialStore) Put(ctx context.Context, creds TenantCredentials) error {
	if _, err := s.pool.Exec(ctx, pgUpsertCredentials, creds.TenantID, creds.APIKey, creds.ProgramID); err != nil {
		return newStoreError(unavailableStatus(err), "failed to save credentials", err)
	}
	return nil
}

func (s *PostgresCredentialStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresCredentialStore) Close() error {
	s.pool.Close()
	return nil
}
