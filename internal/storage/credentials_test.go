package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/garrettladley/passbridge/internal/config"
	"github.com/garrettladley/passbridge/internal/migrations/sqlite"
	"github.com/garrettladley/passbridge/internal/storage"
)

func newSQLiteStore(t *testing.T) storage.CredentialStore {
	t.Helper()

	db, err := storage.OpenSQLite(t.Context(), filepath.Join(t.TempDir(), "passbridge.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if _, err := sqlite.Apply(t.Context(), db); err != nil {
		t.Fatalf("sqlite.Apply() error = %v", err)
	}
	store := storage.NewSQLiteCredentialStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCredentialStores(t *testing.T) {
	t.Parallel()

	stores := []struct {
		name string
		new  func(t *testing.T) storage.CredentialStore
	}{
		{name: "memory", new: func(*testing.T) storage.CredentialStore { return storage.NewMemoryCredentialStore() }},
		{name: "sqlite", new: newSQLiteStore},
	}

	for _, s := range stores {
		t.Run(s.name, func(t *testing.T) {
			t.Parallel()

			t.Run("get missing", func(t *testing.T) {
				t.Parallel()
				store := s.new(t)

				_, err := store.Get(t.Context(), "loc-missing")
				if !errors.Is(err, storage.ErrNotFound) {
					t.Errorf("Get() error = %v, want %v", err, storage.ErrNotFound)
				}
			})

			t.Run("last write wins", func(t *testing.T) {
				t.Parallel()
				store := s.new(t)
				ctx := t.Context()

				first := storage.TenantCredentials{TenantID: "loc-1", APIKey: "key-a", ProgramID: "prog-a"}
				second := storage.TenantCredentials{TenantID: "loc-1", APIKey: "key-b", ProgramID: "prog-b"}
				mustPut(ctx, t, store, first)
				mustPut(ctx, t, store, second)

				got, err := store.Get(ctx, "loc-1")
				if err != nil {
					t.Fatalf("Get() error = %v", err)
				}
				if got.APIKey != "key-b" || got.ProgramID != "prog-b" {
					t.Errorf("Get() = %+v, want api key %q and program %q", got, "key-b", "prog-b")
				}
				if got.UpdatedAt.IsZero() {
					t.Error("Get() UpdatedAt is zero")
				}
			})

			t.Run("tenants are isolated", func(t *testing.T) {
				t.Parallel()
				store := s.new(t)
				ctx := t.Context()

				mustPut(ctx, t, store, storage.TenantCredentials{TenantID: "loc-a", APIKey: "ka", ProgramID: "pa"})
				mustPut(ctx, t, store, storage.TenantCredentials{TenantID: "loc-b", APIKey: "kb", ProgramID: "pb"})

				got, err := store.Get(ctx, "loc-a")
				if err != nil {
					t.Fatalf("Get() error = %v", err)
				}
				if got.APIKey != "ka" {
					t.Errorf("Get(loc-a).APIKey = %q, want %q", got.APIKey, "ka")
				}
			})
		})
	}
}

func TestMemoryCredentialStoreInstancesAreIndependent(t *testing.T) {
	t.Parallel()

	a := storage.NewMemoryCredentialStore()
	b := storage.NewMemoryCredentialStore()
	mustPut(t.Context(), t, a, storage.TenantCredentials{TenantID: "loc-1", APIKey: "k", ProgramID: "p"})

	if _, err := b.Get(t.Context(), "loc-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() on separate instance error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestSQLiteMigrationsIdempotent(t *testing.T) {
	t.Parallel()

	db, err := storage.OpenSQLite(t.Context(), filepath.Join(t.TempDir(), "passbridge.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	first, err := sqlite.Apply(t.Context(), db)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(first) == 0 {
		t.Fatal("Apply() applied nothing on a fresh database")
	}

	second, err := sqlite.Apply(t.Context(), db)
	if err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}
	if len(second) != 0 {
		t.Errorf("second Apply() applied %v, want none", second)
	}
}

func TestStoreErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := error(&storage.StoreError{StatusCode: 503, Message: "failed to read credentials", Cause: cause})

	if !errors.Is(err, cause) {
		t.Error("errors.Is(StoreError, cause) = false, want true")
	}
	if got, want := err.Error(), "failed to read credentials: connection reset"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func mustPut(ctx context.Context, t *testing.T, store storage.CredentialStore, creds storage.TenantCredentials) {
	t.Helper()
	if err := store.Put(ctx, creds); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
}

func TestOpenCredentialStoreSQLite(t *testing.T) {
	t.Parallel()

	cfg := config.Database{Driver: config.DriverSQLite, URL: filepath.Join(t.TempDir(), "open.db")}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := storage.OpenCredentialStore(t.Context(), cfg, logger)
	if err != nil {
		t.Fatalf("OpenCredentialStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Put(t.Context(), storage.TenantCredentials{TenantID: "loc", APIKey: "k", ProgramID: "p"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, err := store.Get(t.Context(), "loc"); err != nil {
		t.Errorf("Get() error = %v", err)
	}

	if _, err := storage.OpenCredentialStore(t.Context(), config.Database{Driver: "mongo"}, logger); err == nil {
		t.Errorf("OpenCredentialStore(mongo) error = nil, want error")
	}
}
