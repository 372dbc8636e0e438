package storage

import (
	"context"
	"sync"
	"time"
)

var _ CredentialStore = (*MemoryCredentialStore)(nil)

// MemoryCredentialStore keeps credentials in the process. Each instance owns
// its own map; it backs tests and DATABASE_DRIVER=memory development runs.
type MemoryCredentialStore struct {
	mu    sync.RWMutex
	creds map[string]TenantCredentials
	now   func() time.Time
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{
		creds: make(map[string]TenantCredentials),
		now:   time.Now,
	}
}

func (s *MemoryCredentialStore) Get(_ context.Context, tenantID string) (TenantCredentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds, ok := s.creds[tenantID]
	if !ok {
		return TenantCredentials{}, ErrNotFound
	}
	return creds, nil
}

func (s *MemoryCredentialStore) Put(_ context.Context, creds TenantCredentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds.UpdatedAt = s.now().UTC()
	s.creds[creds.TenantID] = creds
	return nil
}

func (s *MemoryCredentialStore) Ping(context.Context) error { return nil }

func (s *MemoryCredentialStore) Close() error { return nil }
