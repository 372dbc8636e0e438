package storage

import (
	"context"
	"errors"
	"net/http"
	"time"
)

var ErrNotFound = errors.New("not found")

type RateLimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateLimitResult, error)
	Ping(ctx context.Context) error
	Close() error
}

// TenantCredentials are one sub-account's loyalty provider credentials.
type TenantCredentials struct {
	TenantID  string
	APIKey    string
	ProgramID string
	UpdatedAt time.Time
}

// CredentialStore maps tenant ids to provider credentials. Put is an upsert
// keyed by TenantID; the last write wins. There is intentionally no delete.
type CredentialStore interface {
	// Get returns ErrNotFound when the tenant has no stored credentials and a
	// *StoreError for any other failure.
	Get(ctx context.Context, tenantID string) (TenantCredentials, error)
	Put(ctx context.Context, creds TenantCredentials) error
	Ping(ctx context.Context) error
	Close() error
}

// StoreError is a credential store failure carrying the HTTP status the
// bridge should surface for it.
type StoreError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *StoreError) Unwrap() error { return e.Cause }

func newStoreError(status int, msg string, cause error) *StoreError {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &StoreError{StatusCode: status, Message: msg, Cause: cause}
}

// unavailableStatus classifies a backend error: cancellations and deadline
// overruns are reported as 503, everything else as 500.
func unavailableStatus(err error) int {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
