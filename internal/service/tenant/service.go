package tenant

import (
	"context"
	"errors"
)

var (
	ErrMissingTenantID     = errors.New("missing tenant id")
	ErrTenantNotConfigured = errors.New("tenant not configured")
	ErrInvalidLocation     = errors.New("invalid location id")
	ErrMissingFields       = errors.New("missing required fields")
)

// ResolveRequest carries the tenant fields of an inbound action payload.
type ResolveRequest struct {
	TenantID  string
	ProgramID string
}

// ResolvedContext is the credential pair an action runs with. Both fields
// are always non-empty.
type ResolvedContext struct {
	TenantID  string
	APIKey    string
	ProgramID string
}

type SaveRequest struct {
	LocationID string
	APIKey     string
	ProgramID  string
}

// Settings is what the settings form may show. The API key itself never
// leaves the store.
type Settings struct {
	LocationID string
	ProgramID  string
	HasAPIKey  bool
}

type Service interface {
	// Resolve returns ErrMissingTenantID, ErrTenantNotConfigured, or a
	// *StoreUnavailableError.
	Resolve(ctx context.Context, req ResolveRequest) (ResolvedContext, error)

	// Save upserts credentials. Returns ErrInvalidLocation, ErrMissingFields,
	// or a *StoreUnavailableError.
	Save(ctx context.Context, req SaveRequest) error

	// Settings returns the stored settings for a location, or a zero
	// Settings with only LocationID set when nothing is stored.
	Settings(ctx context.Context, locationID string) (Settings, error)
}

// StoreUnavailableError reports a credential store failure with the status
// the store attached to it.
type StoreUnavailableError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *StoreUnavailableError) Error() string {
	return "credential store unavailable: " + e.Message
}

func (e *StoreUnavailableError) Unwrap() error { return e.Cause }
