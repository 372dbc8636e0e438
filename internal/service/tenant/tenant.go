package tenant

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/garrettladley/passbridge/internal/storage"
	"github.com/garrettladley/passbridge/internal/xslog"
)

// unsetLocation is what the marketplace substitutes when a location id
// placeholder is not filled in.
const unsetLocation = "None"

type Resolver struct {
	store storage.CredentialStore
}

var _ Service = (*Resolver)(nil)

func NewResolver(store storage.CredentialStore) *Resolver {
	return &Resolver{store: store}
}

func (r *Resolver) Resolve(ctx context.Context, req ResolveRequest) (ResolvedContext, error) {
	tenantID := strings.TrimSpace(req.TenantID)
	if tenantID == "" {
		return ResolvedContext{}, ErrMissingTenantID
	}

	creds, err := r.store.Get(ctx, tenantID)
	if errors.Is(err, storage.ErrNotFound) {
		return ResolvedContext{}, ErrTenantNotConfigured
	}
	if err != nil {
		return ResolvedContext{}, storeUnavailable(err)
	}

	programID := strings.TrimSpace(req.ProgramID)
	if programID == "" {
		programID = creds.ProgramID
	}

	if creds.APIKey == "" || programID == "" {
		xslog.FromContext(ctx).WarnContext(ctx, "stored credentials are incomplete", xslog.TenantID(tenantID))
		return ResolvedContext{}, ErrTenantNotConfigured
	}

	return ResolvedContext{
		TenantID:  tenantID,
		APIKey:    creds.APIKey,
		ProgramID: programID,
	}, nil
}

func (r *Resolver) Save(ctx context.Context, req SaveRequest) error {
	locationID := strings.TrimSpace(req.LocationID)
	if locationID == "" || locationID == unsetLocation {
		return ErrInvalidLocation
	}

	apiKey := strings.TrimSpace(req.APIKey)
	programID := strings.TrimSpace(req.ProgramID)
	if apiKey == "" || programID == "" {
		return ErrMissingFields
	}

	if err := r.store.Put(ctx, storage.TenantCredentials{
		TenantID:  locationID,
		APIKey:    apiKey,
		ProgramID: programID,
	}); err != nil {
		return storeUnavailable(err)
	}

	xslog.FromContext(ctx).InfoContext(ctx, "saved tenant credentials",
		xslog.TenantID(locationID),
		xslog.ProgramID(programID),
	)
	return nil
}

func (r *Resolver) Settings(ctx context.Context, locationID string) (Settings, error) {
	locationID = strings.TrimSpace(locationID)
	if locationID == "" || locationID == unsetLocation {
		return Settings{}, ErrInvalidLocation
	}

	creds, err := r.store.Get(ctx, locationID)
	if errors.Is(err, storage.ErrNotFound) {
		return Settings{LocationID: locationID}, nil
	}
	if err != nil {
		return Settings{}, storeUnavailable(err)
	}

	return Settings{
		LocationID: locationID,
		ProgramID:  creds.ProgramID,
		HasAPIKey:  creds.APIKey != "",
	}, nil
}

func storeUnavailable(err error) *StoreUnavailableError {
	out := &StoreUnavailableError{
		StatusCode: http.StatusInternalServerError,
		Message:    "credential store request failed",
		Cause:      err,
	}
	var storeErr *storage.StoreError
	if errors.As(err, &storeErr) {
		if storeErr.StatusCode != 0 {
			out.StatusCode = storeErr.StatusCode
		}
		out.Message = storeErr.Message
	}
	return out
}
