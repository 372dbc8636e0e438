package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/garrettladley/passbridge/internal/client/smartpasses"
	"github.com/garrettladley/passbridge/internal/service/action"
	"github.com/garrettladley/passbridge/internal/service/tenant"
	"github.com/garrettladley/passbridge/internal/xerrors"
	"github.com/garrettladley/passbridge/internal/xhttp"
	"github.com/garrettladley/passbridge/internal/xslog"
	go_json "github.com/goccy/go-json"
)

const (
	msgProviderFailure     = "Failed to communicate with the Smart Passes API"
	msgMissingTenant       = "location_id is required."
	msgTenantNotConfigured = "This location has no Smart Passes credentials. Save the App Key and Program ID on the settings page first."
	msgStoreUnavailable    = "Credential store is unavailable."
)

type Action struct {
	service action.Service
}

func NewAction(service action.Service) *Action {
	return &Action{service: service}
}

// HandleCreateCustomer handles POST /actions/create_customer requests.
func (h *Action) HandleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	serve(w, r, action.NameCreateCustomer, h.service.CreateCustomer)
}

// HandleGetCustomer handles POST /actions/get_customer requests.
func (h *Action) HandleGetCustomer(w http.ResponseWriter, r *http.Request) {
	serveRaw(w, r, action.NameGetCustomer, h.service.GetCustomer)
}

// HandleUpdateCustomer handles POST /actions/update_customer requests.
func (h *Action) HandleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	serveRaw(w, r, action.NameUpdateCustomer, h.service.UpdateCustomer)
}

// HandleDeleteCustomer handles POST /actions/delete_customer requests.
func (h *Action) HandleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	serve(w, r, action.NameDeleteCustomer, h.service.DeleteCustomer)
}

// HandleAddPoints handles POST /actions/add_points requests.
func (h *Action) HandleAddPoints(w http.ResponseWriter, r *http.Request) {
	serve(w, r, action.NameAddPoints, h.service.AddPoints)
}

// HandleSendPush handles POST /actions/send_push requests.
func (h *Action) HandleSendPush(w http.ResponseWriter, r *http.Request) {
	serve(w, r, action.NameSendPush, h.service.SendPush)
}

func serve[Req, Res any](w http.ResponseWriter, r *http.Request, name action.Name, fn func(context.Context, Req) (Res, error)) {
	ctx := xslog.WithAttrs(r.Context(), xslog.Action(string(name)))

	var req Req
	if err := decodeJSON(w, r, &req); err != nil {
		xerrors.WriteError(ctx, w, err)
		return
	}

	res, err := fn(ctx, req)
	if err != nil {
		xerrors.WriteError(ctx, w, actionError(err))
		return
	}

	xhttp.WriteOK(w, res)
}

func serveRaw[Req any](w http.ResponseWriter, r *http.Request, name action.Name, fn func(context.Context, Req) (go_json.RawMessage, error)) {
	ctx := xslog.WithAttrs(r.Context(), xslog.Action(string(name)))

	var req Req
	if err := decodeJSON(w, r, &req); err != nil {
		xerrors.WriteError(ctx, w, err)
		return
	}

	res, err := fn(ctx, req)
	if err != nil {
		xerrors.WriteError(ctx, w, actionError(err))
		return
	}

	xhttp.WriteRawJSON(w, http.StatusOK, res)
}

// actionError maps service failures onto the HTTP envelope. Provider
// failures keep the provider's status and raw body; transport failures and
// anything unrecognised collapse to a generic 500.
func actionError(err error) error {
	var (
		validation *action.ValidationError
		store      *tenant.StoreUnavailableError
		apiErr     *smartpasses.APIError
	)

	switch {
	case errors.Is(err, tenant.ErrMissingTenantID):
		return xerrors.BadRequest(xerrors.WithMessage(msgMissingTenant), xerrors.WithCause(err))
	case errors.Is(err, tenant.ErrTenantNotConfigured):
		return xerrors.BadRequest(xerrors.WithMessage(msgTenantNotConfigured), xerrors.WithCause(err))
	case errors.As(err, &validation):
		return xerrors.BadRequest(xerrors.WithMessage(validation.Message), xerrors.WithCause(err))
	case errors.As(err, &store):
		return storeError(store)
	case errors.As(err, &apiErr):
		return xerrors.New(apiErr.StatusCode,
			xerrors.WithMessage(msgProviderFailure),
			xerrors.WithDetails(apiErr.Body),
			xerrors.WithCause(err),
		)
	default:
		return xerrors.Internal(xerrors.WithCause(err))
	}
}

func storeError(err *tenant.StoreUnavailableError) error {
	return xerrors.New(err.StatusCode,
		xerrors.WithMessage(msgStoreUnavailable),
		xerrors.WithDetails(err.Message),
		xerrors.WithCause(err),
	)
}
