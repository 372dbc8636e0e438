package handler

import (
	"errors"
	"net/http"

	"github.com/garrettladley/passbridge/internal/service/tenant"
	"github.com/garrettladley/passbridge/internal/xerrors"
	"github.com/garrettladley/passbridge/internal/xhttp"
)

const (
	paramLocationID = "locationId"
	saveSettingsURL = "/settings/save"

	msgInvalidLocation = "Location ID is missing. The app might not be configured correctly in the GHL Marketplace."
	msgMissingFields   = "Missing required fields (App Key or Program ID)."
	msgSettingsSaved   = "Settings saved successfully"
)

type Settings struct {
	service tenant.Service
}

func NewSettings(service tenant.Service) *Settings {
	return &Settings{service: service}
}

type settingsPage struct {
	Title      string
	LocationID string
	ProgramID  string
	HasAPIKey  bool
	SaveURL    string
}

type saveSettingsRequest struct {
	LocationID string `json:"locationId"`
	APIKey     string `json:"apiKey"`
	ProgramID  string `json:"programId"`
}

type statusMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HandleSettingsPage handles GET /settings requests. The page is embedded in
// the platform's custom menu link, which fills locationId in the query.
func (h *Settings) HandleSettingsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := settingsPage{Title: "Settings", SaveURL: saveSettingsURL}

	settings, err := h.service.Settings(ctx, r.URL.Query().Get(paramLocationID))
	switch {
	case errors.Is(err, tenant.ErrInvalidLocation):
		// rendered with the missing-location banner
	case err != nil:
		xerrors.WriteError(ctx, w, settingsError(err))
		return
	default:
		page.LocationID = settings.LocationID
		page.ProgramID = settings.ProgramID
		page.HasAPIKey = settings.HasAPIKey
	}

	renderPage(ctx, w, http.StatusOK, pageSettings, page)
}

// HandleSaveSettings handles POST /settings/save requests.
func (h *Settings) HandleSaveSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req saveSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		xerrors.WriteError(ctx, w, err)
		return
	}

	err := h.service.Save(ctx, tenant.SaveRequest{
		LocationID: req.LocationID,
		APIKey:     req.APIKey,
		ProgramID:  req.ProgramID,
	})
	if err != nil {
		xerrors.WriteError(ctx, w, settingsError(err))
		return
	}

	xhttp.WriteOK(w, statusMessage{Status: "success", Message: msgSettingsSaved})
}

func settingsError(err error) error {
	var store *tenant.StoreUnavailableError
	switch {
	case errors.Is(err, tenant.ErrInvalidLocation):
		return xerrors.BadRequest(xerrors.WithMessage(msgInvalidLocation), xerrors.WithCause(err))
	case errors.Is(err, tenant.ErrMissingFields):
		return xerrors.BadRequest(xerrors.WithMessage(msgMissingFields), xerrors.WithCause(err))
	case errors.As(err, &store):
		return storeError(store)
	default:
		return xerrors.Internal(xerrors.WithCause(err))
	}
}
