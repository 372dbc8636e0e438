package handler

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/garrettladley/passbridge/internal/oauth"
	"github.com/garrettladley/passbridge/internal/service/auth"
	"github.com/garrettladley/passbridge/internal/xslog"
)

const (
	supportEmail   = "support@smartpasses.com"
	supportSubject = "Credential Request for GoHighLevel"
	supportBody    = "Hello, I need my API credentials to integrate SmartPasses with GoHighLevel. Please provide me with my App Key and Program ID."

	msgMissingCode = "No authorization code was received from GoHighLevel."
	msgAuthFailed  = "Authentication could not be completed. Please try again or contact support."
)

type Auth struct {
	service auth.Service
}

func NewAuth(service auth.Service) *Auth {
	return &Auth{service: service}
}

type installSuccessPage struct {
	Title      string
	SupportURL template.URL
}

type installErrorPage struct {
	Title   string
	Message string
}

// HandleCallback handles GET /oauth/callback requests.
func (h *Auth) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := xslog.FromContext(ctx)
	q := r.URL.Query()

	_, err := h.service.HandleCallback(ctx, auth.CallbackRequest{
		Code:      q.Get(oauth.ParamCode),
		ErrorCode: q.Get(oauth.ParamError),
		ErrorDesc: q.Get(oauth.ParamErrorDescription),
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingCode):
			renderPage(ctx, w, http.StatusBadRequest, pageInstallError, installErrorPage{Title: "Error", Message: msgMissingCode})
		case errors.Is(err, auth.ErrAuthDenied):
			logger.WarnContext(ctx, "install denied", xslog.Error(err))
			renderPage(ctx, w, http.StatusBadRequest, pageInstallError, installErrorPage{Title: "Error", Message: msgAuthFailed})
		default:
			logger.ErrorContext(ctx, "oauth callback failed", xslog.Error(err))
			renderPage(ctx, w, http.StatusInternalServerError, pageInstallError, installErrorPage{Title: "Error", Message: msgAuthFailed})
		}
		return
	}

	renderPage(ctx, w, http.StatusOK, pageInstallSuccess, installSuccessPage{
		Title:      "Connection Successful",
		SupportURL: supportMailto(),
	})
}

func supportMailto() template.URL {
	q := url.Values{}
	q.Set("subject", supportSubject)
	q.Set("body", supportBody)
	// mailto bodies expect %20 rather than + for spaces.
	return template.URL("mailto:" + supportEmail + "?" + strings.ReplaceAll(q.Encode(), "+", "%20"))
}
