package handler

import (
	"errors"
	"net/http"

	"github.com/garrettladley/passbridge/internal/service/webhook"
	"github.com/garrettladley/passbridge/internal/xerrors"
	"github.com/garrettladley/passbridge/internal/xhttp"
	"github.com/garrettladley/passbridge/internal/xslog"
)

const headerWebhookSignature = "X-Webhook-Signature"

type Webhook struct {
	service webhook.Service
}

func NewWebhook(service webhook.Service) *Webhook {
	return &Webhook{service: service}
}

// HandleWebhook handles POST /ghl/webhooks requests.
func (h *Webhook) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := xslog.FromContext(ctx)

	body, err := readBody(w, r)
	if err != nil {
		xerrors.WriteError(ctx, w, err)
		return
	}

	ack, err := h.service.ProcessWebhook(ctx, webhook.ProcessRequest{
		Body:      body,
		Signature: r.Header.Get(headerWebhookSignature),
	})
	if err != nil {
		switch {
		case errors.Is(err, webhook.ErrMissingSignature):
			logger.WarnContext(ctx, "webhook signature or secret missing")
			xerrors.WriteError(ctx, w, xerrors.BadRequest(xerrors.WithMessage("Webhook security configuration is incomplete.")))
		case errors.Is(err, webhook.ErrInvalidSignature):
			logger.WarnContext(ctx, "invalid webhook signature", xslog.RequestIP(r))
			xerrors.WriteError(ctx, w, xerrors.Unauthorized(xerrors.WithMessage("Invalid signature.")))
		case errors.Is(err, webhook.ErrInvalidPayload):
			xerrors.WriteError(ctx, w, xerrors.BadRequest(xerrors.WithMessage("Webhook body must be a JSON object with a type."), xerrors.WithCause(err)))
		default:
			xerrors.WriteError(ctx, w, xerrors.Internal(xerrors.WithCause(err)))
		}
		return
	}

	xhttp.WriteOK(w, ack)
}
