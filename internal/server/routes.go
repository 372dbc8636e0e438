package server

import (
	"log/slog"
	"net/http"

	"github.com/garrettladley/passbridge/internal/server/handler"
	servermw "github.com/garrettladley/passbridge/internal/server/middleware"
	"github.com/garrettladley/passbridge/internal/storage"
	"github.com/garrettladley/passbridge/internal/telemetry"
	"github.com/garrettladley/passbridge/internal/xhttp/middleware"
)

// Handlers groups everything the router serves.
type Handlers struct {
	Action   *handler.Action
	Webhook  *handler.Webhook
	Settings *handler.Settings
	Auth     *handler.Auth
	Health   *handler.Health
	// Metrics serves the Prometheus exposition; nil leaves /metrics unrouted.
	Metrics http.Handler
}

type Deps struct {
	Logger      *slog.Logger
	Handlers    Handlers
	RateLimiter storage.RateLimiter
	// TrustProxy keys rate limiting on X-Forwarded-For instead of the peer.
	TrustProxy bool
	Observer   middleware.HTTPObserver
}

// NewHandler builds the routed, fully wrapped HTTP handler.
func NewHandler(deps Deps) http.Handler {
	h := deps.Handlers

	var limitOpts []servermw.RateLimitOption
	if deps.TrustProxy {
		limitOpts = append(limitOpts, servermw.WithForwardedFor())
	}
	limited := servermw.RateLimit(deps.RateLimiter, limitOpts...)

	mux := http.NewServeMux()

	// Not rate limited: every tenant's actions share the platform's egress IPs.
	mux.HandleFunc("POST /actions/create_customer", h.Action.HandleCreateCustomer)
	mux.HandleFunc("POST /actions/get_customer", h.Action.HandleGetCustomer)
	mux.HandleFunc("POST /actions/update_customer", h.Action.HandleUpdateCustomer)
	mux.HandleFunc("POST /actions/delete_customer", h.Action.HandleDeleteCustomer)
	mux.HandleFunc("POST /actions/add_points", h.Action.HandleAddPoints)
	mux.HandleFunc("POST /actions/send_push", h.Action.HandleSendPush)

	mux.HandleFunc("POST /ghl/webhooks", h.Webhook.HandleWebhook)
	// path the marketplace app was first registered with
	mux.HandleFunc("POST /webhook/ghl", h.Webhook.HandleWebhook)

	mux.HandleFunc("GET /settings", h.Settings.HandleSettingsPage)
	mux.Handle("POST /settings/save", limited(http.HandlerFunc(h.Settings.HandleSaveSettings)))

	mux.HandleFunc("GET /oauth/callback", h.Auth.HandleCallback)

	mux.HandleFunc("GET /health", h.Health.HandleHealth)
	mux.HandleFunc("GET /health/ready", h.Health.HandleReady)
	mux.HandleFunc("GET /{$}", h.Health.HandleIndex)

	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	return middleware.Chain(withJSONFallback(mux),
		middleware.RequestID(middleware.WithTrustedHeader()),
		middleware.Logger(deps.Logger),
		middleware.Recovery,
		middleware.Tracing(telemetry.ServiceName),
		middleware.Logging,
		middleware.SecurityHeaders,
		middleware.Metrics(deps.Observer),
	)
}
