package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/garrettladley/passbridge/internal/client/smartpasses"
	"github.com/garrettladley/passbridge/internal/config"
	"github.com/garrettladley/passbridge/internal/oauth"
	"github.com/garrettladley/passbridge/internal/server/handler"
	"github.com/garrettladley/passbridge/internal/service/action"
	"github.com/garrettladley/passbridge/internal/service/auth"
	"github.com/garrettladley/passbridge/internal/service/tenant"
	"github.com/garrettladley/passbridge/internal/service/webhook"
	"github.com/garrettladley/passbridge/internal/storage"
	go_json "github.com/goccy/go-json"
)

type routeObserver struct {
	mu     sync.Mutex
	routes []string
}

func (o *routeObserver) ObserveHTTP(route string, _ int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.routes = append(o.routes, route)
}

func (o *routeObserver) last() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.routes) == 0 {
		return ""
	}
	return o.routes[len(o.routes)-1]
}

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string) (storage.RateLimitResult, error) {
	return storage.RateLimitResult{RetryAfter: time.Second}, nil
}
func (denyLimiter) Ping(context.Context) error { return nil }
func (denyLimiter) Close() error               { return nil }

func newTestHandler(t *testing.T, limiter storage.RateLimiter) (http.Handler, *routeObserver) {
	t.Helper()

	store := storage.NewMemoryCredentialStore()
	tenants := tenant.NewResolver(store)
	gateway := smartpasses.New(smartpasses.WithBaseURL("http://127.0.0.1:0"))

	obs := &routeObserver{}
	h := NewHandler(Deps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Handlers: Handlers{
			Action:   handler.NewAction(action.NewActions(tenants, gateway)),
			Webhook:  handler.NewWebhook(webhook.NewProcessor("secret", webhook.NewContactDispatcher(), nil)),
			Settings: handler.NewSettings(tenants),
			Auth:     handler.NewAuth(auth.NewOAuth(oauth.NewConfig(config.GHL{}), nil)),
			Health:   handler.NewHealth(map[string]handler.Pinger{"credentials": store, "ratelimit": limiter}),
		},
		RateLimiter: limiter,
		Observer:    obs,
	})
	return h, obs
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	limiter := storage.NewMemoryRateLimiter(100, 100)
	t.Cleanup(func() { _ = limiter.Close() })

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantRoute  string
		wantError  string
		wantAllow  string
	}{
		{name: "health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK, wantRoute: "GET /health"},
		{name: "ready", method: http.MethodGet, path: "/health/ready", wantStatus: http.StatusOK, wantRoute: "GET /health/ready"},
		{name: "banner", method: http.MethodGet, path: "/", wantStatus: http.StatusOK, wantRoute: "GET /{$}"},
		{
			name:       "unknown path",
			method:     http.MethodGet,
			path:       "/nope",
			wantStatus: http.StatusNotFound,
			wantRoute:  "unmatched",
			wantError:  msgRouteNotFound,
		},
		{
			name:       "wrong method",
			method:     http.MethodGet,
			path:       "/actions/add_points",
			wantStatus: http.StatusMethodNotAllowed,
			wantRoute:  "unmatched",
			wantError:  msgMethodNotAllowed,
			wantAllow:  http.MethodPost,
		},
		{
			name:       "unknown action",
			method:     http.MethodPost,
			path:       "/actions/redeem_offer",
			body:       `{}`,
			wantStatus: http.StatusNotFound,
			wantRoute:  "unmatched",
			wantError:  msgRouteNotFound,
		},
		{
			name:       "action without tenant",
			method:     http.MethodPost,
			path:       "/actions/send_push",
			body:       `{"message":"hi"}`,
			wantStatus: http.StatusBadRequest,
			wantRoute:  "POST /actions/send_push",
		},
		{
			name:       "legacy webhook path",
			method:     http.MethodPost,
			path:       "/webhook/ghl",
			body:       `{"type":"contact.created"}`,
			wantStatus: http.StatusBadRequest,
			wantRoute:  "POST /webhook/ghl",
		},
		{name: "oauth without code", method: http.MethodGet, path: "/oauth/callback", wantStatus: http.StatusBadRequest, wantRoute: "GET /oauth/callback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, obs := newTestHandler(t, limiter)

			req := httptest.NewRequestWithContext(t.Context(), tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := obs.last(); got != tt.wantRoute {
				t.Errorf("observed route = %q, want %q", got, tt.wantRoute)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Errorf("X-Request-ID header missing")
			}
			if got := rec.Header().Get("Allow"); got != tt.wantAllow {
				t.Errorf("Allow = %q, want %q", got, tt.wantAllow)
			}
			if tt.wantError != "" {
				if got := rec.Header().Get("Content-Type"); got != "application/json" {
					t.Errorf("Content-Type = %q, want application/json", got)
				}
				var body struct {
					Error string `json:"error"`
				}
				if err := go_json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("decoding error envelope %q: %v", rec.Body.String(), err)
				}
				if body.Error != tt.wantError {
					t.Errorf("error = %q, want %q", body.Error, tt.wantError)
				}
			}
			if !strings.Contains(rec.Header().Get("Content-Security-Policy"), "frame-ancestors") {
				t.Errorf("Content-Security-Policy = %q, want frame-ancestors", rec.Header().Get("Content-Security-Policy"))
			}
		})
	}
}

func TestRateLimitScope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "actions exempt", method: http.MethodPost, path: "/actions/get_customer", wantStatus: http.StatusBadRequest},
		{name: "settings save limited", method: http.MethodPost, path: "/settings/save", wantStatus: http.StatusTooManyRequests},
		{name: "health exempt", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "webhooks exempt", method: http.MethodPost, path: "/ghl/webhooks", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, obs := newTestHandler(t, denyLimiter{})

			req := httptest.NewRequestWithContext(t.Context(), tt.method, tt.path, strings.NewReader(`{}`))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := obs.last(); got == "unmatched" {
				t.Errorf("observed route = %q, want the matched pattern", got)
			}
		})
	}
}

func TestActionsIsolatedAcrossTenants(t *testing.T) {
	t.Parallel()

	// Burst of two from one shared egress address.
	limiter := storage.NewMemoryRateLimiter(1, 2)
	t.Cleanup(func() { _ = limiter.Close() })

	h, _ := newTestHandler(t, limiter)

	requests := []struct {
		tenant string
		body   string
	}{
		{tenant: "tenant-a", body: `{"location_id":"tenant-a","customer_id":"c1"}`},
		{tenant: "tenant-a", body: `{"location_id":"tenant-a","customer_id":"c2"}`},
		{tenant: "tenant-a", body: `{"location_id":"tenant-a","customer_id":"c3"}`},
		{tenant: "tenant-b", body: `{"location_id":"tenant-b","customer_id":"c1"}`},
	}

	for i, r := range requests {
		req := httptest.NewRequestWithContext(t.Context(), http.MethodPost, "/actions/get_customer", strings.NewReader(r.body))
		req.RemoteAddr = "198.51.100.10:443"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		// Unconfigured tenants reach the resolver and get 400, never 429.
		if rec.Code != http.StatusBadRequest {
			t.Errorf("request %d (%s): status = %d, want %d; body %s", i, r.tenant, rec.Code, http.StatusBadRequest, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "Smart Passes credentials") {
			t.Errorf("request %d (%s): body = %s, want the tenant resolution error", i, r.tenant, rec.Body.String())
		}
	}
}

func TestSettingsSaveLimitedPerPeer(t *testing.T) {
	t.Parallel()

	limiter := storage.NewMemoryRateLimiter(1, 1)
	t.Cleanup(func() { _ = limiter.Close() })

	h, _ := newTestHandler(t, limiter)

	send := func(remoteAddr, xff string) int {
		req := httptest.NewRequestWithContext(t.Context(), http.MethodPost, "/settings/save", strings.NewReader(`{}`))
		req.RemoteAddr = remoteAddr
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := send("203.0.113.1:5000", ""); got != http.StatusBadRequest {
		t.Fatalf("first save status = %d, want %d", got, http.StatusBadRequest)
	}
	if got := send("203.0.113.1:5000", "192.0.2.77"); got != http.StatusTooManyRequests {
		t.Errorf("spoofed X-Forwarded-For status = %d, want %d", got, http.StatusTooManyRequests)
	}
	if got := send("203.0.113.2:5000", ""); got != http.StatusBadRequest {
		t.Errorf("other peer status = %d, want %d", got, http.StatusBadRequest)
	}
}
