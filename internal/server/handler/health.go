package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/garrettladley/passbridge/internal/version"
	"github.com/garrettladley/passbridge/internal/xerrors"
	"github.com/garrettladley/passbridge/internal/xhttp"
	"github.com/garrettladley/passbridge/internal/xslog"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName  = "SmartPasses GHL Bridge"
	readyTimeout = 2 * time.Second
	banner       = "SmartPasses bridge for GHL is running."
)

// Pinger is a dependency that must be reachable for the bridge to serve.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Health struct {
	deps map[string]Pinger
}

// NewHealth takes the named dependencies checked by readiness.
func NewHealth(deps map[string]Pinger) *Health {
	return &Health{deps: deps}
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// HandleHealth handles GET /health requests. It never touches dependencies.
func (h *Health) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	xhttp.WriteOK(w, healthResponse{
		Status:  "healthy",
		Service: serviceName,
		Version: version.Get(),
	})
}

// HandleReady handles GET /health/ready requests.
func (h *Health) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for name, dep := range h.deps {
		g.Go(func() error {
			if err := dep.Ping(gctx); err != nil {
				xslog.FromContext(ctx).WarnContext(ctx, "dependency not ready",
					xslog.Dependency(name),
					xslog.Error(err),
				)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		xerrors.WriteError(r.Context(), w, xerrors.ServiceUnavailable(
			xerrors.WithMessage("Service is not ready."),
			xerrors.WithCause(err),
		))
		return
	}

	xhttp.WriteOK(w, map[string]string{"status": "ready"})
}

// HandleIndex handles GET / requests.
func (h *Health) HandleIndex(w http.ResponseWriter, _ *http.Request) {
	xhttp.WriteText(w, http.StatusOK, banner)
}
