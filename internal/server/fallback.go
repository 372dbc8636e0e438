package server

import (
	"net/http"

	"github.com/garrettladley/passbridge/internal/xerrors"
	"github.com/garrettladley/passbridge/internal/xhttp"
)

const (
	msgRouteNotFound    = "Route not found."
	msgMethodNotAllowed = "Method not allowed."
)

// withJSONFallback answers requests that match no pattern with the JSON
// error envelope. Matched requests, including the mux's canonical-path
// redirects, are served by the mux itself so Request.Pattern is still set.
func withJSONFallback(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, pattern := mux.Handler(r)
		if pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}

		// The mux's own reply tells 404 from 405 and carries the Allow list.
		reply := &statusRecorder{header: make(http.Header)}
		h.ServeHTTP(reply, r)

		if reply.status == http.StatusMethodNotAllowed {
			w.Header().Set(xhttp.Allow, reply.header.Get(xhttp.Allow))
			xerrors.WriteError(r.Context(), w, xerrors.MethodNotAllowed(xerrors.WithMessage(msgMethodNotAllowed)))
			return
		}
		xerrors.WriteError(r.Context(), w, xerrors.NotFound(xerrors.WithMessage(msgRouteNotFound)))
	})
}

// statusRecorder keeps the status and headers of a reply and drops its body.
type statusRecorder struct {
	header http.Header
	status int
}

func (s *statusRecorder) Header() http.Header { return s.header }

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return len(b), nil
}
