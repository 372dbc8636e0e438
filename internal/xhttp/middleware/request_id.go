package middleware

import (
	"net/http"

	"github.com/garrettladley/passbridge/internal/xcontext"
	"github.com/garrettladley/passbridge/internal/xhttp"
	"github.com/google/uuid"
)

type RequestIDMiddleware struct {
	IDFunc func(*http.Request) string
}

type RequestIDOption func(*RequestIDMiddleware)

// WithIDFunc overrides how ids are minted.
func WithIDFunc(fn func(*http.Request) string) RequestIDOption {
	return func(m *RequestIDMiddleware) { m.IDFunc = fn }
}

// WithTrustedHeader reuses an inbound X-Request-ID when it parses as a UUID.
func WithTrustedHeader() RequestIDOption {
	return func(m *RequestIDMiddleware) {
		fallback := m.IDFunc
		m.IDFunc = func(r *http.Request) string {
			if id, err := uuid.Parse(r.Header.Get(xhttp.XRequestID)); err == nil {
				return id.String()
			}
			return fallback(r)
		}
	}
}

func RequestID(opts ...RequestIDOption) func(http.Handler) http.Handler {
	m := &RequestIDMiddleware{
		IDFunc: func(_ *http.Request) string {
			return uuid.New().String()
		},
	}

	for _, opt := range opts {
		opt(m)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := m.IDFunc(r)
			ctx := xcontext.SetRequestID(r.Context(), id)
			xhttp.SetHeaderRequestID(w, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
