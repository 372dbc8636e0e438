package middleware

import (
	"net/http"
	"time"
)

const unmatchedRoute = "unmatched"

type HTTPObserver interface {
	ObserveHTTP(route string, status int, d time.Duration)
}

// Metrics records request counts and latency by ServeMux pattern. It must
// sit innermost: the mux sets Request.Pattern on the request it is handed,
// so no middleware may replace the request in between.
func Metrics(observer HTTPObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			route := r.Pattern
			if route == "" {
				route = unmatchedRoute
			}
			observer.ObserveHTTP(route, wrapped.status, time.Since(start))
		})
	}
}
