package middleware

import (
	"net/http"

	"github.com/garrettladley/passbridge/internal/xhttp"
)

// SecurityHeaders sets hardening headers. Frame embedding is limited to the
// automation platform's domains because the settings page renders inside it.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set(xhttp.XContentTypeOpts, "nosniff")
		h.Set(xhttp.XXSSProtection, "1; mode=block")
		h.Set(xhttp.ReferrerPolicy, "strict-origin-when-cross-origin")
		h.Set(xhttp.ContentSecurityPolicy, "frame-ancestors 'self' https://*.gohighlevel.com https://*.leadconnectorhq.com")
		next.ServeHTTP(w, r)
	})
}
