package middleware

import (
	"net/http"

	"github.com/garrettladley/passbridge/internal/storage"
	"github.com/garrettladley/passbridge/internal/xerrors"
	"github.com/garrettladley/passbridge/internal/xhttp"
	"github.com/garrettladley/passbridge/internal/xslog"
)

const reasonIPRateLimit = "ip_rate_limit"

type RateLimitOption func(*rateLimitConfig)

type rateLimitConfig struct {
	clientIP func(*http.Request) string
}

// WithForwardedFor keys the limiter on the hop appended to X-Forwarded-For
// by a trusted reverse proxy instead of the connection's peer address.
func WithForwardedFor() RateLimitOption {
	return func(cfg *rateLimitConfig) {
		cfg.clientIP = xhttp.GetForwardedIP
	}
}

// RateLimit applies per-client-IP limiting. A limiter failure rejects the
// request with 503 rather than letting it through.
func RateLimit(limiter storage.RateLimiter, opts ...RateLimitOption) func(http.Handler) http.Handler {
	cfg := &rateLimitConfig{clientIP: xhttp.GetRequestIP}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := cfg.clientIP(r)

			result, err := limiter.Allow(ctx, ip)
			if err != nil {
				xslog.FromContext(ctx).ErrorContext(ctx, "rate limit check failed",
					xslog.ErrorGroup(err),
					xslog.IP(ip),
				)
				xerrors.WriteError(ctx, w, xerrors.ServiceUnavailable(xerrors.WithMessage("Rate limit check failed.")))
				return
			}

			if !result.Allowed {
				xerrors.WriteError(ctx, w, xerrors.TooManyRequests(
					xerrors.WithMessage("Too many requests."),
					xerrors.WithRetryAfter(result.RetryAfter),
					xerrors.WithReason(reasonIPRateLimit),
				))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
