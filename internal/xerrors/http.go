package xerrors

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/garrettladley/passbridge/internal/xhttp"
	"github.com/garrettladley/passbridge/internal/xslog"
	go_json "github.com/goccy/go-json"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteError renders err as the JSON error envelope. Anything that is not an
// *Error becomes a generic 500 so internals never reach the caller.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := As(err)
	if appErr == nil {
		appErr = Internal(WithCause(err))
	}

	logError(ctx, appErr)

	xhttp.SetHeaderContentTypeApplicationJSON(w)

	if appErr.RateLimit != nil {
		if appErr.RateLimit.RetryAfter > 0 {
			xhttp.SetHeaderRetryAfter(w, appErr.RateLimit.RetryAfter)
		}
		if appErr.RateLimit.Reason != "" {
			w.Header().Set(xhttp.XRateLimitReason, appErr.RateLimit.Reason)
		}
	}

	w.WriteHeader(appErr.StatusCode)

	_ = go_json.NewEncoder(w).Encode(errorResponse{
		Error:   appErr.Message,
		Details: appErr.Details,
	})
}

func logError(ctx context.Context, err *Error) {
	logger := xslog.FromContext(ctx)
	attrs := []any{
		xslog.HTTPStatus(err.StatusCode),
		slog.String("message", err.Message),
	}
	if err.Cause != nil {
		attrs = append(attrs, xslog.Error(err.Cause))
	}
	if err.RateLimit != nil {
		attrs = append(attrs, slog.Any("rate_limit", err.RateLimit))
	}

	switch err.StatusCode / 100 {
	case 5:
		logger.ErrorContext(ctx, "server error", attrs...)
	case 4:
		logger.WarnContext(ctx, "client error", attrs...)
	default:
		logger.InfoContext(ctx, "error response", attrs...)
	}
}
