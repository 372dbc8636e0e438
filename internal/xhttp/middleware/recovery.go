package middleware

import (
	"net/http"

	"github.com/garrettladley/passbridge/internal/xerrors"
	"github.com/garrettladley/passbridge/internal/xslog"
)

// Recovery turns a panic into the standard JSON 500 envelope.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				xslog.FromContext(r.Context()).ErrorContext(
					r.Context(),
					"panic recovered",
					xslog.RequestGroup(r),
					xslog.ErrorGroupWithStack(err),
				)
				xerrors.WriteError(r.Context(), w, xerrors.Internal())
			}
		}()
		next.ServeHTTP(w, r)
	})
}
