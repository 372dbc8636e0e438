package handler

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/garrettladley/passbridge/internal/xhttp"
	"github.com/garrettladley/passbridge/internal/xslog"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	pageSettings       = "settings.html"
	pageInstallSuccess = "install_success.html"
	pageInstallError   = "install_error.html"
)

// renderPage executes into a buffer first so a template failure never
// leaves a half-written page behind a 200.
func renderPage(ctx context.Context, w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		xslog.FromContext(ctx).ErrorContext(ctx, "failed to render page", xslog.Error(err))
		xhttp.WriteText(w, http.StatusInternalServerError, "An internal server error occurred.")
		return
	}
	xhttp.WriteHTML(w, status, buf.Bytes())
}
