package xhttp

import (
	"fmt"
	"net/http"

	"github.com/garrettladley/passbridge/internal/version"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type userAgentTransport struct {
	base http.RoundTripper
}

var _ http.RoundTripper = (*userAgentTransport)(nil)

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set(UserAgent, version.UserAgent())
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform round trip: %w", err)
	}
	return resp, nil
}

// NewTransport returns a traced http.RoundTripper that stamps the bridge User-Agent.
func NewTransport() http.RoundTripper {
	return otelhttp.NewTransport(&userAgentTransport{base: http.DefaultTransport})
}
