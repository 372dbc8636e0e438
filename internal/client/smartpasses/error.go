package smartpasses

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/garrettladley/passbridge/internal/metrics"
	go_json "github.com/goccy/go-json"
)

var (
	// ErrTransport covers failures where the provider produced no usable
	// answer: connection errors, unreadable bodies, malformed success bodies.
	ErrTransport = errors.New("smartpasses: transport failure")

	ErrMalformedResponse = fmt.Errorf("%w: malformed response", ErrTransport)
)

// APIError is a non-2xx answer from the provider. Body holds the raw
// response text, unmodified.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("smartpasses api: %d %s", e.StatusCode, e.Message)
}

func parseAPIError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    resp.Status,
		Body:       string(body),
	}

	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := go_json.Unmarshal(body, &errResp); err == nil {
		switch {
		case errResp.Message != "":
			apiErr.Message = errResp.Message
		case errResp.Error != "":
			apiErr.Message = errResp.Error
		}
	}

	return apiErr
}

func classify(err error) (status int, outcome string) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, metrics.OutcomeProviderError
	}
	return 0, metrics.OutcomeTransport
}
