package smartpasses

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/garrettladley/passbridge/internal/config"
	"github.com/garrettladley/passbridge/internal/metrics"
	"github.com/garrettladley/passbridge/internal/xhttp"
	"github.com/garrettladley/passbridge/internal/xslog"
	go_json "github.com/goccy/go-json"
)

// Observer receives one observation per provider call.
type Observer interface {
	ObserveProvider(action, outcome string, d time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveProvider(string, string, time.Duration) {}

// Request is one outbound call. Path is relative to the client's base URL and
// must already be escaped. A nil Body sends no body and no Content-Type.
type Request struct {
	Action string
	Method string
	Path   string
	Body   any
}

type Response struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the success body into v. An empty or invalid body yields
// ErrMalformedResponse.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	if err := go_json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

// Client executes requests against the loyalty provider. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   Observer
}

func New(opts ...Option) *Client {
	cfg := &clientConfig{
		baseURL:  config.DefaultSmartPassesBaseURL,
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = xhttp.NewHTTPClient(xhttp.WithTimeout(cfg.timeout))
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.baseURL, "/"),
		httpClient: httpClient,
		observer:   cfg.observer,
	}
}

type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	observer   Observer
}

type Option func(*clientConfig)

func WithBaseURL(baseURL string) Option {
	return func(cfg *clientConfig) { cfg.baseURL = baseURL }
}

func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) { cfg.httpClient = c }
}

// WithTimeout is ignored when WithHTTPClient is also given.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) { cfg.timeout = d }
}

func WithObserver(o Observer) Option {
	return func(cfg *clientConfig) {
		if o != nil {
			cfg.observer = o
		}
	}
}

// Do sends req authenticated with apiKey. A non-2xx status returns
// *APIError; a connection or read failure returns an error wrapping
// ErrTransport.
func (c *Client) Do(ctx context.Context, apiKey string, req Request) (*Response, error) {
	start := time.Now()
	resp, err := c.do(ctx, apiKey, req)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	outcome := metrics.OutcomeSuccess
	if err != nil {
		status, outcome = classify(err)
	}
	elapsed := time.Since(start)
	c.observer.ObserveProvider(req.Action, outcome, elapsed)

	xslog.FromContext(ctx).DebugContext(ctx, "provider call",
		xslog.Action(req.Action),
		xslog.ProviderGroup(req.Method, req.Path, status, elapsed),
	)

	return resp, err
}

func (c *Client) do(ctx context.Context, apiKey string, req Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		data, err := go_json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set(xhttp.Authorization, apiKey)
	httpReq.Header.Set(xhttp.Accept, xhttp.ApplicationJSON)
	if req.Body != nil {
		httpReq.Header.Set(xhttp.ContentType, xhttp.ApplicationJSON)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseAPIError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrTransport, err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}
