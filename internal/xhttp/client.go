package xhttp

import (
	"net/http"
	"time"
)

type ClientOption func(*http.Client)

// WithTimeout bounds the whole exchange. Zero leaves the client without a deadline.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *http.Client) { c.Timeout = d }
}

func NewHTTPClient(opts ...ClientOption) *http.Client {
	c := &http.Client{Transport: NewTransport()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
