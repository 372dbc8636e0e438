package xerrors

import (
	"errors"
	"net/http"
	"time"
)

// Error is an HTTP-facing failure. Message becomes the envelope's "error"
// field and Details its optional "details" field.
type Error struct {
	StatusCode int
	Message    string
	Details    string
	Cause      error
	RateLimit  *RateLimitInfo
}

type RateLimitInfo struct {
	RetryAfter time.Duration
	Reason     string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func Unauthorized(opts ...Option) *Error       { return New(http.StatusUnauthorized, opts...) }
func BadRequest(opts ...Option) *Error         { return New(http.StatusBadRequest, opts...) }
func Internal(opts ...Option) *Error           { return New(http.StatusInternalServerError, opts...) }
func ServiceUnavailable(opts ...Option) *Error { return New(http.StatusServiceUnavailable, opts...) }
func TooManyRequests(opts ...Option) *Error    { return New(http.StatusTooManyRequests, opts...) }
func NotFound(opts ...Option) *Error           { return New(http.StatusNotFound, opts...) }
func MethodNotAllowed(opts ...Option) *Error   { return New(http.StatusMethodNotAllowed, opts...) }

// New builds an error for an arbitrary status, e.g. one relayed from upstream.
// Statuses outside 400-599 are coerced to 500.
func New(status int, opts ...Option) *Error {
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	e := &Error{StatusCode: status, Message: defaultMessage(status)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func defaultMessage(status int) string {
	if status == http.StatusInternalServerError {
		return "An internal server error occurred."
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "Request failed."
}

type Option func(*Error)

func WithMessage(msg string) Option     { return func(e *Error) { e.Message = msg } }
func WithDetails(details string) Option { return func(e *Error) { e.Details = details } }
func WithCause(err error) Option        { return func(e *Error) { e.Cause = err } }

func WithRetryAfter(d time.Duration) Option {
	return func(e *Error) {
		if e.RateLimit == nil {
			e.RateLimit = &RateLimitInfo{}
		}
		e.RateLimit.RetryAfter = d
	}
}

func WithReason(reason string) Option {
	return func(e *Error) {
		if e.RateLimit == nil {
			e.RateLimit = &RateLimitInfo{}
		}
		e.RateLimit.Reason = reason
	}
}

func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
