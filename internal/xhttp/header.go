package xhttp

import (
	"net/http"
	"strconv"
	"time"
)

const (
	XForwardedFor         = "X-Forwarded-For"
	XContentTypeOpts      = "X-Content-Type-Options"
	XXSSProtection        = "X-Xss-Protection"
	ReferrerPolicy        = "Referrer-Policy"
	ContentSecurityPolicy = "Content-Security-Policy"
	XRequestID            = "X-Request-ID"
	XRateLimitReason      = "X-RateLimit-Reason"
)

const (
	Accept        = "Accept"
	Allow         = "Allow"
	Authorization = "Authorization"
	ContentType   = "Content-Type"
	UserAgent     = "User-Agent"
	RetryAfter    = "Retry-After"
)

const (
	ApplicationJSON = "application/json"
	TextHTML        = "text/html; charset=utf-8"
	TextPlain       = "text/plain; charset=utf-8"
)

func SetHeaderRequestID(w http.ResponseWriter, requestID string) {
	w.Header().Set(XRequestID, requestID)
}

func SetHeaderContentTypeApplicationJSON(w http.ResponseWriter) {
	w.Header().Set(ContentType, ApplicationJSON)
}

func SetHeaderContentTypeTextHTML(w http.ResponseWriter) {
	w.Header().Set(ContentType, TextHTML)
}

func SetHeaderContentTypeTextPlain(w http.ResponseWriter) {
	w.Header().Set(ContentType, TextPlain)
}

func SetHeaderRetryAfter(w http.ResponseWriter, retryAfter time.Duration) {
	seconds := int(retryAfter.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set(RetryAfter, strconv.Itoa(seconds))
}
