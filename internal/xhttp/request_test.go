package xhttp

import (
	"net/http"
	"testing"
)

func TestGetRequestIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		xForwardedFor string
		remoteAddr    string
		expectedIP    string
	}{
		{
			name:          "remote addr with IP and port",
			xForwardedFor: "",
			remoteAddr:    "192.0.2.1:1234",
			expectedIP:    "192.0.2.1",
		},
		{
			name:          "remote addr with IP only",
			xForwardedFor: "",
			remoteAddr:    "192.0.2.1",
			expectedIP:    "192.0.2.1",
		},
		{
			name:          "IPv6 in remote addr",
			xForwardedFor: "",
			remoteAddr:    "[2001:db8::1]:1234",
			expectedIP:    "2001:db8::1",
		},
		{
			name:          "IPv6 without port in remote addr",
			xForwardedFor: "",
			remoteAddr:    "2001:db8::1",
			expectedIP:    "2001:db8::1",
		},
		{
			name:          "localhost IPv6",
			xForwardedFor: "",
			remoteAddr:    "[::1]:8080",
			expectedIP:    "::1",
		},
		{
			name:          "x-forwarded-for is ignored",
			xForwardedFor: "203.0.113.195",
			remoteAddr:    "192.0.2.1:1234",
			expectedIP:    "192.0.2.1",
		},
		{
			name:          "empty remote addr",
			xForwardedFor: "",
			remoteAddr:    "",
			expectedIP:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := buildRequest(t, tt.xForwardedFor, tt.remoteAddr)
			got := GetRequestIP(req)

			if got != tt.expectedIP {
				t.Errorf("GetRequestIP() = %q, want %q", got, tt.expectedIP)
			}
		})
	}
}

func TestGetForwardedIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		xForwardedFor []string
		remoteAddr    string
		expectedIP    string
	}{
		{
			name:          "single entry",
			xForwardedFor: []string{"203.0.113.195"},
			remoteAddr:    "10.0.0.2:1234",
			expectedIP:    "203.0.113.195",
		},
		{
			name:          "chain uses right-most entry",
			xForwardedFor: []string{"198.51.100.7, 70.41.3.18, 150.172.238.178"},
			remoteAddr:    "10.0.0.2:1234",
			expectedIP:    "150.172.238.178",
		},
		{
			name:          "spoofed left-most entry does not change the key",
			xForwardedFor: []string{"1.2.3.4, 203.0.113.195"},
			remoteAddr:    "10.0.0.2:1234",
			expectedIP:    "203.0.113.195",
		},
		{
			name:          "right-most entry with port",
			xForwardedFor: []string{"70.41.3.18,203.0.113.195:8080"},
			remoteAddr:    "10.0.0.2:1234",
			expectedIP:    "203.0.113.195",
		},
		{
			name:          "IPv6 with port",
			xForwardedFor: []string{"[2001:db8::1]:8080"},
			remoteAddr:    "10.0.0.2:1234",
			expectedIP:    "2001:db8::1",
		},
		{
			name:          "repeated headers use the last one",
			xForwardedFor: []string{"1.2.3.4", "203.0.113.195"},
			remoteAddr:    "10.0.0.2:1234",
			expectedIP:    "203.0.113.195",
		},
		{
			name:          "trailing comma skips to earlier header",
			xForwardedFor: []string{"203.0.113.195", " , "},
			remoteAddr:    "10.0.0.2:1234",
			expectedIP:    "203.0.113.195",
		},
		{
			name:          "no header falls back to remote addr",
			xForwardedFor: nil,
			remoteAddr:    "10.0.0.2:1234",
			expectedIP:    "10.0.0.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := buildRequest(t, "", tt.remoteAddr)
			for _, v := range tt.xForwardedFor {
				req.Header.Add(XForwardedFor, v)
			}

			if got := GetForwardedIP(req); got != tt.expectedIP {
				t.Errorf("GetForwardedIP() = %q, want %q", got, tt.expectedIP)
			}
		})
	}
}

func buildRequest(t *testing.T, xForwardedFor, remoteAddr string) *http.Request {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, "http://example.com", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	if xForwardedFor != "" {
		req.Header.Set(XForwardedFor, xForwardedFor)
	}

	req.RemoteAddr = remoteAddr

	return req
}
