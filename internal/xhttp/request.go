package xhttp

import (
	"net"
	"net/http"
	"strings"
)

// GetRequestIP returns the address of the connected peer.
func GetRequestIP(r *http.Request) string {
	return hostOnly(r.RemoteAddr)
}

// GetForwardedIP returns the right-most X-Forwarded-For entry, which is the
// hop appended by the reverse proxy in front of the bridge. Entries to its
// left are client-supplied. Without the header it falls back to the peer
// address. Only meaningful when such a proxy is actually deployed.
func GetForwardedIP(r *http.Request) string {
	values := r.Header.Values(XForwardedFor)
	for i := len(values) - 1; i >= 0; i-- {
		hops := strings.Split(values[i], ",")
		if last := strings.TrimSpace(hops[len(hops)-1]); last != "" {
			return hostOnly(last)
		}
	}
	return GetRequestIP(r)
}

func hostOnly(addr string) string {
	if ip, _, err := net.SplitHostPort(addr); err == nil {
		return ip
	}
	return addr
}
