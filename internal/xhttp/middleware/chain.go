package middleware

import (
	"net/http"
	"slices"
)

// Chain wraps h so that the first middleware listed is the outermost.
func Chain(h http.Handler, middleware ...func(http.Handler) http.Handler) http.Handler {
	ordered := slices.Clone(middleware)
	slices.Reverse(ordered)
	for _, m := range ordered {
		h = m(h)
	}
	return h
}
