// Package netx contains small HTTP networking helpers.
package netx

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the client IP address from the request, considering
// proxy headers. The lookup order is X-Forwarded-For (first entry),
// X-Real-IP, then the socket address. Header values are request-derived
// and non-authoritative; they are used for rate-limit keying and session
// metadata, never for authentication decisions.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// first IP in the list is the original client
		return strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
