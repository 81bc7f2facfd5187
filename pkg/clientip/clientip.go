package clientip

import (
	"net"
	"net/http"
	"strings"
)

// FromRequest returns the client IP without the port. When the server sits behind a proxy,
// run chi's middleware.RealIP first so RemoteAddr already holds the forwarded address.
func FromRequest(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
