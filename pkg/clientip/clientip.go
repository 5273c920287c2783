package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// RealClientIP returns the client IP from the request.
// Uses r.RemoteAddr only, which chi's RealIP middleware has already rewritten
// when the service sits behind a trusted proxy.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}

// RateLimitKey groups clients for rate limiting. IPv4 addresses are used as
// is; IPv6 addresses collapse to their /64 since a single host usually owns
// the whole prefix.
func RateLimitKey(r *http.Request) string {
	return Key(RealClientIP(r))
}

// Key normalizes a textual address the way RateLimitKey does.
func Key(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return ip
	}
	addr = addr.Unmap()
	if addr.Is4() {
		return addr.String()
	}
	prefix, err := addr.WithZone("").Prefix(64)
	if err != nil {
		return addr.String()
	}
	return prefix.String()
}
