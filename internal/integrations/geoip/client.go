package geoip

import (
	"context"
	"net"
)

// Client resolves a client IP to a country display name.
type Client interface {
	Country(ctx context.Context, ip string) (string, error)
}

// IsPublic reports whether ip is a routable address worth looking up.
func IsPublic(ip string) bool {
	addr := net.ParseIP(ip)
	if addr == nil {
		return false
	}
	return !(addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() ||
		addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() || addr.IsMulticast())
}
