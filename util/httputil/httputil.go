package httputil

import (
	"net"
	"net/http"
	"strings"
)

var (
	xForwardedFor = http.CanonicalHeaderKey("X-Forwarded-For")
	xTrueClientIP = http.CanonicalHeaderKey("True-Client-IP")
	xRealIP       = http.CanonicalHeaderKey("X-Real-IP")
)

// IPAddressMatcher should return true when a desired IP address is found.
type IPAddressMatcher func(net.IP) bool

// PublicIP accepts addresses routable on the internet.
func PublicIP(ip net.IP) bool {
	return ip.IsGlobalUnicast() && !ip.IsPrivate()
}

// AnyIP accepts every parsed address.
func AnyIP(net.IP) bool {
	return true
}

// FindIP returns the first IP address found in the request matching the predicate m.
// Proxy headers are consulted before the connection's remote address.
func FindIP(r *http.Request, m IPAddressMatcher) net.IP {
	if ip := parseHeaderIP(r.Header.Get(xTrueClientIP), m); ip != nil {
		return ip
	}

	if xff := r.Header.Get(xForwardedFor); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := parseHeaderIP(part, m); ip != nil {
				return ip
			}
		}
	}

	if ip := parseHeaderIP(r.Header.Get(xRealIP), m); ip != nil {
		return ip
	}

	if ipRaw, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return parseHeaderIP(ipRaw, m)
	}

	return nil
}

// ClientIP returns the textual client address, preferring a public one.
func ClientIP(r *http.Request) string {
	ip := FindIP(r, PublicIP)
	if ip == nil {
		ip = FindIP(r, AnyIP)
	}
	if ip == nil {
		return ""
	}
	return ip.String()
}

func parseHeaderIP(value string, m IPAddressMatcher) net.IP {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if ip := net.ParseIP(value); ip != nil && m(ip) {
		return ip
	}
	return nil
}
