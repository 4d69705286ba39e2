// Package clientip resolves the originating client IP of an HTTP request,
// looking through the proxy headers the platform deploys behind.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// FromRequest returns the client's IP address. Priority order:
//
//  1. X-Forwarded-For (first valid entry)
//  2. X-Real-IP
//  3. RemoteAddr
//
// Returns "unknown" when no candidate parses as an IP, so audit records
// always carry a value.
func FromRequest(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for entry := range strings.SplitSeq(forwarded, ",") {
			if ip := parseIP(entry); ip != "" {
				return ip
			}
		}
	}

	if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := parseIP(host); ip != "" {
		return ip
	}
	return "unknown"
}

// parseIP validates and normalizes an IP string; empty result means invalid.
func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
