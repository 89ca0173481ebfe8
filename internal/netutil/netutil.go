package netutil

import (
	"net/netip"
	"strings"
	"unicode/utf8"
)

const MaxUserAgentLength = 512

// NormalizeIP takes either a bare IP string or an address that may include a
// port (e.g. "192.0.2.4:1234" or "[2001:db8::1]:443") and returns the
// canonical IP portion without zone identifiers. The second return reports
// whether the input parsed as an IP address.
func NormalizeIP(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if addrPort, err := netip.ParseAddrPort(raw); err == nil {
		if addr := addrPort.Addr().WithZone(""); addr.IsValid() {
			return addr.String(), true
		}
	}
	if addr, err := netip.ParseAddr(raw); err == nil {
		if addr = addr.WithZone(""); addr.IsValid() {
			return addr.String(), true
		}
	}
	// Bracketed IPv6 with a non-numeric port (e.g. "[::1]:port").
	if strings.HasPrefix(raw, "[") {
		if end := strings.LastIndex(raw, "]"); end > 0 {
			if addr, err := netip.ParseAddr(raw[1:end]); err == nil {
				if addr = addr.WithZone(""); addr.IsValid() {
					return addr.String(), true
				}
			}
		}
	}
	// Last resort: strip a trailing colon section and try again.
	if idx := strings.LastIndex(raw, ":"); idx > 0 {
		if addr, err := netip.ParseAddr(raw[:idx]); err == nil {
			if addr = addr.WithZone(""); addr.IsValid() {
				return addr.String(), true
			}
		}
	}
	return raw, false
}

// TruncateUserAgent trims overly long user agents to MaxUserAgentLength runes.
func TruncateUserAgent(ua string) string {
	if utf8.RuneCountInString(ua) <= MaxUserAgentLength {
		return ua
	}
	var b strings.Builder
	b.Grow(len(ua))
	count := 0
	for _, r := range ua {
		b.WriteRune(r)
		count++
		if count >= MaxUserAgentLength {
			break
		}
	}
	return b.String()
}
