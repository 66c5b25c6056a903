// Package visitor extracts click metadata from incoming redirect requests.
package visitor

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// maxReferrerLength caps stored referrer strings.
const maxReferrerLength = 500

// Info holds the visitor metadata recorded with each click.
type Info struct {
	IP       string
	Browser  string
	Device   string
	Referrer string
}

// FromRequest extracts visitor info from a redirect request.
func FromRequest(r *http.Request) Info {
	ua := r.Header.Get("User-Agent")
	browser, device := ParseUserAgent(ua)

	return Info{
		IP:       ClientIP(r),
		Browser:  browser,
		Device:   device,
		Referrer: SanitizeReferrer(r.Header.Get("Referer")),
	}
}

// ParseUserAgent derives a coarse browser family and device class from a
// User-Agent string. This is intentionally a best-effort match on well-known
// substrings; unrecognized agents come back as "unknown".
func ParseUserAgent(ua string) (browser, device string) {
	if ua == "" {
		return "unknown", "unknown"
	}

	switch {
	case strings.Contains(ua, "Edg/") || strings.Contains(ua, "Edge/"):
		browser = "Edge"
	case strings.Contains(ua, "OPR/") || strings.Contains(ua, "Opera"):
		browser = "Opera"
	case strings.Contains(ua, "Firefox/"):
		browser = "Firefox"
	case strings.Contains(ua, "Chrome/"):
		browser = "Chrome"
	case strings.Contains(ua, "Safari/"):
		browser = "Safari"
	case strings.Contains(ua, "curl/"):
		browser = "curl"
	case strings.Contains(strings.ToLower(ua), "bot"):
		browser = "Bot"
	default:
		browser = "unknown"
	}

	switch {
	case strings.Contains(ua, "iPad") || strings.Contains(ua, "Tablet"):
		device = "tablet"
	case strings.Contains(ua, "Mobile") || strings.Contains(ua, "Android") || strings.Contains(ua, "iPhone"):
		device = "mobile"
	default:
		device = "desktop"
	}

	return browser, device
}

// SanitizeReferrer cleans and truncates the referrer URL.
// Strips query parameters and fragments for privacy.
func SanitizeReferrer(ref string) string {
	if ref == "" {
		return ""
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}

	parsed.RawQuery = ""
	parsed.Fragment = ""

	sanitized := parsed.String()
	if len(sanitized) > maxReferrerLength {
		return sanitized[:maxReferrerLength]
	}
	return sanitized
}

// ClientIP extracts the client IP address from the request.
func ClientIP(r *http.Request) string {
	// Check X-Forwarded-For first; take the first IP in the chain
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if idx := strings.IndexByte(ip, ','); idx >= 0 {
			return strings.TrimSpace(ip[:idx])
		}
		return strings.TrimSpace(ip)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	// Fall back to RemoteAddr, stripping the port
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
