package domain

import (
	"net/url"
	"strings"
)

// IsNonNavigable reports hrefs that are never probed (mail and phone links).
func IsNonNavigable(href string) bool {
	lower := strings.ToLower(href)
	return strings.Contains(lower, "mailto:") || strings.Contains(lower, "tel:")
}

// ResolveLink turns an href without an HTTP(S) scheme into an absolute URL
// under base. Paths are not normalized.
func ResolveLink(href, base string) string {
	href = strings.TrimSpace(href)
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return href
	}

	base = strings.TrimSuffix(base, "/")
	if strings.HasPrefix(href, "//") {
		if parsed, err := url.Parse(base); err == nil && parsed.Scheme != "" {
			return parsed.Scheme + ":" + href
		}
	}
	if href != "" && !strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "?") && !strings.HasPrefix(href, "#") {
		href = "/" + href
	}
	return base + href
}
