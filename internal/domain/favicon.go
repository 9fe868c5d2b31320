package domain

import (
	"fmt"
	"net/url"
)

const (
	// faviconEndpoint is the third-party favicon fetch service.
	faviconEndpoint = "https://www.google.com/s2/favicons"
	// faviconSize is the requested icon size in pixels.
	faviconSize = 64
)

// FaviconURL derives a favicon image URL from a bookmark's hostname.
// It returns ("", false) when rawURL cannot be parsed or has no hostname;
// callers render no icon in that case, it is never an error.
func FaviconURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	host := u.Hostname()
	if host == "" {
		return "", false
	}

	return fmt.Sprintf("%s?domain=%s&sz=%d", faviconEndpoint, url.QueryEscape(host), faviconSize), true
}
