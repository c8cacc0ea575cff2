package newswatch

import (
	"net/url"
	"strings"
)

// NormalizeURL reduces a URL to the comparison key used for duplicate
// detection: host plus path, with the scheme, query string, fragment, a
// leading "www." and a single trailing slash removed.
//
// Example: "https://www.nytimes.com/2025/07/31/us/politics/ballroom.html?src=rss"
// becomes "nytimes.com/2025/07/31/us/politics/ballroom.html".
//
// The function is deterministic and idempotent, never touches the
// network, and degrades to a best-effort string on malformed input
// rather than failing the caller. Empty input yields an empty string.
func NormalizeURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return normalizeFallback(raw)
	}

	// For scheme-less input ("example.com/a/b") the parser leaves the
	// host inside Path, so concatenating Host and Path covers both
	// shapes. Query and fragment are already excluded from Path.
	key := u.Host + u.Path
	key = strings.TrimPrefix(key, "www.")
	key = strings.TrimSuffix(key, "/")

	return key
}

// normalizeFallback handles input the URL parser rejects by stripping
// the same components with plain string operations.
func normalizeFallback(raw string) string {
	if i := strings.Index(raw, "://"); i >= 0 {
		raw = raw[i+3:]
	}
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimPrefix(raw, "www.")
	raw = strings.TrimSuffix(raw, "/")

	return raw
}
