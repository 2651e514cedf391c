// Package canon maps raw result URLs to stable identifiers used as dedupe keys.
package canon

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters that never change which resource a URL
// points at. Keys are compared case-insensitively.
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"ref":          true,
	"fbclid":       true,
	"gclid":        true,
	"trk":          true,
	"trksite":      true,
}

// Normalize returns the canonical identifier for raw: tracking parameters are
// removed, trailing slashes are stripped from the path and the result is
// rebuilt as scheme://host/path[?query]. Remaining query parameters keep their
// original order and encoding. Input that is not an absolute URL is returned
// unchanged.
func Normalize(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(strings.ToLower(u.Host))
	b.WriteString(strings.TrimRight(u.EscapedPath(), "/"))

	if q := stripTracking(u.RawQuery); q != "" {
		b.WriteByte('?')
		b.WriteString(q)
	}
	return b.String()
}

// stripTracking drops tracking parameters (and empty segments) from a raw
// query string without re-encoding the rest.
func stripTracking(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	parts := strings.Split(rawQuery, "&")
	kept := parts[:0]
	for _, part := range parts {
		if part == "" {
			continue
		}
		key, _, _ := strings.Cut(part, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if trackingParams[strings.ToLower(key)] {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "&")
}
