// ABOUTME: URL helpers for backend base URLs and path segments
// ABOUTME: Trims trailing slashes and escapes opaque ids placed in request paths

package httputil

import (
	"net/url"
	"strings"
)

// NormalizeBaseURL trims trailing slashes so callers can append "/path".
func NormalizeBaseURL(baseURL string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

// Path joins segments into an absolute request path, escaping each segment.
// Path("tasks", "a/b", "complete") yields "/tasks/a%2Fb/complete".
func Path(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
