package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"coursework/pkg/metrics"
)

func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			route := RouteLabel(r.URL.Path)
			metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(wrapped.statusCode), r.Method).Inc()
			metrics.RequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}

// RouteLabel collapses ids and file paths so label cardinality stays bounded:
// /lessons/abc becomes /lessons/:id and /images/a/b.png becomes /images/*.
func RouteLabel(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return "/"
	}

	switch segments[0] {
	case "lessons", "orders":
		if len(segments) > 1 {
			return "/" + segments[0] + "/:id"
		}
		return "/" + segments[0]
	case "images":
		return "/images/*"
	case "search", "health":
		return "/" + segments[0]
	default:
		return "other"
	}
}
