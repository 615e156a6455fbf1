package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds each request so a stalled payment processor call cannot
// hold a handler open indefinitely. The deadline propagates through the
// request context to the gateway and repository calls.
func Timeout(limit time.Duration) func(http.Handler) http.Handler {
	body := `{"success":false,"error":{"code":"TIMEOUT","message":"request timed out"}}`
	return func(next http.Handler) http.Handler {
		wrapped := http.TimeoutHandler(next, limit, body)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), limit)
			defer cancel()
			wrapped.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
