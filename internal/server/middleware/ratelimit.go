package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/clawbets/clawdash/internal/domain"
)

// RateLimit returns middleware that applies per-client sliding-window rate
// limiting using the provided domain.RateLimiter. Each client key is limited
// to limit requests per window. Denied requests get a 429 with a Retry-After
// header set to the window length in seconds; the denied request itself is
// not counted against the window.
func RateLimit(limiter domain.RateLimiter, limit int, window time.Duration) func(http.Handler) http.Handler {
	retryAfter := fmt.Sprintf("%d", int(window.Seconds()))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The backend owns any storage namespace (the Redis limiter
			// prefixes "ratelimit:"); this layer only scopes by surface.
			key := "api:" + clientKey(r)

			allowed, err := limiter.Allow(r.Context(), key, limit, window)
			if err != nil {
				// A broken limiter fails open; blocking all traffic is
				// worse than briefly losing the limit.
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.Header().Set("Retry-After", retryAfter)
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"Too many requests"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the client for rate limiting: the first hop of
// X-Forwarded-For, then X-Real-IP, then the remote address host, then a
// shared "unknown" bucket.
func clientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
