package middleware

import (
	"net/http"
	"strings"

	"github.com/veyra-id/veyra/internal/apierr"
	"github.com/veyra-id/veyra/internal/api/helpers"
	"github.com/veyra-id/veyra/internal/ratelimit"
)

// RateLimit builds a chi middleware gating requests through the named
// route-group limiter. The key is the first non-empty value in order of
// X-Forwarded-For (leftmost token), X-Real-IP, then the literal "global".
func RateLimit(registry *ratelimit.Registry, group ratelimit.Group) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(r)
			if !registry.Allow(group, key) {
				helpers.RespondError(w, apierr.RateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rateLimitKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return "global"
}
