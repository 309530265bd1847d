package ratelimit

import (
	"context"
	"time"

	"github.com/veyra-id/veyra/internal/metrics"
)

// Group names the four route-group limiters and their default limits.
type Group string

const (
	GroupAuth  Group = "auth"
	GroupOAuth Group = "oauth"
	GroupUser  Group = "user"
	GroupAdmin Group = "admin"
)

// Registry holds one Limiter per route group.
type Registry struct {
	limiters map[Group]*Limiter
}

// NewRegistry builds a Registry with the route-group defaults:
// auth 20/60s, oauth 30/60s, user 60/60s, admin 60/60s.
func NewRegistry() *Registry {
	return &Registry{
		limiters: map[Group]*Limiter{
			GroupAuth:  New(20, 60*time.Second),
			GroupOAuth: New(30, 60*time.Second),
			GroupUser:  New(60, 60*time.Second),
			GroupAdmin: New(60, 60*time.Second),
		},
	}
}

// Allow checks the named group's limiter for key.
func (r *Registry) Allow(group Group, key string) bool {
	l, ok := r.limiters[group]
	if !ok {
		return true
	}
	return l.Allow(key)
}

// TrackedKeys sums the tracked-key count across every group limiter, for
// the rate-limiter gauge.
func (r *Registry) TrackedKeys() int {
	total := 0
	for _, l := range r.limiters {
		total += l.TrackedKeys()
	}
	return total
}

// RunJanitor prunes every group limiter every 60 seconds until ctx is
// cancelled.
func (r *Registry) RunJanitor(ctx context.Context) error {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, l := range r.limiters {
				l.Cleanup()
			}
			metrics.SetRateLimiterTrackedKeys(r.TrackedKeys())
		}
	}
}
