package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterAllowsUpToMax(t *testing.T) {
	l := New(3, time.Minute)

	assert.True(t, l.Allow("alice"))
	assert.True(t, l.Allow("alice"))
	assert.True(t, l.Allow("alice"))
	assert.False(t, l.Allow("alice"), "fourth request within the window should be rejected")
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := New(1, time.Minute)

	assert.True(t, l.Allow("alice"))
	assert.True(t, l.Allow("bob"), "bob's quota is independent of alice's")
	assert.False(t, l.Allow("alice"))
}

func TestLimiterSlidesWithWindow(t *testing.T) {
	l := New(1, time.Minute)
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }

	assert.True(t, l.Allow("alice"))
	assert.False(t, l.Allow("alice"))

	current = current.Add(61 * time.Second)
	assert.True(t, l.Allow("alice"), "event outside the window should have been pruned")
}

func TestLimiterCleanupDropsEmptyKeys(t *testing.T) {
	l := New(1, time.Minute)
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }

	l.Allow("alice")
	assert.Equal(t, 1, l.TrackedKeys())

	current = current.Add(2 * time.Minute)
	l.Cleanup()
	assert.Equal(t, 0, l.TrackedKeys())
}

func TestRegistryRoutesToNamedGroup(t *testing.T) {
	r := NewRegistry()

	for i := 0; i < 20; i++ {
		assert.True(t, r.Allow(GroupAuth, "client-1"))
	}
	assert.False(t, r.Allow(GroupAuth, "client-1"), "auth group default is 20/60s")

	assert.True(t, r.Allow(GroupOAuth, "client-1"), "oauth group has its own limiter")
}

func TestRegistryUnknownGroupAllows(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.Allow(Group("nonexistent"), "anyone"))
}

func TestRegistryTrackedKeysSumsAcrossGroups(t *testing.T) {
	r := NewRegistry()
	r.Allow(GroupAuth, "a")
	r.Allow(GroupOAuth, "b")
	r.Allow(GroupOAuth, "c")

	assert.Equal(t, 3, r.TrackedKeys())
}
