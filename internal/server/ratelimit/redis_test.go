package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeCounter struct {
	mu      sync.Mutex
	counts  map[string]int64
	expires map[string]time.Duration
	err     error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCounter) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expires[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	fake := newFakeCounter()
	limiter := newRedisLimiter(fake, &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/sessions/*/match", Method: "POST", Limit: 3, Window: time.Hour},
		},
	})
	fixed := time.Date(2026, 1, 2, 10, 15, 0, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("1.2.3.4", "/sessions/a/match", "POST")
		if !allowed {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
		if info.Remaining != 2-i {
			t.Errorf("Expected remaining %d, got %d", 2-i, info.Remaining)
		}
	}

	allowed, info := limiter.Allow("1.2.3.4", "/sessions/b/match", "POST")
	if allowed {
		t.Error("Expected 4th request to be denied")
	}
	if info.RetryAfter != 45*time.Minute {
		t.Errorf("Expected retry after 45m, got %v", info.RetryAfter)
	}
	if len(fake.expires) != 1 {
		t.Errorf("Expected one expiring key, got %d", len(fake.expires))
	}
	for _, ttl := range fake.expires {
		if ttl != time.Hour {
			t.Errorf("Expected key ttl of 1h, got %v", ttl)
		}
	}

	limiter.now = func() time.Time { return fixed.Add(time.Hour) }
	if allowed, _ := limiter.Allow("1.2.3.4", "/sessions/a/match", "POST"); !allowed {
		t.Error("Expected request in the next window to be allowed")
	}
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	fake := newFakeCounter()
	fake.err = errors.New("connection refused")
	limiter := newRedisLimiter(fake, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	for i := 0; i < 3; i++ {
		if allowed, _ := limiter.Allow("1.2.3.4", "/sessions/a", "GET"); !allowed {
			t.Errorf("Expected request %d to be allowed while redis is down", i+1)
		}
	}
}

func TestRedisLimiter_Blacklist(t *testing.T) {
	limiter := newRedisLimiter(newFakeCounter(), &Config{
		Enabled:      true,
		DefaultLimit: 10,
		Blacklist:    map[string]bool{"9.9.9.9": true},
	})
	if allowed, _ := limiter.Allow("9.9.9.9", "/sessions", "POST"); allowed {
		t.Error("Expected blacklisted client to be denied")
	}
}
