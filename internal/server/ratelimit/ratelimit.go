// Package ratelimit provides per-client request limiting, either with in-process token
// buckets or with fixed-window counters shared through Redis.
package ratelimit

import (
	"sync"
	"time"
)

// idleBucketTTL is how long an unused bucket survives cleanup.
const idleBucketTTL = time.Hour

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Allower decides whether a client may make a request.
type Allower interface {
	Allow(clientID string, endpoint string, method string) (bool, Info)
	Stop()
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	Backend         string // "memory" or "redis"
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

func defaultConfig() *Config {
	return &Config{
		Enabled:         true,
		Backend:         "memory",
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
	}
}

// bucket is a token bucket: capacity tokens, refilled continuously at refillRate per second.
type bucket struct {
	capacity   float64
	refillRate float64
	tokens     float64
	updated    time.Time
	lastUsed   time.Time
}

func newBucket(capacity int, refillRate float64, now time.Time) *bucket {
	return &bucket{
		capacity:   float64(capacity),
		refillRate: refillRate,
		tokens:     float64(capacity),
		updated:    now,
		lastUsed:   now,
	}
}

func (b *bucket) refill(now time.Time) {
	if elapsed := now.Sub(b.updated).Seconds(); elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed*b.refillRate)
	}
	b.updated = now
}

// take consumes a token when one is available. It returns the whole tokens left, when
// the bucket will be full again and how long until the next token.
func (b *bucket) take(now time.Time) (allowed bool, remaining int, full time.Time, next time.Duration) {
	b.refill(now)
	b.lastUsed = now
	if b.tokens >= 1 {
		b.tokens--
		allowed = true
	}

	remaining = int(b.tokens)
	full = now.Add(b.timeFor(b.capacity - b.tokens))
	if b.tokens < 1 {
		next = b.timeFor(1 - b.tokens)
	}
	return allowed, remaining, full, next
}

func (b *bucket) timeFor(tokens float64) time.Duration {
	if tokens <= 0 || b.refillRate <= 0 {
		return 0
	}
	return time.Duration(tokens / b.refillRate * float64(time.Second))
}

// Limiter keeps one token bucket per client, method and endpoint rule in memory.
type Limiter struct {
	config  *Config
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a new rate limiter with the given configuration. A nil config
// allows 1000 requests per minute per client and endpoint.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = defaultConfig()
	}

	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
// Buckets are keyed by the matched pattern, so every session id shares one budget.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	rule, verdict, decided := resolve(l.config, clientID, endpoint, method)
	if decided {
		return verdict.Allowed, verdict
	}

	key := clientID + ":" + method + ":" + rule.Path
	now := l.now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		capacity := rule.Burst
		if capacity <= 0 {
			capacity = rule.Limit
		}
		b = newBucket(capacity, float64(rule.Limit)/rule.Window.Seconds(), now)
		l.buckets[key] = b
	}
	allowed, remaining, full, next := b.take(now)
	l.mu.Unlock()

	info := Info{
		Allowed:   allowed,
		Limit:     rule.Limit,
		Remaining: remaining,
		ResetTime: full,
	}
	if !allowed {
		info.RetryAfter = next
	}
	return allowed, info
}

// resolve applies the enabled flag, the IP lists and endpoint matching. When decided is
// true the verdict is final; otherwise rule is the limit to enforce.
func resolve(config *Config, clientID, endpoint, method string) (rule EndpointConfig, verdict Info, decided bool) {
	if !config.Enabled || config.Whitelist[clientID] {
		return rule, Info{Allowed: true}, true
	}
	if config.Blacklist[clientID] {
		return rule, Info{Allowed: false}, true
	}

	matched := MatchEndpoint(endpoint, method, config.EndpointConfigs)
	if matched == nil {
		rule = EndpointConfig{
			Path:   endpoint,
			Method: method,
			Limit:  config.DefaultLimit,
			Window: config.DefaultWindow,
			Burst:  config.DefaultLimit,
		}
	} else {
		rule = *matched
	}

	if rule.Limit <= 0 || rule.Window <= 0 {
		return rule, Info{Allowed: true}, true
	}
	return rule, Info{}, false
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle(l.now().Add(-idleBucketTTL))
		case <-l.stop:
			return
		}
	}
}

// evictIdle drops buckets last used before cutoff. It returns how many were removed.
func (l *Limiter) evictIdle(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, b := range l.buckets {
		if b.lastUsed.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
