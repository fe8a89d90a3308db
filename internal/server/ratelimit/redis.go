package ratelimit

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "resume-auditor:rate:"

// redisCounter is the subset of the go-redis client the counter needs.
type redisCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisLimiter counts requests per client and endpoint in fixed windows stored in
// Redis, so several server replicas share one budget. Redis errors fail open.
type RedisLimiter struct {
	client  redisCounter
	config  *Config
	timeout time.Duration
	now     func() time.Time
}

// NewRedisLimiter creates a limiter backed by the given client.
func NewRedisLimiter(client redis.UniversalClient, config *Config) *RedisLimiter {
	return newRedisLimiter(client, config)
}

func newRedisLimiter(client redisCounter, config *Config) *RedisLimiter {
	if config == nil {
		config = defaultConfig()
	}
	return &RedisLimiter{client: client, config: config, timeout: 250 * time.Millisecond, now: time.Now}
}

// Allow implements Allower.
func (l *RedisLimiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	rule, verdict, decided := resolve(l.config, clientID, endpoint, method)
	if decided {
		return verdict.Allowed, verdict
	}

	window := rule.Window
	now := l.now()
	start := now.Truncate(window)
	reset := start.Add(window)
	key := redisKeyPrefix + clientID + ":" + method + ":" + rule.Path + ":" + strconv.FormatInt(start.Unix(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	count, err := incrWithTTL(ctx, l.client, key, window)
	if err != nil {
		log.Printf("[rate-limit] redis unavailable, allowing request: %v", err)
		return true, Info{Allowed: true, Limit: rule.Limit, Remaining: rule.Limit, ResetTime: reset}
	}

	remaining := rule.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	info := Info{
		Allowed:   count <= int64(rule.Limit),
		Limit:     rule.Limit,
		Remaining: remaining,
		ResetTime: reset,
	}
	if !info.Allowed {
		info.RetryAfter = reset.Sub(now)
	}
	return info.Allowed, info
}

// Stop implements Allower. The client is owned by the caller.
func (l *RedisLimiter) Stop() {}

func incrWithTTL(ctx context.Context, client redisCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}
