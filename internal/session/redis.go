package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisTTL expires idle sessions.
const DefaultRedisTTL = 7 * 24 * time.Hour

const redisKeyPrefix = "resume-auditor:session:"

// redisKV is the subset of the go-redis client the store uses.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps snapshots as string keys with a sliding TTL.
type RedisStore struct {
	client redisKV
	ttl    time.Duration
}

// NewRedisStore wraps a go-redis client. A ttl of zero uses DefaultRedisTTL.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return newRedisStore(client, ttl)
}

func newRedisStore(client redisKV, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

// Load implements Store.
func (r *RedisStore) Load(ctx context.Context, id string) (State, error) {
	data, err := r.client.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, &NotFoundError{ID: id}
		}
		return State{}, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return Decode(data), nil
}

// Save implements Store. Every save refreshes the TTL.
func (r *RedisStore) Save(ctx context.Context, id string, state State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisKey(id), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}
	return nil
}

// Delete implements Store.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}
