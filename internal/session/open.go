package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/resume-auditor/internal/db"
)

// Backend names a Store implementation.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendFile     Backend = "file"
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend     Backend
	Dir         string
	DatabaseURL string
	RedisURL    string
	RedisTTL    time.Duration
}

// Opened is a Store plus the function that releases its resources.
type Opened struct {
	Store Store
	Close func()
}

// Open builds the configured Store. Postgres tables are created if missing.
func Open(ctx context.Context, opts Options) (*Opened, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return &Opened{Store: NewMemoryStore(), Close: func() {}}, nil

	case BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("session directory is required for the file backend")
		}
		store, err := NewFileStore(opts.Dir)
		if err != nil {
			return nil, err
		}
		return &Opened{Store: store, Close: func() {}}, nil

	case BackendPostgres:
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
		database, err := db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, err
		}
		return &Opened{Store: NewPostgresStore(database), Close: database.Close}, nil

	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required for the redis backend")
		}
		redisOpts, err := redis.ParseURL(opts.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(redisOpts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return &Opened{
			Store: NewRedisStore(client, opts.RedisTTL),
			Close: func() { _ = client.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unknown session backend %q", opts.Backend)
	}
}
