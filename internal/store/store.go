// Package store is the durable key-value mirror for live session state.
// It is written through on every mutation and read only at startup; during an
// active session the controller's in-memory state is the source of truth.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Fixed record keys. The session record holds candidate details and session
// flags; the chat record holds the live message log.
const (
	SessionKey = "interview:session"
	ChatKey    = "interview:chat"
)

var (
	// ErrNotFound is returned by Get when no record exists under the key.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidConfig is returned when a driver is missing required options.
	ErrInvalidConfig = errors.New("invalid store configuration")
	// ErrInvalidDriver is returned for unknown driver names.
	ErrInvalidDriver = errors.New("invalid store driver")
)

// Store is opaque-blob key-value persistence.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type storeConfig struct {
	redisClient *redis.Client
	redisTTL    time.Duration
}

// Option configures a store driver.
type Option func(*storeConfig)

// WithRedisClient supplies the client the redis driver uses.
func WithRedisClient(client *redis.Client) Option {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithRedisTTL overrides the default 24h record TTL.
func WithRedisTTL(ttl time.Duration) Option {
	return func(c *storeConfig) {
		c.redisTTL = ttl
	}
}

// New creates a Store for the given driver name ("memory" or "redis").
func New(driver string, opts ...Option) (Store, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch driver {
	case "memory":
		return newMemoryStore(), nil
	case "redis":
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		ttl := config.redisTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		return &redisStore{
			client: config.redisClient,
			ttl:    ttl,
		}, nil
	default:
		return nil, ErrInvalidDriver
	}
}
