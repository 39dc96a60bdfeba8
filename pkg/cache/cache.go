package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mo-amir99/campaign-naming-server-go/pkg/config"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Client defines the cache operations the server relies on.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	// SetNX stores value only if key does not exist and reports whether it did.
	SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error)
	// DeleteIfEquals removes key only while it still holds value.
	DeleteIfEquals(ctx context.Context, key string, value string) (bool, error)
	Delete(ctx context.Context, keys ...string) error
	// Increment adds one to the counter at key. The window starts the TTL when
	// the counter is created and is not extended afterwards.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// SetJSON stores a JSON-serialized value.
func SetJSON(ctx context.Context, c Client, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.Set(ctx, key, string(data), expiration)
}

// GetJSON loads and decodes a JSON value. It returns ErrMiss when absent.
func GetJSON(ctx context.Context, c Client, key string, dest interface{}) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

// Lock is a best-effort mutual exclusion held in the cache.
type Lock struct {
	client Client
	key    string
	token  string
}

// ErrLockHeld is returned when another holder owns the lock.
var ErrLockHeld = errors.New("lock is held by another request")

// AcquireLock takes the lock at key for at most ttl.
func AcquireLock(ctx context.Context, c Client, key string, ttl time.Duration) (*Lock, error) {
	token := uuid.NewString()
	ok, err := c.SetNX(ctx, key, token, ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return &Lock{client: c, key: key, token: token}, nil
}

// Release frees the lock if it is still owned by this holder.
func (l *Lock) Release(ctx context.Context) error {
	_, err := l.client.DeleteIfEquals(ctx, l.key, l.token)
	return err
}

// New returns a Redis-backed client when an address is configured and an
// in-memory cache otherwise. A Redis connection failure also falls back.
func New(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) Client {
	if cfg.Addr == "" {
		logger.Info("redis not configured, using in-memory cache")
		return NewMemoryCache()
	}

	client, err := NewRedisClient(ctx, RedisConfig{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		logger.Warn("redis unavailable, using in-memory cache", slog.String("addr", cfg.Addr), slog.String("error", err.Error()))
		return NewMemoryCache()
	}

	logger.Info("redis connected", slog.String("addr", cfg.Addr))
	return client
}
