package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	redisclient "github.com/construplaza/construplaza-backend/pkg/redis"
)

// Store persists an open cart so a register survives process or page
// restarts. The in-memory cart never depends on it.
type Store interface {
	Save(ctx context.Context, registerID string, lines []CartLine) error
	Load(ctx context.Context, registerID string) ([]CartLine, error)
	Drop(ctx context.Context, registerID string) error
}

type cartCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(cartID string) string
}

// RedisStore keeps cart snapshots in Redis with a TTL.
type RedisStore struct {
	cache cartCache
	ttl   time.Duration
}

// NewRedisStore builds a cart store over the shared Redis client.
func NewRedisStore(client *redisclient.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &RedisStore{cache: client, ttl: ttl}, nil
}

// Save serializes the lines under the register's cart key.
func (s *RedisStore) Save(ctx context.Context, registerID string, lines []CartLine) error {
	if registerID == "" {
		return fmt.Errorf("register id is required")
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	return s.cache.Set(ctx, s.cache.CartKey(registerID), payload, s.ttl)
}

// Load returns the persisted snapshot, or nil when no cart is stored.
func (s *RedisStore) Load(ctx context.Context, registerID string) ([]CartLine, error) {
	if registerID == "" {
		return nil, fmt.Errorf("register id is required")
	}
	raw, err := s.cache.Get(ctx, s.cache.CartKey(registerID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var lines []CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("decoding cart: %w", err)
	}
	return lines, nil
}

// Drop deletes the persisted snapshot.
func (s *RedisStore) Drop(ctx context.Context, registerID string) error {
	if registerID == "" {
		return fmt.Errorf("register id is required")
	}
	return s.cache.Del(ctx, s.cache.CartKey(registerID))
}
