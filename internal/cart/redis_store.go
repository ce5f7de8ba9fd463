package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists the cart snapshot under a single Redis key, for
// deployments that keep session carts server-side instead of in SQLite.
// Snapshots do not expire; an abandoned cart is cleared by the host.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore returns a store writing under "cart:<sessionID>".
func NewRedisStore(client *redis.Client, sessionID string) *RedisStore {
	return &RedisStore{client: client, key: fmt.Sprintf("cart:%s", sessionID)}
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart snapshot: %w", err)
	}
	return payload, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, payload []byte) error {
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set cart snapshot: %w", err)
	}
	return nil
}
