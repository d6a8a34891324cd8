package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taniku/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyNamespace = "taniku"

// RedisCartStore keeps carts as JSON values in Redis, one key per session.
// Every save refreshes the key's ttl.
type RedisCartStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCartStore creates a Redis backed cart store
func NewRedisCartStore(client redis.Cmdable, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

// CartKey returns the Redis key holding the cart of sessionID
func CartKey(sessionID string) string {
	return fmt.Sprintf("%s:session:%s:cart", keyNamespace, sessionID)
}

func (s *RedisCartStore) Load(ctx context.Context, sessionID string) (domain.Cart, error) {
	data, err := s.client.Get(ctx, CartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	if cart == nil {
		cart = domain.Cart{}
	}
	return cart, nil
}

func (s *RedisCartStore) Save(ctx context.Context, sessionID string, cart domain.Cart) error {
	if cart == nil {
		cart = domain.Cart{}
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, CartKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, CartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
