package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"storefront-service/internal/models"
)

// CartTTL bounds how long an idle cart survives before Redis expires
// it. Carts outlive a single visit but not an abandoned season.
const CartTTL = 90 * 24 * time.Hour

const cartKeyPrefix = "storefront:cart:v1:"

// RedisStore persists one cart per session under a single key as a
// JSON array of {id, qty} pairs.
type RedisStore struct {
	client    *redis.Client
	sessionID string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store scoped to the given session id.
func NewRedisStore(client *redis.Client, sessionID string) *RedisStore {
	return &RedisStore{client: client, sessionID: sessionID}
}

func (s *RedisStore) key() string {
	return cartKeyPrefix + s.sessionID
}

// Save writes the full ledger state, refreshing the TTL.
func (s *RedisStore) Save(ctx context.Context, entries []models.CartEntry) error {
	if entries == nil {
		entries = []models.CartEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return s.client.Set(ctx, s.key(), data, CartTTL).Err()
}

// Load reads the persisted cart. A missing key or unparseable payload
// yields an empty cart, never an error the caller must handle.
func (s *RedisStore) Load(ctx context.Context) ([]models.CartEntry, error) {
	val, err := s.client.Get(ctx, s.key()).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []models.CartEntry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, nil
	}
	return entries, nil
}
