package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyPrefix = "ledger:idem:"

// IdempotencyStore implements usecase.IdempotencyStore on Redis. Keys are
// scoped under a ledger prefix so a shared Redis can host other services.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// CheckAndSet returns the recorded response when the key is already known,
// otherwise claims the key. With a nil response the key is claimed with a
// placeholder via SETNX so only one in-flight request wins.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	redisKey := idempotencyPrefix + key

	recorded, err := s.client.Get(ctx, redisKey).Bytes()
	if err == nil {
		return true, recorded, nil
	}
	if err != redis.Nil {
		return false, nil, err
	}

	if response != nil {
		if err := s.client.Set(ctx, redisKey, response, ttl).Err(); err != nil {
			return false, nil, err
		}
		return false, nil, nil
	}

	claimed, err := s.client.SetNX(ctx, redisKey, "processing", ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if !claimed {
		// Lost the claim; surface whatever the winner has recorded so far.
		recorded, err := s.client.Get(ctx, redisKey).Bytes()
		if err != nil && err != redis.Nil {
			return false, nil, err
		}
		return true, recorded, nil
	}

	return false, nil, nil
}

// Update replaces the placeholder with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, idempotencyPrefix+key, response, ttl).Err()
}
