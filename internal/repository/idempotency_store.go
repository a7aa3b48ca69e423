package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "agent:create:"

// IdempotencyStore remembers which agent id a creation idempotency key
// produced, so an abandoned-and-retried create returns the original agent
// instead of minting a second one.
type IdempotencyStore interface {
	// Remember stores key->agentID unless the key already exists, in which
	// case the previously stored id is returned with ok=false.
	Remember(ctx context.Context, key, agentID string, ttl time.Duration) (string, bool, error)
	Lookup(ctx context.Context, key string) (string, bool, error)
}

type redisIdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore builds a Redis-backed store.
func NewIdempotencyStore(client *redis.Client) IdempotencyStore {
	return &redisIdempotencyStore{client: client}
}

func (s *redisIdempotencyStore) Remember(ctx context.Context, key, agentID string, ttl time.Duration) (string, bool, error) {
	ok, err := s.client.SetNX(ctx, idempotencyKeyPrefix+key, agentID, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if ok {
		return agentID, true, nil
	}
	existing, err := s.client.Get(ctx, idempotencyKeyPrefix+key).Result()
	if err != nil {
		return "", false, err
	}
	return existing, false, nil
}

func (s *redisIdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, idempotencyKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
