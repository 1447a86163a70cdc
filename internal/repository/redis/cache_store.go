package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sille/business/recommendation"

	"github.com/redis/go-redis/v9"
)

// CacheStore is the shared cache tier backing the recommendation
// pipeline's TieredCache.
type CacheStore struct {
	client *redis.Client
}

func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, recommendation.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get %q from redis: %w", key, err)
	}

	return val, nil
}

func (s *CacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %q in redis: %w", key, err)
	}

	return nil
}

func (s *CacheStore) Del(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %q from redis: %w", key, err)
	}

	return nil
}
