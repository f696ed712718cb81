package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/utafrali/catalog-readpath/pkg/errors"
)

// deleteBatchSize bounds a single DEL command during pattern deletes.
const deleteBatchSize = 100

// RedisStore persists cached responses in Redis as JSON blobs.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed response store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*CachedResponse, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read cached response")
	}

	var resp CachedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode cached response")
	}
	return &resp, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, resp *CachedResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode cached response")
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "failed to store cached response")
	}
	return nil
}

// DeletePattern walks matching keys with SCAN and removes them in batches.
// SCAN keeps the server responsive on large keyspaces where KEYS would not.
func (s *RedisStore) DeletePattern(ctx context.Context, pattern string) (int, error) {
	deleted := 0
	batch := make([]string, 0, deleteBatchSize)

	iter := s.client.Scan(ctx, 0, pattern, int64(deleteBatchSize)).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == deleteBatchSize {
			n, err := s.deleteBatch(ctx, batch)
			deleted += n
			if err != nil {
				return deleted, err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, apperrors.Wrap(err, "failed to scan cache keys")
	}

	if len(batch) > 0 {
		n, err := s.deleteBatch(ctx, batch)
		deleted += n
		if err != nil {
			return deleted, err
		}
	}

	return deleted, nil
}

func (s *RedisStore) deleteBatch(ctx context.Context, keys []string) (int, error) {
	n, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		return int(n), apperrors.Wrap(err, "failed to delete cache keys")
	}
	return int(n), nil
}
