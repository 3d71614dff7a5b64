package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisHash is the hash holding every entry of the application.
const DefaultRedisHash = "interiorai:kv"

// RedisStore keeps entries as fields of a single redis hash.
type RedisStore struct {
	client redis.Cmdable
	hash   string
}

func NewRedisStore(client redis.Cmdable, hash string) *RedisStore {
	if hash == "" {
		hash = DefaultRedisHash
	}
	return &RedisStore{client: client, hash: hash}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	key, err := sanitizeKey(key)
	if err != nil {
		return "", false, err
	}
	value, err := s.client.HGet(ctx, s.hash, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: hget: %w", err)
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	key, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.hash, key, value).Err(); err != nil {
		return fmt.Errorf("storage: hset: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	fields := make([]string, 0, len(keys))
	for _, key := range keys {
		key, err := sanitizeKey(key)
		if err != nil {
			return err
		}
		fields = append(fields, key)
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, s.hash, fields...).Err(); err != nil {
		return fmt.Errorf("storage: hdel: %w", err)
	}
	return nil
}

func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.client.HKeys(ctx, s.hash).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: hkeys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

var _ KV = (*RedisStore)(nil)
