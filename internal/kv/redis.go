package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// OpenRedis connects and pings a Redis server. The same client is shared
// by every namespace.
func OpenRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisStore is a Store backed by Redis. Keys are stored as
// "{namespace}:{key}" and never expire; revocation is a record update,
// not a key removal.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

// NewRedisStore creates a namespaced view over a shared client.
func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) fullKey(key string) string {
	return s.namespace + ":" + key
}

// Get returns the value for key, or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("redis get", err)
	}
	return value, nil
}

// Set stores value under key with no expiry.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.fullKey(key), value, 0).Err(); err != nil {
		return unavailable("redis set", err)
	}
	return nil
}

// List scans for keys under prefix and returns them namespace-relative,
// so the results can be passed straight back to Get.
func (s *RedisStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	iter := s.client.Scan(ctx, 0, s.fullKey(prefix)+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.namespace+":"))
	}
	if err := iter.Err(); err != nil {
		return nil, unavailable("redis scan", err)
	}
	return keys, nil
}
