package cacheinfra

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-menu-cache/cache"
	"github.com/redis/go-redis/v9"
)

const (
	redisBackend   = "redis"
	redisScanCount = 100
)

// redisStore keeps snapshots in redis without expiry.
type redisStore struct {
	client redis.UniversalClient
}

// NewRedisStore dials lazily; use Ping to check connectivity.
func NewRedisStore(cfg cache.RedisConfig) *redisStore {
	return NewRedisStoreWithClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}))
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client redis.UniversalClient) *redisStore {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cache.ErrCacheMiss
	}
	if err != nil {
		return nil, &cache.BackendError{Backend: redisBackend, Op: "get", Key: key, Err: err}
	}
	return value, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return &cache.BackendError{Backend: redisBackend, Op: "set", Key: key, Err: err}
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return &cache.BackendError{Backend: redisBackend, Op: "delete", Key: key, Err: err}
	}
	return nil
}

// DeleteByPrefix walks SCAN MATCH <prefix>* and deletes each page of keys.
func (s *redisStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	pattern := escapeGlob(prefix) + "*"
	removed := 0

	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, redisScanCount).Result()
		if err != nil {
			return removed, &cache.BackendError{Backend: redisBackend, Op: "scan", Key: prefix, Err: err}
		}

		if len(keys) > 0 {
			n, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, &cache.BackendError{Backend: redisBackend, Op: "delete", Key: prefix, Err: err}
			}
			removed += int(n)
		}

		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

func (s *redisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return &cache.BackendError{Backend: redisBackend, Op: "ping", Err: err}
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}

var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

// escapeGlob quotes the characters SCAN MATCH treats as wildcards.
func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
