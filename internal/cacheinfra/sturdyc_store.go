package cacheinfra

import (
	"context"
	"strings"

	"github.com/goliatone/go-menu-cache/cache"
	"github.com/viccon/sturdyc"
)

// sturdycStore keeps encoded snapshots in an in-process sturdyc client.
type sturdycStore struct {
	client *sturdyc.Client[[]byte]
}

// NewSturdycStore creates an in-process store.
//
// The constructor translates MemoryConfig to sturdyc initialization:
// Capacity, NumShards, TTL and EvictionPercentage are passed to sturdyc.New().
// Entries are removed by explicit invalidation; TTL only bounds memory held
// by keys that are never read again.
func NewSturdycStore(cfg cache.MemoryConfig) (*sturdycStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[[]byte](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
	)

	return &sturdycStore{client: client}, nil
}

func (s *sturdycStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := s.client.Get(key)
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return value, nil
}

func (s *sturdycStore) Set(ctx context.Context, key string, value []byte) error {
	s.client.Set(key, value)
	return nil
}

func (s *sturdycStore) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// DeleteByPrefix scans every key held by the client.
func (s *sturdycStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	removed := 0
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
			removed++
		}
	}
	return removed, nil
}

func (s *sturdycStore) Ping(ctx context.Context) error { return nil }

func (s *sturdycStore) Close() error { return nil }
