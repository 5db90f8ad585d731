package cacheinfra

import (
	"context"
	"errors"
	"strings"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/goliatone/go-menu-cache/cache"
	"github.com/puzpuzpuz/xsync/v3"
)

const memcacheBackend = "memcache"

// memcacheClient is the subset of *memcache.Client the store relies on.
type memcacheClient interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Delete(key string) error
	Ping() error
}

// memcacheStore keeps snapshots in memcached. Memcached cannot enumerate
// keys, so every key written through this store is tracked in a registry
// which DeleteByPrefix consults. Keys written by other processes are not
// visible to prefix deletes.
type memcacheStore struct {
	client   memcacheClient
	registry *xsync.MapOf[string, struct{}]
}

// NewMemcacheStore connects to the given servers.
func NewMemcacheStore(cfg cache.MemcacheConfig) *memcacheStore {
	return newMemcacheStore(memcache.New(cfg.Servers...))
}

func newMemcacheStore(client memcacheClient) *memcacheStore {
	return &memcacheStore{
		client:   client,
		registry: xsync.NewMapOf[string, struct{}](),
	}
}

func (s *memcacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	item, err := s.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, cache.ErrCacheMiss
	}
	if err != nil {
		return nil, &cache.BackendError{Backend: memcacheBackend, Op: "get", Key: key, Err: err}
	}
	return item.Value, nil
}

func (s *memcacheStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(&memcache.Item{Key: key, Value: value}); err != nil {
		return &cache.BackendError{Backend: memcacheBackend, Op: "set", Key: key, Err: err}
	}
	s.registry.Store(key, struct{}{})
	return nil
}

func (s *memcacheStore) Delete(ctx context.Context, key string) error {
	err := s.client.Delete(key)
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return &cache.BackendError{Backend: memcacheBackend, Op: "delete", Key: key, Err: err}
	}
	s.registry.Delete(key)
	return nil
}

// DeleteByPrefix deletes the registered keys under prefix. Keys that fail
// to delete stay registered so a later purge retries them.
func (s *memcacheStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	var keys []string
	s.registry.Range(func(key string, _ struct{}) bool {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return true
	})

	removed := 0
	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (s *memcacheStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(); err != nil {
		return &cache.BackendError{Backend: memcacheBackend, Op: "ping", Err: err}
	}
	return nil
}

func (s *memcacheStore) Close() error { return nil }
