package cacheinfra

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bradfitz/gomemcache/memcache"
	"github.com/goliatone/go-menu-cache/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMemcache is an in-memory stand-in for *memcache.Client.
type fakeMemcache struct {
	mu    sync.Mutex
	items map[string][]byte
	err   error
}

func newFakeMemcache() *fakeMemcache {
	return &fakeMemcache{items: make(map[string][]byte)}
}

func (f *fakeMemcache) Get(key string) (*memcache.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.items[key]
	if !ok {
		return nil, memcache.ErrCacheMiss
	}
	return &memcache.Item{Key: key, Value: v}, nil
}

func (f *fakeMemcache) Set(item *memcache.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.items[item.Key] = item.Value
	return nil
}

func (f *fakeMemcache) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.items[key]; !ok {
		return memcache.ErrCacheMiss
	}
	delete(f.items, key)
	return nil
}

func (f *fakeMemcache) Ping() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func newTestStores(t *testing.T) map[string]Store {
	t.Helper()

	memory, err := NewSturdycStore(cache.DefaultConfig().Memory)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rs := NewRedisStore(cache.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rs.Close() })

	return map[string]Store{
		"memory":   memory,
		"redis":    rs,
		"memcache": newMemcacheStore(newFakeMemcache()),
	}
}

func TestStores_Contract(t *testing.T) {
	ctx := context.Background()

	for name, store := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "menus")
			assert.ErrorIs(t, err, cache.ErrCacheMiss)

			require.NoError(t, store.Set(ctx, "menus", []byte("[]")))
			got, err := store.Get(ctx, "menus")
			require.NoError(t, err)
			assert.Equal(t, []byte("[]"), got)

			require.NoError(t, store.Set(ctx, "menus", []byte("[1]")))
			got, err = store.Get(ctx, "menus")
			require.NoError(t, err)
			assert.Equal(t, []byte("[1]"), got)

			require.NoError(t, store.Delete(ctx, "menus"))
			_, err = store.Get(ctx, "menus")
			assert.ErrorIs(t, err, cache.ErrCacheMiss)

			assert.NoError(t, store.Delete(ctx, "menus"), "deleting a missing key is not an error")
			assert.NoError(t, store.Ping(ctx))
		})
	}
}

func TestStores_DeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	keys := []string{
		"menus",
		"menus/a",
		"menus/a/submenus",
		"menus/a/submenus/s",
		"menus/a/submenus/s/dishes",
		"menus/ab",
		"menus/ab/submenus",
	}

	for name, store := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range keys {
				require.NoError(t, store.Set(ctx, key, []byte(key)))
			}

			removed, err := store.DeleteByPrefix(ctx, "menus/a/")
			require.NoError(t, err)
			assert.Equal(t, 3, removed)

			var remaining []string
			for _, key := range keys {
				if _, err := store.Get(ctx, key); err == nil {
					remaining = append(remaining, key)
				}
			}
			sort.Strings(remaining)
			assert.Equal(t, []string{"menus", "menus/a", "menus/ab", "menus/ab/submenus"}, remaining)

			removed, err = store.DeleteByPrefix(ctx, "nothing/")
			require.NoError(t, err)
			assert.Zero(t, removed)
		})
	}
}

func TestRedisStore_BackendError(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store := NewRedisStoreWithClient(redis.NewClient(&redis.Options{
		Addr:        mr.Addr(),
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	}))
	t.Cleanup(func() { _ = store.Close() })

	mr.SetError("LOADING server is loading")

	_, err := store.Get(ctx, "menus")
	var backendErr *cache.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "redis", backendErr.Backend)
	assert.Equal(t, "get", backendErr.Op)
	assert.False(t, errors.Is(err, cache.ErrCacheMiss), "backend failure must not look like a miss")

	_, err = store.DeleteByPrefix(ctx, "menus/")
	assert.ErrorAs(t, err, &backendErr)
}

func TestMemcacheStore_BackendError(t *testing.T) {
	ctx := context.Background()
	client := newFakeMemcache()
	store := newMemcacheStore(client)

	require.NoError(t, store.Set(ctx, "menus/a/submenus", []byte("x")))
	client.err = errors.New("connection reset")

	_, err := store.Get(ctx, "menus/a")
	var backendErr *cache.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "memcache", backendErr.Backend)

	_, err = store.DeleteByPrefix(ctx, "menus/a/")
	require.Error(t, err)

	client.err = nil
	removed, err := store.DeleteByPrefix(ctx, "menus/a/")
	require.NoError(t, err)
	assert.Equal(t, 1, removed, "failed purge keeps the key registered")
}

func TestEscapeGlob(t *testing.T) {
	tests := map[string]string{
		"menus/a/":   "menus/a/",
		"menus/*/":   `menus/\*/`,
		"a?b[c]":     `a\?b\[c\]`,
		`back\slash`: `back\\slash`,
	}

	for in, want := range tests {
		assert.Equal(t, want, escapeGlob(in), in)
	}
}

func TestNewStore(t *testing.T) {
	cfg := cache.DefaultConfig()

	store, err := NewStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &sturdycStore{}, store)

	cfg.Backend = cache.BackendRedis
	store, err = NewStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &redisStore{}, store)
	require.NoError(t, store.Close())

	cfg.Backend = cache.BackendMemcache
	store, err = NewStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &memcacheStore{}, store)

	cfg.Backend = "disk"
	_, err = NewStore(cfg)
	var cfgErr *cache.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
