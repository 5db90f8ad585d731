// Package cacheinfra holds the cache.Store backends.
package cacheinfra

import (
	"context"

	"github.com/goliatone/go-menu-cache/cache"
)

// Store is a cache.Store that owns a connection.
type Store interface {
	cache.Store
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*sturdycStore)(nil)
	_ Store = (*redisStore)(nil)
	_ Store = (*memcacheStore)(nil)
)

// NewStore builds the backend named by cfg.Backend.
func NewStore(cfg cache.Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case cache.BackendRedis:
		return NewRedisStore(cfg.Redis), nil
	case cache.BackendMemcache:
		return NewMemcacheStore(cfg.Memcache), nil
	default:
		store, err := NewSturdycStore(cfg.Memory)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
