package di

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hashicorp/go-multierror"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-menu-cache/cache"
	"github.com/goliatone/go-menu-cache/config"
	"github.com/goliatone/go-menu-cache/internal/bunrepo"
	"github.com/goliatone/go-menu-cache/internal/cacheinfra"
	"github.com/goliatone/go-menu-cache/internal/httpapi"
	"github.com/goliatone/go-menu-cache/menu"
	"github.com/goliatone/go-menu-cache/repositorycache"
)

// Container wires the menu service together.
// It owns the database handle and the cache store and hands out the cached
// repository, the export reader and the HTTP router built on top of them.
type Container struct {
	config        config.Config
	logger        *slog.Logger
	db            *bun.DB
	store         cacheinfra.Store
	keySerializer cache.KeySerializer
	codec         cache.Codec
	base          *bunrepo.Repository
	cached        *repositorycache.CachedRepository
}

// NewContainer builds every component described by cfg. The database is
// migrated first when cfg.Database.MigrateOnStart is set.
func NewContainer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	codec, err := cache.CodecByName(cfg.Cache.Codec)
	if err != nil {
		return nil, err
	}

	if cfg.Database.MigrateOnStart {
		if err := bunrepo.Migrate(ctx, cfg.Database); err != nil {
			return nil, err
		}
	}

	db, err := bunrepo.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	store, err := cacheinfra.NewStore(cfg.Cache)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	keySerializer := cache.NewDefaultKeySerializer()
	if cfg.Cache.Namespace != "" {
		keySerializer = cache.NewNamespacedKeySerializer(cfg.Cache.Namespace)
	}

	var dispatcher repositorycache.Dispatcher = repositorycache.SyncDispatcher{}
	if cfg.Invalidation.Async {
		dispatcher = repositorycache.NewAsyncDispatcher()
	}

	base := bunrepo.NewRepository(db)
	cached := repositorycache.New(base, store, keySerializer,
		repositorycache.WithLogger(logger),
		repositorycache.WithCodec(codec),
		repositorycache.WithDispatcher(dispatcher),
	)

	logger.InfoContext(ctx, "menu service wired",
		slog.String("database", cfg.Database.Driver),
		slog.String("cache", cfg.Cache.Backend),
		slog.String("codec", codec.Name()),
		slog.Bool("async_invalidation", cfg.Invalidation.Async),
	)

	return &Container{
		config:        cfg,
		logger:        logger,
		db:            db,
		store:         store,
		keySerializer: keySerializer,
		codec:         codec,
		base:          base,
		cached:        cached,
	}, nil
}

// Repository returns the cache-coherent repository every caller should use.
func (c *Container) Repository() menu.Repository {
	return c.cached
}

// CachedRepository exposes the decorator for Stats and Wait.
func (c *Container) CachedRepository() *repositorycache.CachedRepository {
	return c.cached
}

// Exporter reads straight from the database.
func (c *Container) Exporter() menu.Exporter {
	return c.base
}

func (c *Container) Store() cacheinfra.Store {
	return c.store
}

func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

func (c *Container) Codec() cache.Codec {
	return c.codec
}

func (c *Container) DB() *bun.DB {
	return c.db
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() config.Config {
	return c.config
}

// Router builds the HTTP handler, with health checks for the database and
// the cache store.
func (c *Container) Router() http.Handler {
	return httpapi.NewRouter(httpapi.Config{
		Repository: c.cached,
		Exporter:   c.base,
		Logger:     c.logger,
		HealthChecks: map[string]httpapi.HealthCheck{
			"database": c.base.Ping,
			"cache":    c.store.Ping,
		},
	})
}

// Close drains background invalidations, then releases the store and the
// database.
func (c *Container) Close() error {
	c.cached.Wait()

	var result *multierror.Error
	if err := c.store.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close cache store: %w", err))
	}
	if err := c.db.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close database: %w", err))
	}
	return result.ErrorOrNil()
}
