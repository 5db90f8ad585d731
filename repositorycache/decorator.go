package repositorycache

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/goliatone/go-menu-cache/cache"
	"github.com/goliatone/go-menu-cache/menu"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Interface assertion to ensure CachedRepository implements menu.Repository
var _ menu.Repository = (*CachedRepository)(nil)

// Stats is a snapshot of the decorator counters.
type Stats struct {
	Hits                 uint64
	Misses               uint64
	InvalidatedKeys      uint64
	InvalidationFailures uint64
}

// CachedRepository decorates a base repository with read-through caching
// and write-invalidation.
type CachedRepository struct {
	base       menu.Repository
	store      cache.Store
	keys       KeyBuilder
	codec      cache.Codec
	dispatcher Dispatcher
	logger     *slog.Logger

	hits        atomic.Uint64
	misses      atomic.Uint64
	invalidated atomic.Uint64
	failures    atomic.Uint64
}

// Option configures a CachedRepository.
type Option func(*CachedRepository)

// WithLogger sets the logger used for invalidation failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CachedRepository) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCodec sets the snapshot codec. Defaults to msgpack.
func WithCodec(codec cache.Codec) Option {
	return func(c *CachedRepository) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// WithDispatcher sets where cascades run. Defaults to SyncDispatcher.
func WithDispatcher(d Dispatcher) Option {
	return func(c *CachedRepository) {
		if d != nil {
			c.dispatcher = d
		}
	}
}

// New creates a CachedRepository that wraps the base repository with caching.
func New(base menu.Repository, store cache.Store, keySerializer cache.KeySerializer, opts ...Option) *CachedRepository {
	c := &CachedRepository{
		base:       base,
		store:      store,
		keys:       NewKeyBuilder(keySerializer),
		codec:      cache.MsgpackCodec(),
		dispatcher: SyncDispatcher{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stats returns the current counters.
func (c *CachedRepository) Stats() Stats {
	return Stats{
		Hits:                 c.hits.Load(),
		Misses:               c.misses.Load(),
		InvalidatedKeys:      c.invalidated.Load(),
		InvalidationFailures: c.failures.Load(),
	}
}

// Wait blocks until pending background cascades finish. It returns
// immediately for synchronous dispatchers.
func (c *CachedRepository) Wait() {
	if w, ok := c.dispatcher.(interface{ Wait() }); ok {
		w.Wait()
	}
}

// ListMenus retrieves every menu, with caching
func (c *CachedRepository) ListMenus(ctx context.Context) ([]menu.Menu, error) {
	key := c.keys.Key(LevelMenuList, Scope{})
	return readList(ctx, c, key, c.base.ListMenus)
}

// GetMenu retrieves one menu, with caching
func (c *CachedRepository) GetMenu(ctx context.Context, menuID uuid.UUID) (menu.Menu, error) {
	key := c.keys.Key(LevelMenuItem, Scope{MenuID: menuID})
	return read(ctx, c, key, func(ctx context.Context) (menu.Menu, error) {
		return c.base.GetMenu(ctx, menuID)
	})
}

// CreateMenu writes through to the base repository and invalidates on success
func (c *CachedRepository) CreateMenu(ctx context.Context, in menu.MenuCreate) (menu.Menu, error) {
	created, err := c.base.CreateMenu(ctx, in)
	if err != nil {
		return menu.Menu{}, err
	}
	c.invalidateAfterWrite(ctx, menu.KindMenu, Scope{MenuID: created.ID}, false)
	return created, nil
}

func (c *CachedRepository) UpdateMenu(ctx context.Context, menuID uuid.UUID, in menu.MenuUpdate) (menu.Menu, error) {
	updated, err := c.base.UpdateMenu(ctx, menuID, in)
	if err != nil {
		return menu.Menu{}, err
	}
	c.invalidateAfterWrite(ctx, menu.KindMenu, Scope{MenuID: menuID}, false)
	return updated, nil
}

func (c *CachedRepository) DeleteMenu(ctx context.Context, menuID uuid.UUID) error {
	if err := c.base.DeleteMenu(ctx, menuID); err != nil {
		return err
	}
	c.invalidateAfterWrite(ctx, menu.KindMenu, Scope{MenuID: menuID}, true)
	return nil
}

// ListSubmenus retrieves the submenus of a menu, with caching
func (c *CachedRepository) ListSubmenus(ctx context.Context, menuID uuid.UUID) ([]menu.Submenu, error) {
	key := c.keys.Key(LevelSubmenuList, Scope{MenuID: menuID})
	return readList(ctx, c, key, func(ctx context.Context) ([]menu.Submenu, error) {
		return c.base.ListSubmenus(ctx, menuID)
	})
}

// GetSubmenu retrieves one submenu, with caching
func (c *CachedRepository) GetSubmenu(ctx context.Context, menuID, submenuID uuid.UUID) (menu.Submenu, error) {
	key := c.keys.Key(LevelSubmenuItem, Scope{MenuID: menuID, SubmenuID: submenuID})
	return read(ctx, c, key, func(ctx context.Context) (menu.Submenu, error) {
		return c.base.GetSubmenu(ctx, menuID, submenuID)
	})
}

func (c *CachedRepository) CreateSubmenu(ctx context.Context, menuID uuid.UUID, in menu.SubmenuCreate) (menu.Submenu, error) {
	created, err := c.base.CreateSubmenu(ctx, menuID, in)
	if err != nil {
		return menu.Submenu{}, err
	}
	c.invalidateAfterWrite(ctx, menu.KindSubmenu, Scope{MenuID: menuID, SubmenuID: created.ID}, false)
	return created, nil
}

func (c *CachedRepository) UpdateSubmenu(ctx context.Context, menuID, submenuID uuid.UUID, in menu.SubmenuUpdate) (menu.Submenu, error) {
	updated, err := c.base.UpdateSubmenu(ctx, menuID, submenuID, in)
	if err != nil {
		return menu.Submenu{}, err
	}
	c.invalidateAfterWrite(ctx, menu.KindSubmenu, Scope{MenuID: menuID, SubmenuID: submenuID}, false)
	return updated, nil
}

func (c *CachedRepository) DeleteSubmenu(ctx context.Context, menuID, submenuID uuid.UUID) error {
	if err := c.base.DeleteSubmenu(ctx, menuID, submenuID); err != nil {
		return err
	}
	c.invalidateAfterWrite(ctx, menu.KindSubmenu, Scope{MenuID: menuID, SubmenuID: submenuID}, true)
	return nil
}

// ListDishes retrieves the dishes of a submenu, with caching
func (c *CachedRepository) ListDishes(ctx context.Context, menuID, submenuID uuid.UUID) ([]menu.Dish, error) {
	key := c.keys.Key(LevelDishList, Scope{MenuID: menuID, SubmenuID: submenuID})
	return readList(ctx, c, key, func(ctx context.Context) ([]menu.Dish, error) {
		return c.base.ListDishes(ctx, menuID, submenuID)
	})
}

// GetDish retrieves one dish, with caching
func (c *CachedRepository) GetDish(ctx context.Context, menuID, submenuID, dishID uuid.UUID) (menu.Dish, error) {
	key := c.keys.Key(LevelDishItem, Scope{MenuID: menuID, SubmenuID: submenuID, DishID: dishID})
	return read(ctx, c, key, func(ctx context.Context) (menu.Dish, error) {
		return c.base.GetDish(ctx, menuID, submenuID, dishID)
	})
}

func (c *CachedRepository) CreateDish(ctx context.Context, menuID, submenuID uuid.UUID, in menu.DishCreate) (menu.Dish, error) {
	created, err := c.base.CreateDish(ctx, menuID, submenuID, in)
	if err != nil {
		return menu.Dish{}, err
	}
	c.invalidateAfterWrite(ctx, menu.KindDish, Scope{MenuID: menuID, SubmenuID: submenuID, DishID: created.ID}, false)
	return created, nil
}

func (c *CachedRepository) UpdateDish(ctx context.Context, menuID, submenuID, dishID uuid.UUID, in menu.DishUpdate) (menu.Dish, error) {
	updated, err := c.base.UpdateDish(ctx, menuID, submenuID, dishID, in)
	if err != nil {
		return menu.Dish{}, err
	}
	c.invalidateAfterWrite(ctx, menu.KindDish, Scope{MenuID: menuID, SubmenuID: submenuID, DishID: dishID}, false)
	return updated, nil
}

func (c *CachedRepository) DeleteDish(ctx context.Context, menuID, submenuID, dishID uuid.UUID) error {
	if err := c.base.DeleteDish(ctx, menuID, submenuID, dishID); err != nil {
		return err
	}
	c.invalidateAfterWrite(ctx, menu.KindDish, Scope{MenuID: menuID, SubmenuID: submenuID, DishID: dishID}, true)
	return nil
}

func read[T any](ctx context.Context, c *CachedRepository, key string, fetch cache.FetchFn[T]) (T, error) {
	value, hit, err := cache.GetOrFetch(ctx, c.store, c.codec, key, fetch)
	if err != nil {
		return value, err
	}
	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return value, nil
}

// readList is read for collections; an empty result is never nil.
func readList[T any](ctx context.Context, c *CachedRepository, key string, fetch cache.FetchFn[[]T]) ([]T, error) {
	values, err := read(ctx, c, key, fetch)
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []T{}
	}
	return values, nil
}

// invalidation is the set of keys and prefixes a committed write makes stale.
type invalidation struct {
	keys     []string
	prefixes []string
}

func (c *CachedRepository) plan(kind menu.Kind, scope Scope, deleted bool) invalidation {
	start := ItemLevel(kind)
	inv := invalidation{keys: c.keys.CascadeKeys(start, scope)}

	// A deleted menu or submenu takes its whole subtree with it.
	if deleted && kind != menu.KindDish {
		inv.prefixes = append(inv.prefixes, c.keys.SubtreePrefix(start, scope))
	}
	return inv
}

// invalidateAfterWrite hands the cascade to the dispatcher. Failures are
// logged and counted, never returned to the writer.
func (c *CachedRepository) invalidateAfterWrite(ctx context.Context, kind menu.Kind, scope Scope, deleted bool) {
	inv := c.plan(kind, scope, deleted)
	c.dispatcher.Dispatch(ctx, func(ctx context.Context) {
		c.runInvalidation(ctx, kind, inv)
	})
}

func (c *CachedRepository) runInvalidation(ctx context.Context, kind menu.Kind, inv invalidation) {
	var result *multierror.Error

	for _, key := range inv.keys {
		if err := c.store.Delete(ctx, key); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		c.invalidated.Add(1)
	}

	for _, prefix := range inv.prefixes {
		n, err := c.store.DeleteByPrefix(ctx, prefix)
		c.invalidated.Add(uint64(n))
		if err != nil {
			result = multierror.Append(result, err)
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		c.failures.Add(1)
		c.logger.ErrorContext(ctx, "cache invalidation failed",
			slog.String("kind", string(kind)),
			slog.Any("keys", inv.keys),
			slog.Any("prefixes", inv.prefixes),
			slog.Any("error", err),
		)
		return
	}

	c.logger.DebugContext(ctx, "cache invalidated",
		slog.String("kind", string(kind)),
		slog.Int("keys", len(inv.keys)),
		slog.Int("prefixes", len(inv.prefixes)),
	)
}
