// Package repositorycache provides the cache-coherent decorator for
// menu.Repository.
//
// # Overview
//
// CachedRepository wraps a base repository and a cache.Store. Reads go
// through the cache; writes go to the base repository and, once it has
// returned successfully, invalidate every cached value the write made stale.
//
//	base := bunrepo.NewRepository(db)
//	store, _ := cacheinfra.NewStore(cache.DefaultConfig())
//
//	cached := repositorycache.New(base, store, cache.NewDefaultKeySerializer(),
//		repositorycache.WithLogger(logger),
//	)
//
//	menus, err := cached.ListMenus(ctx)
//
// # Keys
//
// Keys are hierarchical paths and depend only on identifiers:
//
//	menus
//	menus/{menu_id}
//	menus/{menu_id}/submenus
//	menus/{menu_id}/submenus/{submenu_id}
//	menus/{menu_id}/submenus/{submenu_id}/dishes
//	menus/{menu_id}/submenus/{submenu_id}/dishes/{dish_id}
//
// # Reads
//
//  1. Check the store for the key
//  2. On a hit, decode and return the snapshot
//  3. On a miss, call the base repository
//  4. Encode and store the result, then return it
//
// Errors from the base repository (NotFound included) are returned and
// nothing is stored. A store failure is returned as an error and never
// treated as a miss. Empty collections are returned as empty slices.
//
// # Invalidation
//
// Each level has exactly one parent:
//
//	dish-item -> dish-list -> submenu-item -> submenu-list -> menu-item -> menu-list
//
// A write of a dish, submenu or menu starts at that kind's item level and
// deletes the key of every level up to menu-list, since each parent
// embeds a counter or a copy of its children. Deleting a menu or a submenu
// also deletes every key under its subtree prefix.
//
// The cascade runs on the configured Dispatcher. SyncDispatcher (default)
// completes it before the write returns. AsyncDispatcher runs it in the
// background with a context that is not cancelled with the request; call
// Wait before shutdown.
//
// Cascade failures are logged and counted in Stats. The write itself has
// already been committed and is reported as successful.
package repositorycache
