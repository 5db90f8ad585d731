// Package cache provides the cache store contract, key serialization and
// snapshot codecs used by the menu service.
//
// # Overview
//
//   - Store: a byte-oriented backend with Get, Set, Delete and DeleteByPrefix
//   - KeySerializer: builds hierarchical path keys such as menus/{id}/submenus
//   - Codec: encodes snapshots (msgpack by default, JSON optionally)
//
// Backends live in internal/cacheinfra and are selected through Config.
//
// # Read-through
//
//	menu, hit, err := cache.GetOrFetch(ctx, store, cache.MsgpackCodec(), key,
//		func(ctx context.Context) (menu.Menu, error) {
//			return repo.GetMenu(ctx, id)
//		})
//
// A miss calls the fetch function and stores its encoded result. An error
// from the fetch function is returned and nothing is stored, so NotFound
// results are never cached. A backend failure on Get is returned as is and
// is never treated as a miss.
//
// # Keys
//
// The default serializer joins segments with "/":
//
//	serializer := cache.NewDefaultKeySerializer()
//	serializer.SerializeKey("menus", menuID, "submenus") // menus/{id}/submenus
//
// Every key below a resource starts with PrefixOf(resourceKey), which lets a
// single DeleteByPrefix drop a whole subtree.
package cache
