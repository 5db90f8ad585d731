package repositorycache

import (
	"github.com/goliatone/go-menu-cache/cache"
	"github.com/google/uuid"
)

const (
	segmentMenus    = "menus"
	segmentSubmenus = "submenus"
	segmentDishes   = "dishes"
)

// Scope carries the identifiers addressed by a read or write. Fields below
// the addressed level are ignored.
type Scope struct {
	MenuID    uuid.UUID
	SubmenuID uuid.UUID
	DishID    uuid.UUID
}

// KeyBuilder derives cache keys from levels and scopes.
type KeyBuilder struct {
	serializer cache.KeySerializer
}

// NewKeyBuilder uses serializer for every key; nil selects the default.
func NewKeyBuilder(serializer cache.KeySerializer) KeyBuilder {
	if serializer == nil {
		serializer = cache.NewDefaultKeySerializer()
	}
	return KeyBuilder{serializer: serializer}
}

// Key returns the key of level within scope.
func (k KeyBuilder) Key(level Level, s Scope) string {
	switch level {
	case LevelMenuList:
		return k.serializer.SerializeKey(segmentMenus)
	case LevelMenuItem:
		return k.serializer.SerializeKey(segmentMenus, s.MenuID)
	case LevelSubmenuList:
		return k.serializer.SerializeKey(segmentMenus, s.MenuID, segmentSubmenus)
	case LevelSubmenuItem:
		return k.serializer.SerializeKey(segmentMenus, s.MenuID, segmentSubmenus, s.SubmenuID)
	case LevelDishList:
		return k.serializer.SerializeKey(segmentMenus, s.MenuID, segmentSubmenus, s.SubmenuID, segmentDishes)
	case LevelDishItem:
		return k.serializer.SerializeKey(segmentMenus, s.MenuID, segmentSubmenus, s.SubmenuID, segmentDishes, s.DishID)
	default:
		panic("repositorycache: unknown level " + level.String())
	}
}

// CascadeKeys returns the keys invalidated by a write starting at level.
func (k KeyBuilder) CascadeKeys(start Level, s Scope) []string {
	levels := Cascade(start)
	keys := make([]string, 0, len(levels))
	for _, l := range levels {
		keys = append(keys, k.Key(l, s))
	}
	return keys
}

// SubtreePrefix returns the prefix shared by every key nested under the
// item at level. Only item levels have subtrees.
func (k KeyBuilder) SubtreePrefix(level Level, s Scope) string {
	return cache.PrefixOf(k.Key(level, s))
}
