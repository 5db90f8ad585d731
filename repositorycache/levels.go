package repositorycache

import (
	"github.com/goliatone/go-menu-cache/menu"
)

// Level is one node of the cached resource hierarchy.
type Level int

const (
	LevelDishItem Level = iota
	LevelDishList
	LevelSubmenuItem
	LevelSubmenuList
	LevelMenuItem
	LevelMenuList

	levelCount
)

// levelNone terminates the parent chain.
const levelNone Level = -1

// parents maps each level to the level whose cached value embeds or counts it.
var parents = [levelCount]Level{
	LevelDishItem:    LevelDishList,
	LevelDishList:    LevelSubmenuItem,
	LevelSubmenuItem: LevelSubmenuList,
	LevelSubmenuList: LevelMenuItem,
	LevelMenuItem:    LevelMenuList,
	LevelMenuList:    levelNone,
}

var levelNames = [levelCount]string{
	LevelDishItem:    "dish-item",
	LevelDishList:    "dish-list",
	LevelSubmenuItem: "submenu-item",
	LevelSubmenuList: "submenu-list",
	LevelMenuItem:    "menu-item",
	LevelMenuList:    "menu-list",
}

// Levels lists every level, leaf first.
func Levels() []Level {
	levels := make([]Level, 0, levelCount)
	for l := LevelDishItem; l < levelCount; l++ {
		levels = append(levels, l)
	}
	return levels
}

func (l Level) valid() bool {
	return l >= 0 && l < levelCount
}

func (l Level) String() string {
	if !l.valid() {
		return "unknown"
	}
	return levelNames[l]
}

// Parent returns the next level up, or false at the root.
func (l Level) Parent() (Level, bool) {
	if !l.valid() {
		return levelNone, false
	}
	p := parents[l]
	return p, p != levelNone
}

// Cascade returns start and every ancestor, in invalidation order.
func Cascade(start Level) []Level {
	var chain []Level
	for l, ok := start, start.valid(); ok; l, ok = l.Parent() {
		chain = append(chain, l)
	}
	return chain
}

// ItemLevel is where a write of the given kind starts its cascade.
func ItemLevel(kind menu.Kind) Level {
	switch kind {
	case menu.KindDish:
		return LevelDishItem
	case menu.KindSubmenu:
		return LevelSubmenuItem
	default:
		return LevelMenuItem
	}
}
