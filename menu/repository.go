package menu

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for the menu hierarchy.
//
// Every lookup is scoped by its ancestors: a submenu is only visible under its
// own menu and a dish only under its own submenu of its own menu. Lists never
// fail with ErrNotFound; an unknown parent yields an empty slice.
type Repository interface {
	ListMenus(ctx context.Context) ([]Menu, error)
	GetMenu(ctx context.Context, menuID uuid.UUID) (Menu, error)
	CreateMenu(ctx context.Context, in MenuCreate) (Menu, error)
	UpdateMenu(ctx context.Context, menuID uuid.UUID, in MenuUpdate) (Menu, error)
	DeleteMenu(ctx context.Context, menuID uuid.UUID) error

	ListSubmenus(ctx context.Context, menuID uuid.UUID) ([]Submenu, error)
	GetSubmenu(ctx context.Context, menuID, submenuID uuid.UUID) (Submenu, error)
	CreateSubmenu(ctx context.Context, menuID uuid.UUID, in SubmenuCreate) (Submenu, error)
	UpdateSubmenu(ctx context.Context, menuID, submenuID uuid.UUID, in SubmenuUpdate) (Submenu, error)
	DeleteSubmenu(ctx context.Context, menuID, submenuID uuid.UUID) error

	ListDishes(ctx context.Context, menuID, submenuID uuid.UUID) ([]Dish, error)
	GetDish(ctx context.Context, menuID, submenuID, dishID uuid.UUID) (Dish, error)
	CreateDish(ctx context.Context, menuID, submenuID uuid.UUID, in DishCreate) (Dish, error)
	UpdateDish(ctx context.Context, menuID, submenuID, dishID uuid.UUID, in DishUpdate) (Dish, error)
	DeleteDish(ctx context.Context, menuID, submenuID, dishID uuid.UUID) error
}

// Exporter reads the whole hierarchy for reporting. It bypasses any cache.
type Exporter interface {
	ExportRows(ctx context.Context) ([]ExportRow, error)
}
