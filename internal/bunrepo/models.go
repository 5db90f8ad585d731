package bunrepo

import (
	"github.com/goliatone/go-menu-cache/menu"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type menuRow struct {
	bun.BaseModel `bun:"table:menus,alias:m"`

	ID            uuid.UUID `bun:"id,pk"`
	Title         string    `bun:"title,notnull"`
	Description   *string   `bun:"description"`
	SubmenusCount int       `bun:"submenus_count,scanonly"`
	DishesCount   int       `bun:"dishes_count,scanonly"`
}

func (r menuRow) toMenu() menu.Menu {
	return menu.Menu{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		SubmenusCount: r.SubmenusCount,
		DishesCount:   r.DishesCount,
	}
}

type submenuRow struct {
	bun.BaseModel `bun:"table:submenus,alias:s"`

	ID          uuid.UUID `bun:"id,pk"`
	Title       string    `bun:"title,notnull"`
	Description *string   `bun:"description"`
	MenuID      uuid.UUID `bun:"menu_id,notnull"`
	DishesCount int       `bun:"dishes_count,scanonly"`
}

func (r submenuRow) toSubmenu() menu.Submenu {
	return menu.Submenu{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		MenuID:      r.MenuID,
		DishesCount: r.DishesCount,
	}
}

type dishRow struct {
	bun.BaseModel `bun:"table:dishes,alias:d"`

	ID          uuid.UUID  `bun:"id,pk"`
	Title       string     `bun:"title,notnull"`
	Description *string    `bun:"description"`
	Price       menu.Price `bun:"price,notnull"`
	SubmenuID   uuid.UUID  `bun:"submenu_id,notnull"`
}

func (r dishRow) toDish() menu.Dish {
	return menu.Dish{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		SubmenuID:   r.SubmenuID,
	}
}

type exportRow struct {
	MenuID             uuid.UUID   `bun:"menu_id"`
	MenuTitle          string      `bun:"menu_title"`
	MenuDescription    *string     `bun:"menu_description"`
	SubmenuID          *uuid.UUID  `bun:"submenu_id"`
	SubmenuTitle       *string     `bun:"submenu_title"`
	SubmenuDescription *string     `bun:"submenu_description"`
	DishID             *uuid.UUID  `bun:"dish_id"`
	DishTitle          *string     `bun:"dish_title"`
	DishDescription    *string     `bun:"dish_description"`
	DishPrice          *menu.Price `bun:"dish_price"`
}

func (r exportRow) toExportRow() menu.ExportRow {
	return menu.ExportRow{
		MenuID:             r.MenuID,
		MenuTitle:          r.MenuTitle,
		MenuDescription:    r.MenuDescription,
		SubmenuID:          r.SubmenuID,
		SubmenuTitle:       r.SubmenuTitle,
		SubmenuDescription: r.SubmenuDescription,
		DishID:             r.DishID,
		DishTitle:          r.DishTitle,
		DishDescription:    r.DishDescription,
		DishPrice:          r.DishPrice,
	}
}

// Correlated aggregates; counters are never stored.
const (
	menuSubmenusCountExpr  = "(SELECT COUNT(*) FROM submenus AS cs WHERE cs.menu_id = m.id) AS submenus_count"
	menuDishesCountExpr    = "(SELECT COUNT(*) FROM dishes AS cd JOIN submenus AS cs ON cs.id = cd.submenu_id WHERE cs.menu_id = m.id) AS dishes_count"
	submenuDishesCountExpr = "(SELECT COUNT(*) FROM dishes AS cd WHERE cd.submenu_id = s.id) AS dishes_count"
)
