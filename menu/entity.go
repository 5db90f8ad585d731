package menu

import (
	"github.com/google/uuid"
)

// Kind names one of the three entity kinds of the hierarchy.
type Kind string

const (
	KindMenu    Kind = "menu"
	KindSubmenu Kind = "submenu"
	KindDish    Kind = "dish"
)

// Menu is the public representation of a menu.
type Menu struct {
	ID            uuid.UUID `json:"id" msgpack:"id"`
	Title         string    `json:"title" msgpack:"title"`
	Description   *string   `json:"description" msgpack:"description"`
	SubmenusCount int       `json:"submenus_count" msgpack:"submenus_count"`
	DishesCount   int       `json:"dishes_count" msgpack:"dishes_count"`
}

// Submenu is the public representation of a submenu.
type Submenu struct {
	ID          uuid.UUID `json:"id" msgpack:"id"`
	Title       string    `json:"title" msgpack:"title"`
	Description *string   `json:"description" msgpack:"description"`
	MenuID      uuid.UUID `json:"menu_id" msgpack:"menu_id"`
	DishesCount int       `json:"dishes_count" msgpack:"dishes_count"`
}

// Dish is the public representation of a dish.
type Dish struct {
	ID          uuid.UUID `json:"id" msgpack:"id"`
	Title       string    `json:"title" msgpack:"title"`
	Description *string   `json:"description" msgpack:"description"`
	Price       Price     `json:"price" msgpack:"price"`
	SubmenuID   uuid.UUID `json:"submenu_id" msgpack:"submenu_id"`
}
