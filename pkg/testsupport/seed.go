package testsupport

import (
	"context"
	"testing"

	"github.com/goliatone/go-menu-cache/menu"
)

// SeedMenu is one menu of a JSON seed tree.
type SeedMenu struct {
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Submenus    []SeedSubmenu `json:"submenus"`
}

type SeedSubmenu struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Dishes      []SeedDish `json:"dishes"`
}

type SeedDish struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Price       menu.Price `json:"price"`
}

// Seed creates the tree stored at path through repo and returns the menus,
// in file order, as read back after every child was created.
func Seed(t testing.TB, repo menu.Repository, path string) []menu.Menu {
	t.Helper()

	var tree []SeedMenu
	LoadFixtureJSON(t, path, &tree)

	ctx := context.Background()
	menus := make([]menu.Menu, 0, len(tree))

	for _, sm := range tree {
		m, err := repo.CreateMenu(ctx, menu.MenuCreate{Title: sm.Title, Description: sm.Description})
		if err != nil {
			t.Fatalf("seed menu %q: %v", sm.Title, err)
		}

		for _, ss := range sm.Submenus {
			s, err := repo.CreateSubmenu(ctx, m.ID, menu.SubmenuCreate{Title: ss.Title, Description: ss.Description})
			if err != nil {
				t.Fatalf("seed submenu %q: %v", ss.Title, err)
			}

			for _, sd := range ss.Dishes {
				price := sd.Price
				in := menu.DishCreate{Title: sd.Title, Description: sd.Description, Price: &price}
				if _, err := repo.CreateDish(ctx, m.ID, s.ID, in); err != nil {
					t.Fatalf("seed dish %q: %v", sd.Title, err)
				}
			}
		}

		m, err = repo.GetMenu(ctx, m.ID)
		if err != nil {
			t.Fatalf("reload seeded menu %q: %v", sm.Title, err)
		}
		menus = append(menus, m)
	}

	return menus
}
