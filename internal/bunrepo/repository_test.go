package bunrepo_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-menu-cache/internal/bunrepo"
	"github.com/goliatone/go-menu-cache/menu"
	"github.com/goliatone/go-menu-cache/pkg/testsupport"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func price(s string) *menu.Price {
	p := menu.MustParsePrice(s)
	return &p
}

type hierarchy struct {
	menu    menu.Menu
	submenu menu.Submenu
	dish    menu.Dish
}

func seed(t *testing.T, repo *bunrepo.Repository) hierarchy {
	t.Helper()
	ctx := context.Background()

	m, err := repo.CreateMenu(ctx, menu.MenuCreate{Title: "Lunch"})
	require.NoError(t, err)
	s, err := repo.CreateSubmenu(ctx, m.ID, menu.SubmenuCreate{Title: "Soups"})
	require.NoError(t, err)
	d, err := repo.CreateDish(ctx, m.ID, s.ID, menu.DishCreate{Title: "Tomato Soup", Price: price("5.50")})
	require.NoError(t, err)

	return hierarchy{menu: m, submenu: s, dish: d}
}

func TestRepository_CountersScenario(t *testing.T) {
	ctx := context.Background()
	repo := testsupport.NewRepository(t)

	h := seed(t, repo)

	got, err := repo.GetMenu(ctx, h.menu.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", got.Title)
	assert.Equal(t, 1, got.SubmenusCount)
	assert.Equal(t, 1, got.DishesCount)

	sub, err := repo.GetSubmenu(ctx, h.menu.ID, h.submenu.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sub.DishesCount)
	assert.Equal(t, h.menu.ID, sub.MenuID)

	assert.Equal(t, "5.50", h.dish.Price.String())
	assert.Equal(t, h.submenu.ID, h.dish.SubmenuID)

	require.NoError(t, repo.DeleteDish(ctx, h.menu.ID, h.submenu.ID, h.dish.ID))

	got, err = repo.GetMenu(ctx, h.menu.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SubmenusCount)
	assert.Equal(t, 0, got.DishesCount)
}

func TestRepository_CountersAcrossSubmenus(t *testing.T) {
	ctx := context.Background()
	repo := testsupport.NewRepository(t)

	m, err := repo.CreateMenu(ctx, menu.MenuCreate{Title: "Dinner"})
	require.NoError(t, err)

	for i, title := range []string{"Mains", "Desserts"} {
		s, err := repo.CreateSubmenu(ctx, m.ID, menu.SubmenuCreate{Title: title})
		require.NoError(t, err)
		for j := 0; j <= i; j++ {
			_, err := repo.CreateDish(ctx, m.ID, s.ID, menu.DishCreate{
				Title: title + strings.Repeat("!", j+1),
				Price: price("1"),
			})
			require.NoError(t, err)
		}
	}

	got, err := repo.GetMenu(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.SubmenusCount)
	assert.Equal(t, 3, got.DishesCount)

	submenus, err := repo.ListSubmenus(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, submenus, 2)
	assert.Equal(t, "Desserts", submenus[0].Title, "lists are ordered by title")
	assert.Equal(t, 2, submenus[0].DishesCount)
	assert.Equal(t, 1, submenus[1].DishesCount)
}

func TestRepository_EmptyLists(t *testing.T) {
	ctx := context.Background()
	repo := testsupport.NewRepository(t)

	menus, err := repo.ListMenus(ctx)
	require.NoError(t, err)
	assert.NotNil(t, menus)
	assert.Empty(t, menus)

	submenus, err := repo.ListSubmenus(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, submenus)
	assert.Empty(t, submenus)

	dishes, err := repo.ListDishes(ctx, uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, dishes)
	assert.Empty(t, dishes)
}

func TestRepository_CascadeDelete(t *testing.T) {
	ctx := context.Background()
	repo := testsupport.NewRepository(t)
	h := seed(t, repo)

	require.NoError(t, repo.DeleteMenu(ctx, h.menu.ID))

	_, err := repo.GetMenu(ctx, h.menu.ID)
	assert.True(t, menu.IsNotFound(err))

	submenus, err := repo.ListSubmenus(ctx, h.menu.ID)
	require.NoError(t, err)
	assert.Empty(t, submenus)

	dishes, err := repo.ListDishes(ctx, h.menu.ID, h.submenu.ID)
	require.NoError(t, err)
	assert.Empty(t, dishes)

	_, err = repo.GetSubmenu(ctx, h.menu.ID, h.submenu.ID)
	assert.True(t, menu.IsNotFound(err))
	_, err = repo.GetDish(ctx, h.menu.ID, h.submenu.ID, h.dish.ID)
	assert.True(t, menu.IsNotFound(err))
}

func TestRepository_CascadeDeleteIgnoresDSNForeignKeyFlag(t *testing.T) {
	for name, query := range map[string]string{
		"bare":         "",
		"explicit off": "?_foreign_keys=off",
		"short off":    "?_fk=0",
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			cfg := bunrepo.Config{
				Driver: bunrepo.DriverSQLite,
				DSN:    "file:" + filepath.Join(t.TempDir(), "menu.db") + query,
			}
			require.NoError(t, bunrepo.Migrate(ctx, cfg))

			db, err := bunrepo.Open(ctx, cfg)
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })

			repo := bunrepo.NewRepository(db)
			h := seed(t, repo)

			require.NoError(t, repo.DeleteMenu(ctx, h.menu.ID))

			_, err = repo.GetSubmenu(ctx, h.menu.ID, h.submenu.ID)
			assert.True(t, menu.IsNotFound(err), "submenu of deleted menu: %v", err)
			_, err = repo.GetDish(ctx, h.menu.ID, h.submenu.ID, h.dish.ID)
			assert.True(t, menu.IsNotFound(err), "dish of deleted menu: %v", err)

			var orphans int
			require.NoError(t, db.NewSelect().TableExpr("submenus").ColumnExpr("COUNT(*)").Scan(ctx, &orphans))
			assert.Zero(t, orphans)
			require.NoError(t, db.NewSelect().TableExpr("dishes").ColumnExpr("COUNT(*)").Scan(ctx, &orphans))
			assert.Zero(t, orphans)
		})
	}
}

func TestRepository_SubmenuDeleteRecomputesParent(t *testing.T) {
	ctx := context.Background()
	repo := testsupport.NewRepository(t)
	h := seed(t, repo)

	require.NoError(t, repo.DeleteSubmenu(ctx, h.menu.ID, h.submenu.ID))

	got, err := repo.GetMenu(ctx, h.menu.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.SubmenusCount)
	assert.Equal(t, 0, got.DishesCount)

	_, err = repo.GetDish(ctx, h.menu.ID, h.submenu.ID, h.dish.ID)
	assert.True(t, menu.IsNotFound(err))
}

func TestRepository_Scoping(t *testing.T) {
	ctx := context.Background()
	repo := testsupport.NewRepository(t)
	h := seed(t, repo)

	other, err := repo.CreateMenu(ctx, menu.MenuCreate{Title: "Breakfast"})
	require.NoError(t, err)

	_, err = repo.GetSubmenu(ctx, other.ID, h.submenu.ID)
	assert.ErrorIs(t, err, menu.ErrNotFound, "submenu under the wrong menu")

	_, err = repo.GetDish(ctx, other.ID, h.submenu.ID, h.dish.ID)
	assert.ErrorIs(t, err, menu.ErrNotFound, "dish under a submenu of another menu")

	dishes, err := repo.ListDishes(ctx, other.ID, h.submenu.ID)
	require.NoError(t, err)
	assert.Empty(t, dishes)

	_, err = repo.UpdateSubmenu(ctx, other.ID, h.submenu.ID, menu.SubmenuUpdate{Title: ptr("Moved")})
	assert.ErrorIs(t, err, menu.ErrNotFound)

	err = repo.DeleteSubmenu(ctx, other.ID, h.submenu.ID)
	assert.ErrorIs(t, err, menu.ErrNotFound)

	err = repo.DeleteDish(ctx, other.ID, h.submenu.ID, h.dish.ID)
	assert.ErrorIs(t, err, menu.ErrNotFound)

	// Still present under the right scope.
	_, err = repo.GetDish(ctx, h.menu.ID, h.submenu.ID, h.dish.ID)
	assert.NoError(t, err)
}

func TestRepository_CreateUnderMissingParent(t *testing.T) {
	ctx := context.Background()
	repo := testsupport.NewRepository(t)
	h := seed(t, repo)

	_, err := repo.CreateSubmenu(ctx, uuid.New(), menu.SubmenuCreate{Title: "Orphan"})
	var nf *menu.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, menu.KindMenu, nf.Kind)

	_, err = repo.CreateDish(ctx, h.menu.ID, uuid.New(), menu.DishCreate{Title: "Orphan", Price: price("1")})
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, menu.KindSubmenu, nf.Kind)
}

func TestRepository_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	repo := testsupport.NewRepository(t)
	h := seed(t, repo)

	updated, err := repo.UpdateDish(ctx, h.menu.ID, h.submenu.ID, h.dish.ID, menu.DishUpdate{Price: price("6.25")})
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", updated.Title)
	assert.Equal(t, "6.25", updated.Price.String())

	m, err := repo.UpdateMenu(ctx, h.menu.ID, menu.MenuUpdate{Description: ptr("weekday lunch")})
	require.NoError(t, err)
	assert.Equal(t, "Lunch", m.Title)
	require.NotNil(t, m.Description)
	assert.Equal(t, "weekday lunch", *m.Description)
	assert.Equal(t, 1, m.SubmenusCount, "update returns fresh counters")

	_, err = repo.UpdateMenu(ctx, uuid.New(), menu.MenuUpdate{Title: ptr("Ghost")})
	assert.ErrorIs(t, err, menu.ErrNotFound)
}

func TestRepository_Conflicts(t *testing.T) {
	ctx := context.Background()
	repo := testsupport.NewRepository(t)
	h := seed(t, repo)

	_, err := repo.CreateMenu(ctx, menu.MenuCreate{Title: "Lunch"})
	assert.ErrorIs(t, err, menu.ErrConflict)

	other, err := repo.CreateMenu(ctx, menu.MenuCreate{Title: "Dinner"})
	require.NoError(t, err)

	// Title uniqueness spans the whole store, not one parent.
	_, err = repo.CreateSubmenu(ctx, other.ID, menu.SubmenuCreate{Title: "Soups"})
	assert.ErrorIs(t, err, menu.ErrConflict)

	_, err = repo.UpdateMenu(ctx, other.ID, menu.MenuUpdate{Title: ptr("Lunch")})
	assert.ErrorIs(t, err, menu.ErrConflict)

	_, err = repo.CreateDish(ctx, h.menu.ID, h.submenu.ID, menu.DishCreate{Title: "Tomato Soup", Price: price("1")})
	assert.ErrorIs(t, err, menu.ErrConflict)
}

func TestRepository_Validation(t *testing.T) {
	ctx := context.Background()
	repo := testsupport.NewRepository(t)

	_, err := repo.CreateMenu(ctx, menu.MenuCreate{})
	assert.ErrorIs(t, err, menu.ErrValidation)

	menus, err := repo.ListMenus(ctx)
	require.NoError(t, err)
	assert.Empty(t, menus)
}

func TestRepository_ExportRows(t *testing.T) {
	ctx := context.Background()
	repo := testsupport.NewRepository(t)
	h := seed(t, repo)

	empty, err := repo.CreateMenu(ctx, menu.MenuCreate{Title: "Brunch"})
	require.NoError(t, err)
	desserts, err := repo.CreateSubmenu(ctx, h.menu.ID, menu.SubmenuCreate{Title: "Desserts", Description: ptr("sweet")})
	require.NoError(t, err)

	rows, err := repo.ExportRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, empty.ID, rows[0].MenuID)
	assert.Nil(t, rows[0].SubmenuID)

	require.NotNil(t, rows[1].SubmenuID)
	assert.Equal(t, desserts.ID, *rows[1].SubmenuID)
	assert.Nil(t, rows[1].DishID)

	require.NotNil(t, rows[2].DishID)
	assert.Equal(t, h.dish.ID, *rows[2].DishID)
	require.NotNil(t, rows[2].DishPrice)
	assert.Equal(t, "5.50", rows[2].DishPrice.String())

	var buf bytes.Buffer
	require.NoError(t, menu.WriteTSV(&buf, rows))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], empty.ID.String()+"\tBrunch"))
	assert.Equal(t, "\t\t"+h.dish.ID.String()+"\tTomato Soup\t\t5.50", lines[4])
}

func TestMigrate_Idempotent(t *testing.T) {
	cfg := testsupport.SQLiteConfig(t)

	require.NoError(t, bunrepo.Migrate(context.Background(), cfg))
	require.NoError(t, bunrepo.Migrate(context.Background(), cfg))
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, bunrepo.Config{Driver: bunrepo.DriverSQLite, DSN: "file:x.db"}.Validate())
	assert.Error(t, bunrepo.Config{Driver: "mysql", DSN: "x"}.Validate())
	assert.Error(t, bunrepo.Config{Driver: bunrepo.DriverPostgres}.Validate())
}
