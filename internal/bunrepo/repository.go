package bunrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goliatone/go-menu-cache/menu"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the bun-backed source of truth.
type Repository struct {
	db *bun.DB
}

var (
	_ menu.Repository = (*Repository)(nil)
	_ menu.Exporter   = (*Repository)(nil)
)

// NewRepository wraps an open database.
func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Ping checks the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) ListMenus(ctx context.Context) ([]menu.Menu, error) {
	var rows []menuRow
	err := r.menuQuery(r.db).
		OrderExpr("m.title ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}

	menus := make([]menu.Menu, 0, len(rows))
	for _, row := range rows {
		menus = append(menus, row.toMenu())
	}
	return menus, nil
}

func (r *Repository) GetMenu(ctx context.Context, menuID uuid.UUID) (menu.Menu, error) {
	return r.getMenu(ctx, r.db, menuID)
}

func (r *Repository) CreateMenu(ctx context.Context, in menu.MenuCreate) (menu.Menu, error) {
	if err := in.Validate(); err != nil {
		return menu.Menu{}, err
	}

	var created menu.Menu
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := menuRow{ID: uuid.New(), Title: in.Title, Description: in.Description}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return classify(menu.KindMenu, err)
		}

		var err error
		created, err = r.getMenu(ctx, tx, row.ID)
		return err
	})
	return created, err
}

func (r *Repository) UpdateMenu(ctx context.Context, menuID uuid.UUID, in menu.MenuUpdate) (menu.Menu, error) {
	if err := in.Validate(); err != nil {
		return menu.Menu{}, err
	}

	var updated menu.Menu
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := r.getMenu(ctx, tx, menuID)
		if err != nil {
			return err
		}

		row := menuRow{ID: current.ID, Title: current.Title, Description: current.Description}
		if in.Title != nil {
			row.Title = *in.Title
		}
		if in.Description != nil {
			row.Description = in.Description
		}

		res, err := tx.NewUpdate().
			Model(&row).
			Column("title", "description").
			WherePK().
			Exec(ctx)
		if err := checkAffected(menu.KindMenu, res, err); err != nil {
			return err
		}

		updated, err = r.getMenu(ctx, tx, menuID)
		return err
	})
	return updated, err
}

func (r *Repository) DeleteMenu(ctx context.Context, menuID uuid.UUID) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*menuRow)(nil)).
			Where("id = ?", menuID).
			Exec(ctx)
		return checkAffected(menu.KindMenu, res, err)
	})
}

func (r *Repository) menuQuery(db bun.IDB) *bun.SelectQuery {
	return db.NewSelect().
		Model((*menuRow)(nil)).
		ColumnExpr("m.id, m.title, m.description").
		ColumnExpr(menuSubmenusCountExpr).
		ColumnExpr(menuDishesCountExpr)
}

func (r *Repository) getMenu(ctx context.Context, db bun.IDB, menuID uuid.UUID) (menu.Menu, error) {
	var row menuRow
	err := r.menuQuery(db).
		Where("m.id = ?", menuID).
		Limit(1).
		Scan(ctx, &row)
	if err != nil {
		return menu.Menu{}, classify(menu.KindMenu, err)
	}
	return row.toMenu(), nil
}

// ExportRows returns the joined hierarchy ordered by menu, submenu and dish
// title. Menus without submenus and submenus without dishes are included.
func (r *Repository) ExportRows(ctx context.Context) ([]menu.ExportRow, error) {
	var rows []exportRow
	err := r.db.NewSelect().
		TableExpr("menus AS m").
		ColumnExpr("m.id AS menu_id, m.title AS menu_title, m.description AS menu_description").
		ColumnExpr("s.id AS submenu_id, s.title AS submenu_title, s.description AS submenu_description").
		ColumnExpr("d.id AS dish_id, d.title AS dish_title, d.description AS dish_description, d.price AS dish_price").
		Join("LEFT JOIN submenus AS s ON s.menu_id = m.id").
		Join("LEFT JOIN dishes AS d ON d.submenu_id = s.id").
		OrderExpr("m.title ASC, s.title ASC, d.title ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("export rows: %w", err)
	}

	out := make([]menu.ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toExportRow())
	}
	return out, nil
}

// checkAffected turns a zero-row write into NotFound.
func checkAffected(kind menu.Kind, res sql.Result, err error) error {
	if err != nil {
		return classify(kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return menu.NewNotFound(kind)
	}
	return nil
}
