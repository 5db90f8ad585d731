package bunrepo

import (
	"context"
	"fmt"

	"github.com/goliatone/go-menu-cache/menu"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func (r *Repository) ListSubmenus(ctx context.Context, menuID uuid.UUID) ([]menu.Submenu, error) {
	var rows []submenuRow
	err := r.submenuQuery(r.db).
		Where("s.menu_id = ?", menuID).
		OrderExpr("s.title ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list submenus: %w", err)
	}

	submenus := make([]menu.Submenu, 0, len(rows))
	for _, row := range rows {
		submenus = append(submenus, row.toSubmenu())
	}
	return submenus, nil
}

func (r *Repository) GetSubmenu(ctx context.Context, menuID, submenuID uuid.UUID) (menu.Submenu, error) {
	return r.getSubmenu(ctx, r.db, menuID, submenuID)
}

func (r *Repository) CreateSubmenu(ctx context.Context, menuID uuid.UUID, in menu.SubmenuCreate) (menu.Submenu, error) {
	if err := in.Validate(); err != nil {
		return menu.Submenu{}, err
	}

	var created menu.Submenu
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := menuExists(ctx, tx, menuID); err != nil {
			return err
		}

		row := submenuRow{ID: uuid.New(), Title: in.Title, Description: in.Description, MenuID: menuID}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return classify(menu.KindSubmenu, err)
		}

		var err error
		created, err = r.getSubmenu(ctx, tx, menuID, row.ID)
		return err
	})
	return created, err
}

func (r *Repository) UpdateSubmenu(ctx context.Context, menuID, submenuID uuid.UUID, in menu.SubmenuUpdate) (menu.Submenu, error) {
	if err := in.Validate(); err != nil {
		return menu.Submenu{}, err
	}

	var updated menu.Submenu
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := r.getSubmenu(ctx, tx, menuID, submenuID)
		if err != nil {
			return err
		}

		row := submenuRow{ID: current.ID, Title: current.Title, Description: current.Description, MenuID: current.MenuID}
		if in.Title != nil {
			row.Title = *in.Title
		}
		if in.Description != nil {
			row.Description = in.Description
		}

		res, err := tx.NewUpdate().
			Model(&row).
			Column("title", "description").
			Where("id = ?", submenuID).
			Where("menu_id = ?", menuID).
			Exec(ctx)
		if err := checkAffected(menu.KindSubmenu, res, err); err != nil {
			return err
		}

		updated, err = r.getSubmenu(ctx, tx, menuID, submenuID)
		return err
	})
	return updated, err
}

func (r *Repository) DeleteSubmenu(ctx context.Context, menuID, submenuID uuid.UUID) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*submenuRow)(nil)).
			Where("id = ?", submenuID).
			Where("menu_id = ?", menuID).
			Exec(ctx)
		return checkAffected(menu.KindSubmenu, res, err)
	})
}

func (r *Repository) submenuQuery(db bun.IDB) *bun.SelectQuery {
	return db.NewSelect().
		Model((*submenuRow)(nil)).
		ColumnExpr("s.id, s.title, s.description, s.menu_id").
		ColumnExpr(submenuDishesCountExpr)
}

func (r *Repository) getSubmenu(ctx context.Context, db bun.IDB, menuID, submenuID uuid.UUID) (menu.Submenu, error) {
	var row submenuRow
	err := r.submenuQuery(db).
		Where("s.id = ?", submenuID).
		Where("s.menu_id = ?", menuID).
		Limit(1).
		Scan(ctx, &row)
	if err != nil {
		return menu.Submenu{}, classify(menu.KindSubmenu, err)
	}
	return row.toSubmenu(), nil
}

func menuExists(ctx context.Context, db bun.IDB, menuID uuid.UUID) error {
	exists, err := db.NewSelect().
		Model((*menuRow)(nil)).
		ColumnExpr("m.id").
		Where("m.id = ?", menuID).
		Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return menu.NewNotFound(menu.KindMenu)
	}
	return nil
}
