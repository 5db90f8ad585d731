package bunrepo

import (
	"context"
	"fmt"

	"github.com/goliatone/go-menu-cache/menu"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func (r *Repository) ListDishes(ctx context.Context, menuID, submenuID uuid.UUID) ([]menu.Dish, error) {
	var rows []dishRow
	err := r.dishQuery(r.db, menuID, submenuID).
		OrderExpr("d.title ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}

	dishes := make([]menu.Dish, 0, len(rows))
	for _, row := range rows {
		dishes = append(dishes, row.toDish())
	}
	return dishes, nil
}

func (r *Repository) GetDish(ctx context.Context, menuID, submenuID, dishID uuid.UUID) (menu.Dish, error) {
	return r.getDish(ctx, r.db, menuID, submenuID, dishID)
}

func (r *Repository) CreateDish(ctx context.Context, menuID, submenuID uuid.UUID, in menu.DishCreate) (menu.Dish, error) {
	if err := in.Validate(); err != nil {
		return menu.Dish{}, err
	}

	var created menu.Dish
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := submenuExists(ctx, tx, menuID, submenuID); err != nil {
			return err
		}

		row := dishRow{
			ID:          uuid.New(),
			Title:       in.Title,
			Description: in.Description,
			Price:       *in.Price,
			SubmenuID:   submenuID,
		}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return classify(menu.KindDish, err)
		}

		var err error
		created, err = r.getDish(ctx, tx, menuID, submenuID, row.ID)
		return err
	})
	return created, err
}

func (r *Repository) UpdateDish(ctx context.Context, menuID, submenuID, dishID uuid.UUID, in menu.DishUpdate) (menu.Dish, error) {
	if err := in.Validate(); err != nil {
		return menu.Dish{}, err
	}

	var updated menu.Dish
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := r.getDish(ctx, tx, menuID, submenuID, dishID)
		if err != nil {
			return err
		}

		row := dishRow{
			ID:          current.ID,
			Title:       current.Title,
			Description: current.Description,
			Price:       current.Price,
			SubmenuID:   current.SubmenuID,
		}
		if in.Title != nil {
			row.Title = *in.Title
		}
		if in.Description != nil {
			row.Description = in.Description
		}
		if in.Price != nil {
			row.Price = *in.Price
		}

		res, err := tx.NewUpdate().
			Model(&row).
			Column("title", "description", "price").
			Where("id = ?", dishID).
			Where("submenu_id = ?", submenuID).
			Exec(ctx)
		if err := checkAffected(menu.KindDish, res, err); err != nil {
			return err
		}

		updated, err = r.getDish(ctx, tx, menuID, submenuID, dishID)
		return err
	})
	return updated, err
}

func (r *Repository) DeleteDish(ctx context.Context, menuID, submenuID, dishID uuid.UUID) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// The dish must sit under the given submenu and that submenu under the given menu.
		if err := submenuExists(ctx, tx, menuID, submenuID); err != nil {
			if menu.IsNotFound(err) {
				return menu.NewNotFound(menu.KindDish)
			}
			return err
		}

		res, err := tx.NewDelete().
			Model((*dishRow)(nil)).
			Where("id = ?", dishID).
			Where("submenu_id = ?", submenuID).
			Exec(ctx)
		return checkAffected(menu.KindDish, res, err)
	})
}

// dishQuery selects dishes of submenuID, joined to submenus so that a
// submenu belonging to another menu yields no rows.
func (r *Repository) dishQuery(db bun.IDB, menuID, submenuID uuid.UUID) *bun.SelectQuery {
	return db.NewSelect().
		Model((*dishRow)(nil)).
		ColumnExpr("d.id, d.title, d.description, d.price, d.submenu_id").
		Join("JOIN submenus AS s ON s.id = d.submenu_id").
		Where("d.submenu_id = ?", submenuID).
		Where("s.menu_id = ?", menuID)
}

func (r *Repository) getDish(ctx context.Context, db bun.IDB, menuID, submenuID, dishID uuid.UUID) (menu.Dish, error) {
	var row dishRow
	err := r.dishQuery(db, menuID, submenuID).
		Where("d.id = ?", dishID).
		Limit(1).
		Scan(ctx, &row)
	if err != nil {
		return menu.Dish{}, classify(menu.KindDish, err)
	}
	return row.toDish(), nil
}

func submenuExists(ctx context.Context, db bun.IDB, menuID, submenuID uuid.UUID) error {
	if err := menuExists(ctx, db, menuID); err != nil {
		return err
	}

	exists, err := db.NewSelect().
		Model((*submenuRow)(nil)).
		ColumnExpr("s.id").
		Where("s.id = ?", submenuID).
		Where("s.menu_id = ?", menuID).
		Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return menu.NewNotFound(menu.KindSubmenu)
	}
	return nil
}
