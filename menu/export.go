package menu

import (
	"encoding/csv"
	"io"

	"github.com/google/uuid"
)

// ExportRow is one joined menu/submenu/dish tuple. Submenu and dish columns
// are nil for menus without submenus and submenus without dishes.
type ExportRow struct {
	MenuID             uuid.UUID
	MenuTitle          string
	MenuDescription    *string
	SubmenuID          *uuid.UUID
	SubmenuTitle       *string
	SubmenuDescription *string
	DishID             *uuid.UUID
	DishTitle          *string
	DishDescription    *string
	DishPrice          *Price
}

// WriteTSV writes the hierarchical dump: one line per entity, six columns,
// parent columns left blank on continuation lines. Rows must be sorted by
// menu, then submenu.
func WriteTSV(w io.Writer, rows []ExportRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	var (
		currentMenu    uuid.UUID
		currentSubmenu uuid.UUID
		haveMenu       bool
	)

	for _, row := range rows {
		if !haveMenu || row.MenuID != currentMenu {
			if err := cw.Write([]string{row.MenuID.String(), row.MenuTitle, deref(row.MenuDescription), "", "", ""}); err != nil {
				return err
			}
			currentMenu = row.MenuID
			currentSubmenu = uuid.Nil
			haveMenu = true
		}

		if row.SubmenuID == nil {
			continue
		}
		if *row.SubmenuID != currentSubmenu {
			if err := cw.Write([]string{"", row.SubmenuID.String(), deref(row.SubmenuTitle), deref(row.SubmenuDescription), "", ""}); err != nil {
				return err
			}
			currentSubmenu = *row.SubmenuID
		}

		if row.DishID == nil {
			continue
		}
		price := ""
		if row.DishPrice != nil {
			price = row.DishPrice.String()
		}
		if err := cw.Write([]string{"", "", row.DishID.String(), deref(row.DishTitle), deref(row.DishDescription), price}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
