package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"sort"

	"github.com/goliatone/go-menu-cache/menu"
)

func (a *api) listMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := a.repo.ListMenus(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, menus)
}

func (a *api) getMenu(w http.ResponseWriter, r *http.Request) {
	menuID, err := pathID(r, "menu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	m, err := a.repo.GetMenu(r.Context(), menuID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, m)
}

func (a *api) createMenu(w http.ResponseWriter, r *http.Request) {
	var in menu.MenuCreate
	if err := decodeBody(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	m, err := a.repo.CreateMenu(r.Context(), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, m)
}

func (a *api) updateMenu(w http.ResponseWriter, r *http.Request) {
	menuID, err := pathID(r, "menu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var in menu.MenuUpdate
	if err := decodeBody(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	m, err := a.repo.UpdateMenu(r.Context(), menuID, in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, m)
}

func (a *api) deleteMenu(w http.ResponseWriter, r *http.Request) {
	menuID, err := pathID(r, "menu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.repo.DeleteMenu(r.Context(), menuID); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deleted{OK: true})
}

func (a *api) listSubmenus(w http.ResponseWriter, r *http.Request) {
	menuID, err := pathID(r, "menu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	submenus, err := a.repo.ListSubmenus(r.Context(), menuID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, submenus)
}

func (a *api) getSubmenu(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	s, err := a.repo.GetSubmenu(r.Context(), ids[0], ids[1])
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s)
}

func (a *api) createSubmenu(w http.ResponseWriter, r *http.Request) {
	menuID, err := pathID(r, "menu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var in menu.SubmenuCreate
	if err := decodeBody(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	s, err := a.repo.CreateSubmenu(r.Context(), menuID, in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, s)
}

func (a *api) updateSubmenu(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var in menu.SubmenuUpdate
	if err := decodeBody(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	s, err := a.repo.UpdateSubmenu(r.Context(), ids[0], ids[1], in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s)
}

func (a *api) deleteSubmenu(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.repo.DeleteSubmenu(r.Context(), ids[0], ids[1]); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deleted{OK: true})
}

func (a *api) listDishes(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	dishes, err := a.repo.ListDishes(r.Context(), ids[0], ids[1])
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dishes)
}

func (a *api) getDish(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id", "dish_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	d, err := a.repo.GetDish(r.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

func (a *api) createDish(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var in menu.DishCreate
	if err := decodeBody(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	d, err := a.repo.CreateDish(r.Context(), ids[0], ids[1], in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, d)
}

func (a *api) updateDish(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id", "dish_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var in menu.DishUpdate
	if err := decodeBody(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	d, err := a.repo.UpdateDish(r.Context(), ids[0], ids[1], ids[2], in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

func (a *api) deleteDish(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id", "dish_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.repo.DeleteDish(r.Context(), ids[0], ids[1], ids[2]); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deleted{OK: true})
}

// export streams the whole hierarchy as tab separated values. It reads the
// database directly so the report never reflects a stale cache entry.
func (a *api) export(w http.ResponseWriter, r *http.Request) {
	rows, err := a.exporter.ExportRows(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := menu.WriteTSV(&buf, rows); err != nil {
		a.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="menus.tsv"`)
	writeBody(w, r, http.StatusOK, "text/tab-separated-values; charset=utf-8", buf.Bytes())
}

type healthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	report := healthReport{Status: "ok", Checks: make(map[string]string, len(a.checks))}

	names := make([]string, 0, len(a.checks))
	for name := range a.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	for _, name := range names {
		if err := runCheck(r.Context(), a.checks[name]); err != nil {
			report.Checks[name] = err.Error()
			report.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		report.Checks[name] = "ok"
	}

	writeJSON(w, r, status, report)
}

func runCheck(ctx context.Context, check HealthCheck) error {
	if check == nil {
		return nil
	}
	return check(ctx)
}
