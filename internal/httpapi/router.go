// Package httpapi exposes the menu service over HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-menu-cache/menu"
	"github.com/gorilla/mux"
)

// APIPrefix is the mount point of the versioned API.
const APIPrefix = "/api/v1"

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Config wires the router to its collaborators.
type Config struct {
	Repository   menu.Repository
	Exporter     menu.Exporter
	Logger       *slog.Logger
	HealthChecks map[string]HealthCheck
}

type api struct {
	repo     menu.Repository
	exporter menu.Exporter
	logger   *slog.Logger
	checks   map[string]HealthCheck
}

// NewRouter registers every route on a fresh gorilla/mux router.
func NewRouter(cfg Config) *mux.Router {
	a := &api{
		repo:     cfg.Repository,
		exporter: cfg.Exporter,
		logger:   cfg.Logger,
		checks:   cfg.HealthChecks,
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}

	router := mux.NewRouter()
	router.Use(a.logRequests)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusNotFound, detail{Detail: "not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusMethodNotAllowed, detail{Detail: "method not allowed"})
	})

	router.HandleFunc("/healthz", a.health).Methods(http.MethodGet)

	v1 := router.PathPrefix(APIPrefix).Subrouter()

	v1.HandleFunc("/menus", a.listMenus).Methods(http.MethodGet)
	v1.HandleFunc("/menus", a.createMenu).Methods(http.MethodPost)
	v1.HandleFunc("/menus/{menu_id}", a.getMenu).Methods(http.MethodGet)
	v1.HandleFunc("/menus/{menu_id}", a.updateMenu).Methods(http.MethodPatch)
	v1.HandleFunc("/menus/{menu_id}", a.deleteMenu).Methods(http.MethodDelete)

	v1.HandleFunc("/menus/{menu_id}/submenus", a.listSubmenus).Methods(http.MethodGet)
	v1.HandleFunc("/menus/{menu_id}/submenus", a.createSubmenu).Methods(http.MethodPost)
	v1.HandleFunc("/menus/{menu_id}/submenus/{submenu_id}", a.getSubmenu).Methods(http.MethodGet)
	v1.HandleFunc("/menus/{menu_id}/submenus/{submenu_id}", a.updateSubmenu).Methods(http.MethodPatch)
	v1.HandleFunc("/menus/{menu_id}/submenus/{submenu_id}", a.deleteSubmenu).Methods(http.MethodDelete)

	v1.HandleFunc("/menus/{menu_id}/submenus/{submenu_id}/dishes", a.listDishes).Methods(http.MethodGet)
	v1.HandleFunc("/menus/{menu_id}/submenus/{submenu_id}/dishes", a.createDish).Methods(http.MethodPost)
	v1.HandleFunc("/menus/{menu_id}/submenus/{submenu_id}/dishes/{dish_id}", a.getDish).Methods(http.MethodGet)
	v1.HandleFunc("/menus/{menu_id}/submenus/{submenu_id}/dishes/{dish_id}", a.updateDish).Methods(http.MethodPatch)
	v1.HandleFunc("/menus/{menu_id}/submenus/{submenu_id}/dishes/{dish_id}", a.deleteDish).Methods(http.MethodDelete)

	if a.exporter != nil {
		v1.HandleFunc("/export", a.export).Methods(http.MethodGet)
	}

	return router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (a *api) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		a.logger.LogAttrs(r.Context(), slog.LevelDebug, "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
