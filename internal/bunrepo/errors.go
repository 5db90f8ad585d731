package bunrepo

import (
	"database/sql"
	"errors"

	"github.com/goliatone/go-menu-cache/menu"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// classify maps driver errors onto the menu error taxonomy. Errors it does
// not recognise are returned unchanged.
func classify(kind menu.Kind, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return menu.NewNotFound(kind)
	}

	if isUniqueViolation(err) {
		return menu.NewConflict(kind, err)
	}

	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	return false
}
