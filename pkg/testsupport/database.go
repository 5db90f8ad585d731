package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-menu-cache/internal/bunrepo"
	"github.com/uptrace/bun"
)

// SQLiteConfig points at a fresh SQLite file inside t.TempDir().
func SQLiteConfig(t testing.TB) bunrepo.Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "menu.db")
	return bunrepo.Config{
		Driver: bunrepo.DriverSQLite,
		DSN:    "file:" + path + "?_foreign_keys=on",
	}
}

// NewSQLiteDB opens a migrated throwaway database closed on test cleanup.
func NewSQLiteDB(t testing.TB) *bun.DB {
	t.Helper()

	cfg := SQLiteConfig(t)
	ctx := context.Background()

	if err := bunrepo.Migrate(ctx, cfg); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db, err := bunrepo.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// NewRepository returns a repository over NewSQLiteDB.
func NewRepository(t testing.TB) *bunrepo.Repository {
	t.Helper()
	return bunrepo.NewRepository(NewSQLiteDB(t))
}
