package bunrepo

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsTable = "menu_schema_migrations"

// Migrate applies all up migrations using embedded migration files.
// It opens a dedicated connection which is closed on return, so it
// cannot be used with a private in-memory SQLite database.
func Migrate(ctx context.Context, cfg Config) error {
	sourceDriver, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create iofs driver: %w", err)
	}

	sqlDB, err := openSQL(cfg)
	if err != nil {
		return err
	}

	var dbDriver database.Driver
	switch cfg.Driver {
	case DriverPostgres:
		dbDriver, err = migratepgx.WithInstance(sqlDB, &migratepgx.Config{MigrationsTable: migrationsTable})
	default:
		dbDriver, err = migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{MigrationsTable: migrationsTable})
	}
	if err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("failed to create %s migrate driver: %w", cfg.Driver, err)
	}
	defer func() {
		_ = dbDriver.Close()
	}()

	m, err := migrate.NewWithInstance("iofs", sourceDriver, cfg.Driver, dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	_, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return errors.New("migration is dirty, please fix it before proceeding")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, _, _ := m.Version()
	slog.InfoContext(ctx, "database migrated", slog.String("driver", cfg.Driver), slog.Uint64("version", uint64(version)))

	return nil
}
