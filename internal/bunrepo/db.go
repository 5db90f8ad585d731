// Package bunrepo implements menu.Repository on top of uptrace/bun for
// Postgres and SQLite.
package bunrepo

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config selects the database.
type Config struct {
	Driver         string `mapstructure:"driver"`
	DSN            string `mapstructure:"dsn"`
	MigrateOnStart bool   `mapstructure:"migrate_on_start"`
}

// Validate checks the driver name and DSN.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Driver)
	}
	if c.DSN == "" {
		return fmt.Errorf("database dsn must not be empty")
	}
	return nil
}

// Open connects to the configured database and verifies the connection.
// SQLite databases are limited to a single connection and always run with
// foreign keys enforced, whatever the DSN says.
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	sqlDB, err := openSQL(cfg)
	if err != nil {
		return nil, err
	}

	var db *bun.DB
	switch cfg.Driver {
	case DriverPostgres:
		db = bun.NewDB(sqlDB, pgdialect.New())
	default:
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	return db, nil
}

func openSQL(cfg Config) (*sql.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case DriverPostgres:
		connConfig, err := pgx.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
		}
		return stdlib.OpenDB(*connConfig), nil
	default:
		sqlDB, err := sql.Open("sqlite3", sqliteDSN(cfg.DSN))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		return sqlDB, nil
	}
}

// sqliteDSN forces foreign key enforcement on every connection opened from
// dsn. Cascading deletes depend on it, so an explicit off is overridden.
func sqliteDSN(dsn string) string {
	base, rawQuery, _ := strings.Cut(dsn, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return dsn + "&_foreign_keys=on"
	}
	query.Del("_fk")
	query.Set("_foreign_keys", "on")
	return base + "?" + query.Encode()
}
