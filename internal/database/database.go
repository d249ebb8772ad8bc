package database

import (
	"context"
	"database/sql"
	"fmt"

	"campus-portal/internal/config"
	"campus-portal/internal/database/migrations"
	"campus-portal/internal/models"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the configured database and pings it.
func Open(cfg config.DatabaseConfig) (*bun.DB, error) {
	var bunDB *bun.DB

	switch cfg.Driver {
	case DriverPostgres:
		sqldb, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
		sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
		bunDB = bun.NewDB(sqldb, pgdialect.New())
	case DriverSQLite, "":
		sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		sqldb.SetMaxOpenConns(1)
		bunDB = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err := bunDB.Ping(); err != nil {
		bunDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return bunDB, nil
}

var tables = []interface{}{
	(*models.EventRecord)(nil),
	(*models.Registration)(nil),
}

// EnsureSchema creates the portal tables. Postgres goes through the versioned migrations.
func EnsureSchema(ctx context.Context, bunDB *bun.DB, driver string) error {
	if driver == DriverPostgres {
		return migrations.NewRunner(bunDB).Up()
	}
	for _, model := range tables {
		if _, err := bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// DropSchema removes the portal tables.
func DropSchema(ctx context.Context, bunDB *bun.DB, driver string) error {
	if driver == DriverPostgres {
		return migrations.NewRunner(bunDB).Down()
	}
	for _, model := range tables {
		if _, err := bunDB.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	return nil
}
