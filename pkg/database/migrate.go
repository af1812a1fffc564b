package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/noah-isme/tutoring-ledger/pkg/config"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded schema for the configured driver. It uses its own
// connection because the migrate driver closes the handle it is given.
func Migrate(cfg config.DatabaseConfig) error {
	driverName, dsn, dir := migrationTarget(cfg)

	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer conn.Close()

	var driver database.Driver
	switch driverName {
	case "postgres":
		driver, err = postgres.WithInstance(conn, &postgres.Config{})
	default:
		driver, err = sqlite.WithInstance(conn, &sqlite.Config{})
	}
	if err != nil {
		return fmt.Errorf("create %s migration driver: %w", driverName, err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func migrationTarget(cfg config.DatabaseConfig) (driverName, dsn, dir string) {
	if cfg.Driver == config.DriverPostgres {
		return "postgres", PostgresDSN(cfg), "migrations/postgres"
	}
	return "sqlite", SQLiteDSN(cfg.Path), "migrations/sqlite"
}
