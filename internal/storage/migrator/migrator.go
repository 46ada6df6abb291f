// Package migrator applies the embedded SQL schema with golang-migrate.
package migrator

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"auth-service/migrations"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Up applies every pending migration for driver against databaseURL.
// It returns applied=false when the schema was already current.
func Up(driver, databaseURL string) (applied bool, err error) {
	const op = "migrator.Up"

	m, err := newMigrate(driver, databaseURL)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

// Down rolls back every applied migration.
func Down(driver, databaseURL string) error {
	const op = "migrator.Down"

	m, err := newMigrate(driver, databaseURL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SQLiteURL turns a storage path into a golang-migrate sqlite3 URL.
func SQLiteURL(storagePath string) string {
	return "sqlite3://" + storagePath
}

func newMigrate(driver, databaseURL string) (*migrate.Migrate, error) {
	var dir string
	switch driver {
	case DriverSQLite:
		dir = "sqlite"
	case DriverPostgres:
		dir = "postgres"
	default:
		return nil, fmt.Errorf("unsupported migration driver %q", driver)
	}

	src, err := iofs.New(migrations.FS, dir)
	if err != nil {
		return nil, err
	}

	return migrate.NewWithSourceInstance("iofs", src, databaseURL)
}
