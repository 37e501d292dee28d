package migrator

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"pinax-social-backend/internal/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Up applies all pending migrations from the embedded migrations directory.
// It opens its own connection because the migrate driver closes the database it wraps.
func Up(dsn string) error {
	const op = "migrator.Up"

	m, err := newMigrate(dsn)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer m.Close()

	logger.Info("Applying database migrations")
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("Database schema is up to date")
			return nil
		}
		return fmt.Errorf("%s: migration failed: %w", op, err)
	}

	version, dirty, err := m.Version()
	if err == nil {
		logger.Info("Database migrated", "version", version, "dirty", dirty)
	}
	return nil
}

// Down rolls back every migration. Used by tooling and tests against a scratch database.
func Down(dsn string) error {
	const op = "migrator.Down"

	m, err := newMigrate(dsn)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: rollback failed: %w", op, err)
	}
	return nil
}

func newMigrate(dsn string) (*migrate.Migrate, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
