package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// RunMigrations applies every pending "up" migration found at migrationsPath
// (e.g. file://migrations). Having nothing to apply is not an error.
func RunMigrations(databaseURL, migrationsPath string, logger *slog.Logger) error {
	logger.Info("Running database migrations...", slog.String("path", migrationsPath))

	// Open a temporary standard sql.DB connection for migrations
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	// Check for dirty migrations after running Up.
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
