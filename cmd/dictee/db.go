package main

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dictee/internal/config"
	"dictee/internal/repository"
	"dictee/internal/repository/memory"
	"dictee/internal/repository/sqlstore"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlitedb "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const migrationsURL = "file://migrations"

// stores bundles the repositories backing the bot
type stores struct {
	users repository.UserRepository
	kv    repository.KeyValueStore
	db    *sql.DB
}

// Close releases the database connection, if any
func (s *stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// openStores connects the configured storage driver and applies migrations
func openStores(cfg *config.Config, logger *zap.Logger) (*stores, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.StorageDriver {
	case config.DriverMemory:
		logger.Warn("Using in-memory storage, progress is lost on restart")
		return &stores{
			users: memory.NewUserRepo(),
			kv:    memory.NewKVStore(),
		}, nil
	case config.DriverSQLite:
		db, err = connectDatabase("sqlite3", cfg.SQLitePath, 1, logger)
	default:
		db, err = connectDatabase("postgres", cfg.DSN(), 30, logger)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Database connection established", zap.String("driver", cfg.StorageDriver))

	if err := runMigrations(db, cfg.StorageDriver, logger); err != nil {
		db.Close()
		return nil, err
	}

	return &stores{
		users: sqlstore.NewUserRepo(db),
		kv:    sqlstore.NewKVRepo(db),
		db:    db,
	}, nil
}

// connectDatabase connects to the database with retries
func connectDatabase(driverName, dsn string, maxRetries int, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open(driverName, dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		if driverName == "sqlite3" {
			// one writer at a time
			db.SetMaxOpenConns(1)
		} else {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(5 * time.Minute)
		}

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, storageDriver string, logger *zap.Logger) error {
	var (
		driver database.Driver
		name   string
		err    error
	)

	switch storageDriver {
	case config.DriverSQLite:
		name = "sqlite3"
		driver, err = sqlitedb.WithInstance(db, &sqlitedb.Config{})
	default:
		name = "postgres"
		driver, err = postgresdb.WithInstance(db, &postgresdb.Config{})
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsURL, name, driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}
