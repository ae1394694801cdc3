package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	// import db drivers
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/sevigo/code-inspector/internal/config"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// DB is a wrapper around the sqlx.DB connection pool.
type DB struct {
	*sqlx.DB
	driver string
}

// Driver returns the configured driver name, "sqlite" or "postgres".
func (db *DB) Driver() string { return db.driver }

// NewDatabase opens the configured database and applies pending migrations.
func NewDatabase(cfg *config.DBConfig) (*DB, func(), error) {
	var (
		conn *sqlx.DB
		err  error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
			return nil, func() {}, fmt.Errorf("failed to create database directory: %w", err)
		}
		conn, err = sqlx.Connect("sqlite", sqliteDSN(cfg.Path))
		if err == nil {
			// SQLite allows a single writer.
			conn.SetMaxOpenConns(1)
		}
	case config.DriverPostgres:
		conn, err = sqlx.Connect("postgres", cfg.DSN)
	default:
		return nil, func() {}, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to connect to database: %w", err)
	}

	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, func() {}, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{DB: conn, driver: cfg.Driver}

	slog.Info("running database migrations", "driver", cfg.Driver)
	if err := db.RunMigrations(); err != nil {
		_ = conn.Close()
		return nil, func() {}, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("database migrations completed successfully")

	return db, func() {
		if err := conn.Close(); err != nil {
			slog.Error("failed to close database connection", "error", err)
		}
	}, nil
}

func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
}

// RunMigrations executes pending database migrations embedded in the binary.
// A database left dirty by an earlier failed migration is reported, not
// repaired.
func (db *DB) RunMigrations() error {
	migrator, err := db.newMigrator()
	if err != nil {
		return err
	}

	_, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if dirty {
		return fmt.Errorf("failed to apply migrations: database is in dirty state. You might need to manually fix it (e.g., 'migrate force <version>') or check logs for previous migration errors")
	}

	err = migrator.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// newMigrator creates a new migrate instance using the embedded migration
// files of the active driver.
func (db *DB) newMigrator() (*migrate.Migrate, error) {
	sourceDriver, err := iofs.New(migrationsFS, "migrations/"+db.driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	var dbDriver database.Driver
	switch db.driver {
	case config.DriverSQLite:
		dbDriver, err = sqlite.WithInstance(db.DB.DB, &sqlite.Config{})
	default:
		dbDriver, err = postgres.WithInstance(db.DB.DB, &postgres.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", sourceDriver, db.driver, dbDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return migrator, nil
}
