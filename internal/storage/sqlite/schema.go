// ABOUTME: Embedded schema migrations applied with golang-migrate
// ABOUTME: Every table uses CREATE IF NOT EXISTS so existing databases upgrade in place
package sqlite

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SchemaVersion is the latest migration number shipped with the binary.
const SchemaVersion = 2

// Tables lists every table owned by the store.
var Tables = []string{
	"conversations",
	"sessions",
	"user_preferences",
	"extracted_info",
	"metadata_index",
	"system_knowledge",
}

// initSchema brings the database up to SchemaVersion. It is safe to call on
// every startup.
func (db *DB) initSchema() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db.conn.DB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	// m.Close would also close the shared *sql.DB, so only the source is released.
	defer func() { _ = src.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Version reports the applied migration version.
func (db *DB) Version() (int, error) {
	var v int
	err := db.conn.Get(&v, "SELECT version FROM schema_migrations LIMIT 1")
	if err != nil {
		return 0, wrapErr("schema version", err)
	}
	return v, nil
}
