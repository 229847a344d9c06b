// ABOUTME: SQLite database connection and lifecycle management
// ABOUTME: Uses modernc.org/sqlite for pure-Go SQLite support, wrapped by sqlx
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// timeLayout is the fixed-width timestamp format written to every DATETIME
// column, so text ordering matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// DB wraps a SQLite database connection
type DB struct {
	conn *sqlx.DB
	path string
	now  func() time.Time
}

// DefaultDataDir returns the default data directory following the XDG spec.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, "god-cli")
}

// DefaultDBPath returns the default database file path
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "god_cli.db")
}

// Open opens or creates a SQLite database at the given path
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{
		conn: conn,
		path: path,
		now:  time.Now,
	}

	if err := db.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// OpenInMemory creates an in-memory SQLite database (for testing)
func OpenInMemory() (*DB, error) {
	conn, err := sqlx.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// Each pooled connection to :memory: is a separate database.
	conn.SetMaxOpenConns(1)

	db := &DB{
		conn: conn,
		path: ":memory:",
		now:  time.Now,
	}

	if err := db.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Conn returns the underlying sqlx connection for advanced usage
func (db *DB) Conn() *sqlx.DB {
	return db.conn
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// SetClock replaces the time source used for created_at and friends.
func (db *DB) SetClock(now func() time.Time) {
	db.now = now
}

// timestamp returns the current time in the stored format.
func (db *DB) timestamp() string {
	return db.now().Format(timeLayout)
}

// withTx runs fn inside a transaction, committing on success and rolling back
// on error. Errors come back wrapped as *Error tagged with op.
func (db *DB) withTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return wrapErr(op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return wrapErr(op, err)
	}
	if err := tx.Commit(); err != nil {
		return wrapErr(op, err)
	}
	return nil
}

// count returns SELECT COUNT(*) for a table owned by the store.
func (db *DB) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := db.conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0, wrapErr("count "+table, err)
	}
	return n, nil
}
