// ABOUTME: User preference key/value storage
// ABOUTME: Upserts with ON CONFLICT so setting a key twice replaces the value
package sqlite

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/snessa7/god-cli/internal/models"
)

// PreferenceStore handles user_preferences persistence
type PreferenceStore struct {
	db *DB
}

// NewPreferenceStore creates a new preference store
func NewPreferenceStore(db *DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

// Get returns the value for key, or an ErrNotFound error.
func (s *PreferenceStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	if err := s.db.conn.GetContext(ctx, &value, "SELECT value FROM user_preferences WHERE key = ?", key); err != nil {
		return "", wrapErr("get preference", err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *PreferenceStore) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return invalidErr("set preference", "key is required")
	}
	return s.db.withTx(ctx, "set preference", func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO user_preferences (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, key, value, s.db.timestamp())
		return err
	})
}

// Delete removes key.
func (s *PreferenceStore) Delete(ctx context.Context, key string) error {
	return s.db.withTx(ctx, "delete preference", func(tx *sqlx.Tx) error {
		return updateOne(ctx, tx, "DELETE FROM user_preferences WHERE key = ?", key)
	})
}

// List returns every preference ordered by key.
func (s *PreferenceStore) List(ctx context.Context) ([]models.Preference, error) {
	var prefs []models.Preference
	err := s.db.conn.SelectContext(ctx, &prefs, `
		SELECT key, value, COALESCE(updated_at, '') AS updated_at
		FROM user_preferences ORDER BY key
	`)
	if err != nil {
		return nil, wrapErr("list preferences", err)
	}
	return prefs, nil
}

// Count returns the number of preferences.
func (s *PreferenceStore) Count(ctx context.Context) (int, error) {
	return s.db.count(ctx, "user_preferences")
}
