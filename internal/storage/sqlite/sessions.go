// ABOUTME: Session bookkeeping for chat runs
// ABOUTME: Start inserts or replaces; End stamps end_time and totals
package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/snessa7/god-cli/internal/models"
)

// SessionStore handles session persistence
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new session store
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Start records a new session, replacing any row with the same id.
func (s *SessionStore) Start(ctx context.Context, sessionID, model string) error {
	if sessionID == "" {
		return invalidErr("start session", "session id is required")
	}
	return s.db.withTx(ctx, "start session", func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO sessions (session_id, start_time, model_used)
			VALUES (?, ?, ?)
		`, sessionID, s.db.timestamp(), model)
		return err
	})
}

// End stamps end_time and recomputes the message and token totals.
func (s *SessionStore) End(ctx context.Context, sessionID string) error {
	return s.db.withTx(ctx, "end session", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE sessions SET
				end_time = ?,
				total_messages = (SELECT COUNT(*) FROM conversations WHERE session_id = ?),
				total_tokens = (SELECT COALESCE(SUM(tokens_used), 0) FROM conversations WHERE session_id = ?)
			WHERE session_id = ?
		`, s.db.timestamp(), sessionID, sessionID, sessionID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Get returns a session by its session id.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	var sess models.Session
	err := s.db.conn.GetContext(ctx, &sess, `
		SELECT id, session_id, COALESCE(start_time, '') AS start_time,
			COALESCE(end_time, '') AS end_time, COALESCE(model_used, '') AS model_used,
			COALESCE(total_messages, 0) AS total_messages, COALESCE(total_tokens, 0) AS total_tokens
		FROM sessions
		WHERE session_id = ?
	`, sessionID)
	if err != nil {
		return nil, wrapErr("get session", err)
	}
	return &sess, nil
}

// Count returns the number of recorded sessions.
func (s *SessionStore) Count(ctx context.Context) (int, error) {
	return s.db.count(ctx, "sessions")
}
