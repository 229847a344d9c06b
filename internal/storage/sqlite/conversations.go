// ABOUTME: Conversation log storage
// ABOUTME: Append-only exchanges with history queries and opt-in pruning
package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/snessa7/god-cli/internal/models"
)

// ConversationStore handles conversation persistence
type ConversationStore struct {
	db *DB
}

// NewConversationStore creates a new conversation store
func NewConversationStore(db *DB) *ConversationStore {
	return &ConversationStore{db: db}
}

const conversationColumns = `id, session_id, user_message, assistant_response, model_used,
	COALESCE(timestamp, '') AS timestamp, COALESCE(tokens_used, 0) AS tokens_used`

// Save appends one exchange. An empty Timestamp is filled from the clock.
func (s *ConversationStore) Save(ctx context.Context, c *models.Conversation) error {
	if c.Timestamp == "" {
		c.Timestamp = s.db.timestamp()
	}
	return s.db.withTx(ctx, "save conversation", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO conversations (session_id, user_message, assistant_response, model_used, timestamp, tokens_used)
			VALUES (?, ?, ?, ?, ?, ?)
		`, c.SessionID, c.UserMessage, c.AssistantResponse, c.ModelUsed, c.Timestamp, c.TokensUsed)
		if err != nil {
			return err
		}
		c.ID, err = res.LastInsertId()
		return err
	})
}

// Recent returns up to limit conversations, newest first.
func (s *ConversationStore) Recent(ctx context.Context, limit int) ([]models.Conversation, error) {
	if limit <= 0 {
		return nil, invalidErr("recent conversations", "limit must be positive, got %d", limit)
	}
	var convs []models.Conversation
	err := s.db.conn.SelectContext(ctx, &convs, `
		SELECT `+conversationColumns+`
		FROM conversations
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, wrapErr("recent conversations", err)
	}
	return convs, nil
}

// BySession returns every conversation of a session in chronological order.
func (s *ConversationStore) BySession(ctx context.Context, sessionID string) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.db.conn.SelectContext(ctx, &convs, `
		SELECT `+conversationColumns+`
		FROM conversations
		WHERE session_id = ?
		ORDER BY timestamp ASC, id ASC
	`, sessionID)
	if err != nil {
		return nil, wrapErr("session conversations", err)
	}
	return convs, nil
}

// SessionStats returns the message count and token total for a session.
func (s *ConversationStore) SessionStats(ctx context.Context, sessionID string) (messages, tokens int, err error) {
	row := struct {
		Messages int `db:"messages"`
		Tokens   int `db:"tokens"`
	}{}
	err = s.db.conn.GetContext(ctx, &row, `
		SELECT COUNT(*) AS messages, COALESCE(SUM(tokens_used), 0) AS tokens
		FROM conversations
		WHERE session_id = ?
	`, sessionID)
	if err != nil {
		return 0, 0, wrapErr("session stats", err)
	}
	return row.Messages, row.Tokens, nil
}

// Count returns the total number of stored conversations.
func (s *ConversationStore) Count(ctx context.Context) (int, error) {
	return s.db.count(ctx, "conversations")
}

// Prune deletes everything except the newest keep conversations and
// returns the number of rows removed.
func (s *ConversationStore) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		return 0, invalidErr("prune conversations", "keep must not be negative, got %d", keep)
	}
	var removed int64
	err := s.db.withTx(ctx, "prune conversations", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			DELETE FROM conversations
			WHERE id NOT IN (
				SELECT id FROM conversations ORDER BY timestamp DESC, id DESC LIMIT ?
			)
		`, keep)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	return removed, err
}
