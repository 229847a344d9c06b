// ABOUTME: System knowledge storage
// ABOUTME: Reference documents with their own LIKE-based search, independent of metadata_index
package sqlite

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/snessa7/god-cli/internal/models"
	"github.com/snessa7/god-cli/internal/query"
)

// KnowledgeStore handles system_knowledge persistence
type KnowledgeStore struct {
	db *DB
}

// NewKnowledgeStore creates a new knowledge store
func NewKnowledgeStore(db *DB) *KnowledgeStore {
	return &KnowledgeStore{db: db}
}

// Add stores a knowledge item. Importance is clamped.
func (s *KnowledgeStore) Add(ctx context.Context, k *models.SystemKnowledge) error {
	if strings.TrimSpace(k.Title) == "" {
		return invalidErr("add knowledge", "title is required")
	}
	if strings.TrimSpace(k.Content) == "" {
		return invalidErr("add knowledge", "content is required")
	}
	if k.SourceType == "" {
		k.SourceType = models.SourceCustomText
	}
	k.ImportanceLevel = models.ClampImportance(k.ImportanceLevel)
	now := s.db.timestamp()
	if k.CreatedAt == "" {
		k.CreatedAt = now
	}
	k.UpdatedAt = now

	var filePath any
	if k.FilePath != "" {
		filePath = k.FilePath
	}

	return s.db.withTx(ctx, "add knowledge", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO system_knowledge
			(title, content, source_type, file_path, tags, importance_level, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, k.Title, k.Content, k.SourceType, filePath, k.Tags, k.ImportanceLevel, k.CreatedAt, k.UpdatedAt)
		if err != nil {
			return err
		}
		k.ID, err = res.LastInsertId()
		return err
	})
}

// Get returns one knowledge item.
func (s *KnowledgeStore) Get(ctx context.Context, id int64) (*models.SystemKnowledge, error) {
	var k models.SystemKnowledge
	err := s.db.conn.GetContext(ctx, &k, "SELECT "+query.KnowledgeColumns+" FROM system_knowledge WHERE id = ?", id)
	if err != nil {
		return nil, wrapErr("get knowledge", err)
	}
	return &k, nil
}

// List returns up to limit items ranked by importance then recency.
// A limit of zero returns everything.
func (s *KnowledgeStore) List(ctx context.Context, limit int) ([]models.SystemKnowledge, error) {
	return s.Search(ctx, query.KnowledgeFilter{Limit: limit})
}

// Search returns items matching every set field of the filter.
func (s *KnowledgeStore) Search(ctx context.Context, f query.KnowledgeFilter) ([]models.SystemKnowledge, error) {
	q := query.BuildKnowledge(f)
	var items []models.SystemKnowledge
	if err := s.db.conn.SelectContext(ctx, &items, q.SQL, q.Args...); err != nil {
		return nil, wrapErr("search knowledge", err)
	}
	return items, nil
}

// UpdateTitle renames an item.
func (s *KnowledgeStore) UpdateTitle(ctx context.Context, id int64, title string) error {
	if strings.TrimSpace(title) == "" {
		return invalidErr("update knowledge title", "title is required")
	}
	return s.db.withTx(ctx, "update knowledge title", func(tx *sqlx.Tx) error {
		return updateOne(ctx, tx, "UPDATE system_knowledge SET title = ?, updated_at = ? WHERE id = ?", title, s.db.timestamp(), id)
	})
}

// UpdateTags replaces an item's tags.
func (s *KnowledgeStore) UpdateTags(ctx context.Context, id int64, tags string) error {
	return s.db.withTx(ctx, "update knowledge tags", func(tx *sqlx.Tx) error {
		return updateOne(ctx, tx, "UPDATE system_knowledge SET tags = ?, updated_at = ? WHERE id = ?", tags, s.db.timestamp(), id)
	})
}

// Delete removes an item by id.
func (s *KnowledgeStore) Delete(ctx context.Context, id int64) error {
	return s.db.withTx(ctx, "delete knowledge", func(tx *sqlx.Tx) error {
		return updateOne(ctx, tx, "DELETE FROM system_knowledge WHERE id = ?", id)
	})
}

// SourceTypes lists the distinct source types in use.
func (s *KnowledgeStore) SourceTypes(ctx context.Context) ([]string, error) {
	var types []string
	if err := s.db.conn.SelectContext(ctx, &types, "SELECT DISTINCT source_type FROM system_knowledge ORDER BY source_type"); err != nil {
		return nil, wrapErr("list source types", err)
	}
	return types, nil
}

// Count returns the number of knowledge items.
func (s *KnowledgeStore) Count(ctx context.Context) (int, error) {
	return s.db.count(ctx, "system_knowledge")
}
