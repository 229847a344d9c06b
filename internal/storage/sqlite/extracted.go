// ABOUTME: ExtractedInfo storage with index maintenance
// ABOUTME: Record and index row are written in the same transaction
package sqlite

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/snessa7/god-cli/internal/models"
	"github.com/snessa7/god-cli/internal/query"
)

// ExtractedStore handles extracted_info persistence
type ExtractedStore struct {
	db *DB
}

// NewExtractedStore creates a new extracted info store
func NewExtractedStore(db *DB) *ExtractedStore {
	return &ExtractedStore{db: db}
}

// Save inserts a record and its metadata_index row atomically. Importance is
// clamped; ID, CreatedAt and UpdatedAt are filled in on e.
func (s *ExtractedStore) Save(ctx context.Context, e *models.ExtractedInfo) error {
	if strings.TrimSpace(e.Title) == "" {
		return invalidErr("save extracted info", "title is required")
	}
	if strings.TrimSpace(e.Category) == "" {
		return invalidErr("save extracted info", "category is required")
	}
	if e.ExtractionType == "" {
		return invalidErr("save extracted info", "extraction type is required")
	}

	e.ImportanceLevel = models.ClampImportance(e.ImportanceLevel)
	now := s.db.timestamp()
	if e.CreatedAt == "" {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	return s.db.withTx(ctx, "save extracted info", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO extracted_info
			(title, content, category, source_session, extraction_type, tags, topic, summary, importance_level, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, e.Title, e.Content, e.Category, e.SourceSession, e.ExtractionType, e.Tags, e.Topic, e.Summary,
			e.ImportanceLevel, e.CreatedAt, e.UpdatedAt)
		if err != nil {
			return err
		}
		if e.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		return indexRow(ctx, tx, DeriveIndex(e.ID, e.CreatedAt, e.Topic, e.Category, e.Tags))
	})
}

// GetByID returns one record.
func (s *ExtractedStore) GetByID(ctx context.Context, id int64) (*models.ExtractedInfo, error) {
	var e models.ExtractedInfo
	err := s.db.conn.GetContext(ctx, &e, "SELECT "+query.ExtractedColumns+" FROM extracted_info ei WHERE ei.id = ?", id)
	if err != nil {
		return nil, wrapErr("get extracted info", err)
	}
	return &e, nil
}

// List returns every record, newest first.
func (s *ExtractedStore) List(ctx context.Context) ([]models.ExtractedInfo, error) {
	var items []models.ExtractedInfo
	err := s.db.conn.SelectContext(ctx, &items, "SELECT "+query.ExtractedColumns+" FROM extracted_info ei ORDER BY ei.created_at DESC, ei.id DESC")
	if err != nil {
		return nil, wrapErr("list extracted info", err)
	}
	return items, nil
}

// Search runs a built criteria query and returns the ranked records.
func (s *ExtractedStore) Search(ctx context.Context, c query.Criteria) ([]models.ExtractedInfo, error) {
	q, err := query.Build(c)
	if err != nil {
		return nil, invalidErr("search extracted info", "%w", err)
	}
	var items []models.ExtractedInfo
	if err := s.db.conn.SelectContext(ctx, &items, q.SQL, q.Args...); err != nil {
		return nil, wrapErr("search extracted info", err)
	}
	return items, nil
}

// UpdateTitle renames a record.
func (s *ExtractedStore) UpdateTitle(ctx context.Context, id int64, title string) error {
	if strings.TrimSpace(title) == "" {
		return invalidErr("update extracted title", "title is required")
	}
	return s.db.withTx(ctx, "update extracted title", func(tx *sqlx.Tx) error {
		return updateOne(ctx, tx, "UPDATE extracted_info SET title = ?, updated_at = ? WHERE id = ?", title, s.db.timestamp(), id)
	})
}

// UpdateTags replaces a record's tags and re-indexes it.
func (s *ExtractedStore) UpdateTags(ctx context.Context, id int64, tags string) error {
	return s.db.withTx(ctx, "update extracted tags", func(tx *sqlx.Tx) error {
		if err := updateOne(ctx, tx, "UPDATE extracted_info SET tags = ?, updated_at = ? WHERE id = ?", tags, s.db.timestamp(), id); err != nil {
			return err
		}
		var e models.ExtractedInfo
		if err := tx.GetContext(ctx, &e, "SELECT "+query.ExtractedColumns+" FROM extracted_info ei WHERE ei.id = ?", id); err != nil {
			return err
		}
		return indexRow(ctx, tx, DeriveIndex(e.ID, e.CreatedAt, e.Topic, e.Category, e.Tags))
	})
}

// Delete removes a record and its index row.
func (s *ExtractedStore) Delete(ctx context.Context, id int64) error {
	return s.db.withTx(ctx, "delete extracted info", func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM metadata_index WHERE extracted_info_id = ?", id); err != nil {
			return err
		}
		return updateOne(ctx, tx, "DELETE FROM extracted_info WHERE id = ?", id)
	})
}

// Categories lists the distinct categories in use.
func (s *ExtractedStore) Categories(ctx context.Context) ([]string, error) {
	var cats []string
	if err := s.db.conn.SelectContext(ctx, &cats, "SELECT DISTINCT category FROM extracted_info ORDER BY category"); err != nil {
		return nil, wrapErr("list categories", err)
	}
	return cats, nil
}

// Types lists the distinct extraction types in use.
func (s *ExtractedStore) Types(ctx context.Context) ([]string, error) {
	var types []string
	if err := s.db.conn.SelectContext(ctx, &types, "SELECT DISTINCT extraction_type FROM extracted_info ORDER BY extraction_type"); err != nil {
		return nil, wrapErr("list extraction types", err)
	}
	return types, nil
}

// Count returns the number of records.
func (s *ExtractedStore) Count(ctx context.Context) (int, error) {
	return s.db.count(ctx, "extracted_info")
}

// updateOne executes a statement that must touch exactly one row.
func updateOne(ctx context.Context, tx *sqlx.Tx, stmt string, args ...any) error {
	res, err := tx.ExecContext(ctx, stmt, args...)
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
}
