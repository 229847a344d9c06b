// ABOUTME: Indexer that maintains metadata_index, the searchable view of extracted_info
// ABOUTME: Decomposes created_at into date parts and lower-cases topic, category, and tags
package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/snessa7/god-cli/internal/models"
)

const unknownPart = "unknown"

// createdAtLayouts are tried in order when decomposing created_at.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseCreatedAt parses a stored timestamp, treating a trailing Z as +00:00.
// The result keeps the offset written in the string.
func parseCreatedAt(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DeriveIndex computes the metadata_index row for one extracted_info record.
// It never fails: unparseable timestamps fall back to "unknown" parts.
func DeriveIndex(extractedID int64, createdAt, topic, category, tags string) models.MetadataIndex {
	mi := models.MetadataIndex{
		ExtractedInfoID: extractedID,
		TopicKey:        strings.ToLower(topic),
		CategoryKey:     strings.ToLower(category),
		TagsKey:         strings.ToLower(tags),
	}

	if t, ok := parseCreatedAt(createdAt); ok {
		mi.DateKey = t.Format("2006-01-02")
		mi.Weekday = strings.ToLower(t.Weekday().String())
		mi.Month = strings.ToLower(t.Month().String())
		mi.Year = t.Format("2006")
		return mi
	}

	mi.DateKey = unknownPart
	if raw := strings.TrimSpace(createdAt); raw != "" {
		runes := []rune(raw)
		if len(runes) > 10 {
			runes = runes[:10]
		}
		mi.DateKey = string(runes)
	}
	mi.Weekday = unknownPart
	mi.Month = unknownPart
	mi.Year = unknownPart
	return mi
}

// IndexStore reads and writes metadata_index
type IndexStore struct {
	db *DB
}

// NewIndexStore creates a new index store
func NewIndexStore(db *DB) *IndexStore {
	return &IndexStore{db: db}
}

// indexRow replaces the index row for one record inside an existing transaction.
func indexRow(ctx context.Context, tx *sqlx.Tx, mi models.MetadataIndex) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM metadata_index WHERE extracted_info_id = ?", mi.ExtractedInfoID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO metadata_index
		(extracted_info_id, date_key, weekday, month, year, topic_key, category_key, tags_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, mi.ExtractedInfoID, mi.DateKey, mi.Weekday, mi.Month, mi.Year, mi.TopicKey, mi.CategoryKey, mi.TagsKey)
	return err
}

// Index writes (or overwrites) the index row for one extracted_info record.
func (s *IndexStore) Index(ctx context.Context, extractedID int64, createdAt, topic, category, tags string) error {
	mi := DeriveIndex(extractedID, createdAt, topic, category, tags)
	return s.db.withTx(ctx, "index extracted info", func(tx *sqlx.Tx) error {
		return indexRow(ctx, tx, mi)
	})
}

// Rebuild drops every index row and re-derives one per extracted_info row in
// id order. The row id sequence is reset too, so repeated rebuilds produce
// identical tables. progress, if non-nil, is called after each row.
func (s *IndexStore) Rebuild(ctx context.Context, progress func(processed, total int)) (int, error) {
	var processed int
	err := s.db.withTx(ctx, "rebuild metadata index", func(tx *sqlx.Tx) error {
		var rows []struct {
			ID        int64  `db:"id"`
			CreatedAt string `db:"created_at"`
			Topic     string `db:"topic"`
			Category  string `db:"category"`
			Tags      string `db:"tags"`
		}
		err := tx.SelectContext(ctx, &rows, `
			SELECT id, COALESCE(created_at, '') AS created_at, COALESCE(topic, '') AS topic,
				category, COALESCE(tags, '') AS tags
			FROM extracted_info
			ORDER BY id
		`)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM metadata_index"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = 'metadata_index'"); err != nil {
			return err
		}

		total := len(rows)
		for _, r := range rows {
			if err := ctx.Err(); err != nil {
				return err
			}
			mi := DeriveIndex(r.ID, r.CreatedAt, r.Topic, r.Category, r.Tags)
			if err := indexRow(ctx, tx, mi); err != nil {
				return err
			}
			processed++
			if progress != nil {
				progress(processed, total)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return processed, nil
}

// Counts returns the number of index rows and extracted_info rows.
func (s *IndexStore) Counts(ctx context.Context) (indexed, extracted int, err error) {
	if indexed, err = s.db.count(ctx, "metadata_index"); err != nil {
		return 0, 0, err
	}
	if extracted, err = s.db.count(ctx, "extracted_info"); err != nil {
		return 0, 0, err
	}
	return indexed, extracted, nil
}

// InSync reports whether every extracted_info row appears to be indexed.
func (s *IndexStore) InSync(ctx context.Context) (bool, error) {
	indexed, extracted, err := s.Counts(ctx)
	if err != nil {
		return false, err
	}
	return indexed == extracted, nil
}

// Get returns the index row for an extracted_info id.
func (s *IndexStore) Get(ctx context.Context, extractedID int64) (*models.MetadataIndex, error) {
	var mi models.MetadataIndex
	err := s.db.conn.GetContext(ctx, &mi, `
		SELECT `+indexColumns+` FROM metadata_index WHERE extracted_info_id = ?
	`, extractedID)
	if err != nil {
		return nil, wrapErr("get index row", err)
	}
	return &mi, nil
}

// All returns every index row ordered by id.
func (s *IndexStore) All(ctx context.Context) ([]models.MetadataIndex, error) {
	var rows []models.MetadataIndex
	if err := s.db.conn.SelectContext(ctx, &rows, "SELECT "+indexColumns+" FROM metadata_index ORDER BY id"); err != nil {
		return nil, wrapErr("list index rows", err)
	}
	return rows, nil
}

const indexColumns = `id, COALESCE(extracted_info_id, 0) AS extracted_info_id,
	COALESCE(date_key, '') AS date_key, COALESCE(weekday, '') AS weekday,
	COALESCE(month, '') AS month, COALESCE(year, '') AS year,
	COALESCE(topic_key, '') AS topic_key, COALESCE(category_key, '') AS category_key,
	COALESCE(tags_key, '') AS tags_key`
