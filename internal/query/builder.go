// ABOUTME: Builds ranked search queries over extracted_info and metadata_index
// ABOUTME: Criteria combine with AND; a tag list ORs internally
package query

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoCriteria is returned when a search names no criteria at all.
	ErrNoCriteria = errors.New("at least one search criterion is required")
	// ErrInvalidImportance is returned for an importance floor outside 1-5.
	ErrInvalidImportance = errors.New("importance must be between 1 and 5")
)

// ExtractedColumns is the select list used for every extracted_info read.
const ExtractedColumns = `ei.id, ei.title, ei.content, ei.category,
	COALESCE(ei.source_session, '') AS source_session, ei.extraction_type,
	COALESCE(ei.tags, '') AS tags, COALESCE(ei.topic, '') AS topic,
	COALESCE(ei.summary, '') AS summary, ei.importance_level,
	COALESCE(ei.created_at, '') AS created_at, COALESCE(ei.updated_at, '') AS updated_at`

// ExtractedOrder ranks results by importance, then recency.
const ExtractedOrder = "ei.importance_level DESC, ei.created_at DESC, ei.id DESC"

// Criteria holds the optional search filters. Date must already be a
// resolved YYYY-MM-DD key.
type Criteria struct {
	Date          string   `json:"date,omitempty"`
	Topic         string   `json:"topic,omitempty"`
	Category      string   `json:"category,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	MinImportance int      `json:"min_importance,omitempty"`
	Limit         int      `json:"limit,omitempty"`
}

// Query is rendered SQL plus its bound arguments.
type Query struct {
	SQL  string
	Args []any
}

// ParseTags splits a comma-separated tag string, trimming and dropping empties.
func ParseTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (c Criteria) cleanTags() []string {
	var tags []string
	for _, t := range c.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// IsEmpty reports whether no filter is set. Limit is not a filter.
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Date) == "" &&
		strings.TrimSpace(c.Topic) == "" &&
		strings.TrimSpace(c.Category) == "" &&
		len(c.cleanTags()) == 0 &&
		c.MinImportance == 0
}

// needsIndex reports whether any predicate reads metadata_index.
func (c Criteria) needsIndex() bool {
	return strings.TrimSpace(c.Date) != "" ||
		strings.TrimSpace(c.Topic) != "" ||
		strings.TrimSpace(c.Category) != "" ||
		len(c.cleanTags()) > 0
}

// Where compiles the criteria into a predicate tree.
func (c Criteria) Where() (Expr, error) {
	if c.IsEmpty() {
		return nil, ErrNoCriteria
	}
	if c.MinImportance < 0 || c.MinImportance > 5 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidImportance, c.MinImportance)
	}

	var preds []Expr
	if d := strings.TrimSpace(c.Date); d != "" {
		preds = append(preds, Eq("mi.date_key", d))
	}
	if t := strings.TrimSpace(c.Topic); t != "" {
		preds = append(preds, Like("mi.topic_key", strings.ToLower(t)))
	}
	if cat := strings.TrimSpace(c.Category); cat != "" {
		preds = append(preds, Eq("mi.category_key", strings.ToLower(cat)))
	}
	if tags := c.cleanTags(); len(tags) > 0 {
		alts := make([]Expr, len(tags))
		for i, tag := range tags {
			alts[i] = Like("mi.tags_key", tag)
		}
		preds = append(preds, Or(alts...))
	}
	if c.MinImportance > 0 {
		preds = append(preds, Gte("ei.importance_level", c.MinImportance))
	}
	return And(preds...), nil
}

// Build renders the full ranked SELECT for the criteria.
func Build(c Criteria) (Query, error) {
	where, err := c.Where()
	if err != nil {
		return Query{}, err
	}

	clause, args := Render(where)

	var sb strings.Builder
	sb.WriteString("SELECT DISTINCT ")
	sb.WriteString(ExtractedColumns)
	sb.WriteString(" FROM extracted_info ei")
	if c.needsIndex() {
		sb.WriteString(" JOIN metadata_index mi ON mi.extracted_info_id = ei.id")
	}
	sb.WriteString(" WHERE ")
	sb.WriteString(clause)
	sb.WriteString(" ORDER BY ")
	sb.WriteString(ExtractedOrder)
	if c.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, c.Limit)
	}

	return Query{SQL: sb.String(), Args: args}, nil
}

// KnowledgeFilter selects system knowledge rows. Every set field must match.
type KnowledgeFilter struct {
	Title      string
	Content    string
	Tags       []string
	SourceType string
	Limit      int
}

// KnowledgeColumns is the select list for system_knowledge reads.
const KnowledgeColumns = `id, title, content, source_type,
	COALESCE(file_path, '') AS file_path, COALESCE(tags, '') AS tags,
	importance_level, COALESCE(created_at, '') AS created_at,
	COALESCE(updated_at, '') AS updated_at`

// KnowledgeOrder ranks knowledge by importance, then recency.
const KnowledgeOrder = "importance_level DESC, created_at DESC, id DESC"

// BuildKnowledge renders a system_knowledge search. An empty filter lists everything.
func BuildKnowledge(f KnowledgeFilter) Query {
	var preds []Expr
	if t := strings.TrimSpace(f.Title); t != "" {
		preds = append(preds, Like("title", t))
	}
	if c := strings.TrimSpace(f.Content); c != "" {
		preds = append(preds, Like("content", c))
	}
	var tagAlts []Expr
	for _, tag := range f.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tagAlts = append(tagAlts, Like("tags", tag))
		}
	}
	if len(tagAlts) > 0 {
		preds = append(preds, Or(tagAlts...))
	}
	if st := strings.TrimSpace(f.SourceType); st != "" {
		preds = append(preds, Eq("source_type", st))
	}

	clause, args := Render(And(preds...))
	sql := "SELECT " + KnowledgeColumns + " FROM system_knowledge WHERE " + clause + " ORDER BY " + KnowledgeOrder
	if f.Limit > 0 {
		sql += " LIMIT ?"
		args = append(args, f.Limit)
	}
	return Query{SQL: sql, Args: args}
}
