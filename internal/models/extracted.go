// ABOUTME: ExtractedInfo notes and their derived MetadataIndex rows
// ABOUTME: Importance is always clamped to the 1-5 range before it is stored
package models

// Extraction types recorded on ExtractedInfo.
const (
	TypeCodeSnippets     = "code_snippets"
	TypeActionItems      = "action_items"
	TypeCustom           = "custom"
	TypeSearchExtraction = "search_extraction"
)

// Importance bounds shared by extracted info and system knowledge.
const (
	MinImportance     = 1
	MaxImportance     = 5
	DefaultImportance = 3
)

// ExtractedInfo is a note curated out of the conversation log.
type ExtractedInfo struct {
	ID              int64  `db:"id" json:"id" yaml:"id"`
	Title           string `db:"title" json:"title" yaml:"title"`
	Content         string `db:"content" json:"content" yaml:"content"`
	Category        string `db:"category" json:"category" yaml:"category"`
	SourceSession   string `db:"source_session" json:"source_session,omitempty" yaml:"source_session,omitempty"`
	ExtractionType  string `db:"extraction_type" json:"extraction_type" yaml:"extraction_type"`
	Tags            string `db:"tags" json:"tags,omitempty" yaml:"tags,omitempty"`
	Topic           string `db:"topic" json:"topic,omitempty" yaml:"topic,omitempty"`
	Summary         string `db:"summary" json:"summary,omitempty" yaml:"summary,omitempty"`
	ImportanceLevel int    `db:"importance_level" json:"importance_level" yaml:"importance_level"`
	CreatedAt       string `db:"created_at" json:"created_at" yaml:"created_at"`
	UpdatedAt       string `db:"updated_at" json:"updated_at" yaml:"updated_at"`
}

// MetadataIndex is the lower-cased, date-decomposed lookup row for one ExtractedInfo.
type MetadataIndex struct {
	ID              int64  `db:"id" json:"id"`
	ExtractedInfoID int64  `db:"extracted_info_id" json:"extracted_info_id"`
	DateKey         string `db:"date_key" json:"date_key"`
	Weekday         string `db:"weekday" json:"weekday"`
	Month           string `db:"month" json:"month"`
	Year            string `db:"year" json:"year"`
	TopicKey        string `db:"topic_key" json:"topic_key"`
	CategoryKey     string `db:"category_key" json:"category_key"`
	TagsKey         string `db:"tags_key" json:"tags_key"`
}

// ClampImportance forces an importance level into [MinImportance, MaxImportance].
func ClampImportance(level int) int {
	if level < MinImportance {
		return MinImportance
	}
	if level > MaxImportance {
		return MaxImportance
	}
	return level
}
