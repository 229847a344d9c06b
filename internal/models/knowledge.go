// ABOUTME: SystemKnowledge documents injected into chat context
// ABOUTME: Maps file extensions onto the stored source_type values
package models

import (
	"path/filepath"
	"strings"
)

// Source types for system knowledge.
const (
	SourceTextFile     = "text_file"
	SourceCodeFile     = "code_file"
	SourceMarkdownFile = "markdown_file"
	SourceJSONFile     = "json_file"
	SourceCSVFile      = "csv_file"
	SourceCustomText   = "custom_text"
)

// SystemKnowledge is a reference document kept apart from the extraction index.
type SystemKnowledge struct {
	ID              int64  `db:"id" json:"id" yaml:"id"`
	Title           string `db:"title" json:"title" yaml:"title"`
	Content         string `db:"content" json:"content" yaml:"content"`
	SourceType      string `db:"source_type" json:"source_type" yaml:"source_type"`
	FilePath        string `db:"file_path" json:"file_path,omitempty" yaml:"file_path,omitempty"`
	Tags            string `db:"tags" json:"tags,omitempty" yaml:"tags,omitempty"`
	ImportanceLevel int    `db:"importance_level" json:"importance_level" yaml:"importance_level"`
	CreatedAt       string `db:"created_at" json:"created_at" yaml:"created_at"`
	UpdatedAt       string `db:"updated_at" json:"updated_at" yaml:"updated_at"`
}

var sourceTypesByExt = map[string]string{
	".py":   SourceCodeFile,
	".js":   SourceCodeFile,
	".go":   SourceCodeFile,
	".html": SourceCodeFile,
	".css":  SourceCodeFile,
	".md":   SourceMarkdownFile,
	".json": SourceJSONFile,
	".csv":  SourceCSVFile,
}

// SourceTypeForPath picks a source type from the file extension, defaulting to text_file.
func SourceTypeForPath(path string) string {
	if st, ok := sourceTypesByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return st
	}
	return SourceTextFile
}
