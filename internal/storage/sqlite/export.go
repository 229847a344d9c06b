// ABOUTME: Export and import of curated memory data
// ABOUTME: Supports YAML, JSON, and Markdown output; YAML snapshots can be re-imported
package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/snessa7/god-cli/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the snapshot format version.
const ExportVersion = "1.0"

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version       string                   `yaml:"version" json:"version"`
	ExportedAt    string                   `yaml:"exported_at" json:"exported_at"`
	Tool          string                   `yaml:"tool" json:"tool"`
	Preferences   map[string]string        `yaml:"preferences,omitempty" json:"preferences,omitempty"`
	Extracted     []models.ExtractedInfo   `yaml:"extracted,omitempty" json:"extracted,omitempty"`
	Knowledge     []models.SystemKnowledge `yaml:"knowledge,omitempty" json:"knowledge,omitempty"`
	Conversations []models.Conversation    `yaml:"conversations,omitempty" json:"conversations,omitempty"`
}

// ImportResult counts rows restored by Import.
type ImportResult struct {
	Extracted   int
	Knowledge   int
	Preferences int
	Skipped     int
}

// Export collects everything worth keeping. Conversations are included only
// when withHistory is set.
func (s *Storage) Export(ctx context.Context, withHistory bool) (*ExportData, error) {
	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "god-cli",
	}

	prefs, err := s.preferences.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	if len(prefs) > 0 {
		data.Preferences = make(map[string]string, len(prefs))
		for _, p := range prefs {
			data.Preferences[p.Key] = p.Value
		}
	}

	if data.Extracted, err = s.extracted.List(ctx); err != nil {
		return nil, fmt.Errorf("failed to list extracted info: %w", err)
	}
	if data.Knowledge, err = s.knowledge.List(ctx, 0); err != nil {
		return nil, fmt.Errorf("failed to list knowledge: %w", err)
	}

	if withHistory {
		n, err := s.conversations.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count conversations: %w", err)
		}
		if n > 0 {
			if data.Conversations, err = s.conversations.Recent(ctx, n); err != nil {
				return nil, fmt.Errorf("failed to list conversations: %w", err)
			}
		}
	}

	return data, nil
}

// WriteYAML encodes data as YAML.
func WriteYAML(w io.Writer, data *ExportData) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// WriteJSON encodes data as indented JSON.
func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteMarkdown renders data as a human-readable Markdown document.
func WriteMarkdown(w io.Writer, data *ExportData) error {
	_, _ = fmt.Fprintf(w, "# Memory Export - %s\n\n", time.Now().Format("2006-01-02"))
	_, _ = fmt.Fprintf(w, "Generated: %s\n\n", data.ExportedAt)

	if len(data.Extracted) > 0 {
		_, _ = fmt.Fprintln(w, "## Extracted Items")
		_, _ = fmt.Fprintln(w)
		for _, e := range data.Extracted {
			_, _ = fmt.Fprintf(w, "### %s\n\n", e.Title)
			_, _ = fmt.Fprintf(w, "- **Category:** %s\n", e.Category)
			_, _ = fmt.Fprintf(w, "- **Type:** %s\n", e.ExtractionType)
			if e.Topic != "" {
				_, _ = fmt.Fprintf(w, "- **Topic:** %s\n", e.Topic)
			}
			if e.Tags != "" {
				_, _ = fmt.Fprintf(w, "- **Tags:** %s\n", e.Tags)
			}
			_, _ = fmt.Fprintf(w, "- **Importance:** %d\n", e.ImportanceLevel)
			_, _ = fmt.Fprintf(w, "- **Created:** %s\n\n", e.CreatedAt)
			if e.Summary != "" {
				_, _ = fmt.Fprintf(w, "*%s*\n\n", e.Summary)
			}
			_, _ = fmt.Fprintf(w, "```\n%s\n```\n\n", strings.TrimRight(e.Content, "\n"))
		}
	}

	if len(data.Knowledge) > 0 {
		_, _ = fmt.Fprintln(w, "## System Knowledge")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "| ID | Title | Type | Tags | Importance |")
		_, _ = fmt.Fprintln(w, "|----|-------|------|------|------------|")
		for _, k := range data.Knowledge {
			_, _ = fmt.Fprintf(w, "| %d | %s | %s | %s | %d |\n", k.ID, k.Title, k.SourceType, k.Tags, k.ImportanceLevel)
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(data.Conversations) > 0 {
		_, _ = fmt.Fprintln(w, "## Conversations")
		_, _ = fmt.Fprintln(w)
		for _, c := range data.Conversations {
			_, _ = fmt.Fprintf(w, "**User:** %s\n\n", c.UserMessage)
			_, _ = fmt.Fprintf(w, "**%s:** %s\n\n", c.ModelUsed, c.AssistantResponse)
			_, _ = fmt.Fprintln(w, "---")
			_, _ = fmt.Fprintln(w)
		}
	}

	return nil
}

// ExportToFile writes an export in the given format (yaml, json, markdown).
func (s *Storage) ExportToFile(ctx context.Context, outputPath, format string, withHistory bool) error {
	write, err := WriterFor(format)
	if err != nil {
		return err
	}

	data, err := s.Export(ctx, withHistory)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return write(file, data)
}

// WriterFor returns the writer for format (yaml, json, markdown).
func WriterFor(format string) (func(io.Writer, *ExportData) error, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return WriteYAML, nil
	case "json":
		return WriteJSON, nil
	case "markdown", "md":
		return WriteMarkdown, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (use yaml, json, or markdown)", format)
	}
}

// ParseYAML decodes a YAML snapshot.
func ParseYAML(raw []byte) (*ExportData, error) {
	var data ExportData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode YAML: %w", err)
	}
	if data.Version == "" {
		return nil, fmt.Errorf("snapshot has no version")
	}
	return &data, nil
}

// Import restores extracted items, knowledge, and preferences from a snapshot.
// Rows whose title and created_at already exist are skipped, so importing
// the same snapshot twice is harmless. Imported items are re-indexed.
func (s *Storage) Import(ctx context.Context, data *ExportData) (*ImportResult, error) {
	res := &ImportResult{}

	existing, err := s.extracted.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.Title+"\x00"+e.CreatedAt] = true
	}
	for _, e := range data.Extracted {
		key := e.Title + "\x00" + e.CreatedAt
		if seen[key] {
			res.Skipped++
			continue
		}
		item := e
		item.ID = 0
		if err := s.extracted.Save(ctx, &item); err != nil {
			return res, err
		}
		seen[key] = true
		res.Extracted++
	}

	knowledge, err := s.knowledge.List(ctx, 0)
	if err != nil {
		return res, err
	}
	seenK := make(map[string]bool, len(knowledge))
	for _, k := range knowledge {
		seenK[k.Title+"\x00"+k.CreatedAt] = true
	}
	for _, k := range data.Knowledge {
		key := k.Title + "\x00" + k.CreatedAt
		if seenK[key] {
			res.Skipped++
			continue
		}
		item := k
		item.ID = 0
		if err := s.knowledge.Add(ctx, &item); err != nil {
			return res, err
		}
		seenK[key] = true
		res.Knowledge++
	}

	for key, value := range data.Preferences {
		if err := s.preferences.Set(ctx, key, value); err != nil {
			return res, err
		}
		res.Preferences++
	}

	return res, nil
}
