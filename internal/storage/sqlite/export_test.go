// ABOUTME: Tests for export and import functionality
// ABOUTME: Verifies YAML, Markdown, and JSON export plus snapshot round trips
package sqlite

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/snessa7/god-cli/internal/models"
)

func seedExport(t *testing.T, store *Storage) {
	t.Helper()
	ctx := context.Background()
	e := &models.ExtractedInfo{
		Title: "Action Item: ship it...", Content: "ship it", Category: "tasks",
		ExtractionType: models.TypeActionItems, Topic: "Release", Tags: "release, ship",
		Summary: "ship the build", ImportanceLevel: 4,
	}
	if err := store.Extracted().Save(ctx, e); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	addKnowledge(t, store, "Guide", "read me", models.SourceMarkdownFile, "docs", 3)
	if err := store.Preferences().Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	saveConversation(t, store, "s1", "hello", "hi there", 3)
}

func TestExport(t *testing.T) {
	store := newTestStorage(t)
	seedExport(t, store)

	data, err := store.Export(context.Background(), false)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if data.Version != ExportVersion || data.Tool != "god-cli" {
		t.Errorf("header = %s/%s", data.Version, data.Tool)
	}
	if len(data.Extracted) != 1 || len(data.Knowledge) != 1 {
		t.Errorf("Extracted/Knowledge = %d/%d, want 1/1", len(data.Extracted), len(data.Knowledge))
	}
	if data.Preferences["theme"] != "dark" {
		t.Errorf("Preferences = %v", data.Preferences)
	}
	if len(data.Conversations) != 0 {
		t.Error("conversations should be omitted without history")
	}

	withHistory, err := store.Export(context.Background(), true)
	if err != nil {
		t.Fatalf("Export(history) error = %v", err)
	}
	if len(withHistory.Conversations) != 1 {
		t.Errorf("Conversations = %d, want 1", len(withHistory.Conversations))
	}
}

func TestExportFormats(t *testing.T) {
	store := newTestStorage(t)
	seedExport(t, store)
	dir := t.TempDir()

	tests := []struct {
		format string
		want   string
	}{
		{"yaml", "extraction_type: action_items"},
		{"json", `"extraction_type": "action_items"`},
		{"markdown", "## Extracted Items"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path := filepath.Join(dir, "out."+tt.format)
			if err := store.ExportToFile(context.Background(), path, tt.format, true); err != nil {
				t.Fatalf("ExportToFile() error = %v", err)
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if !strings.Contains(string(raw), tt.want) {
				t.Errorf("%s export missing %q", tt.format, tt.want)
			}
		})
	}

	if err := store.ExportToFile(context.Background(), filepath.Join(dir, "x"), "xml", false); err == nil {
		t.Error("ExportToFile(xml) should fail")
	}
}

func TestImportRoundTrip(t *testing.T) {
	src := newTestStorage(t)
	seedExport(t, src)
	data, err := src.Export(context.Background(), false)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var buf bytes.Buffer
	if err := WriteYAML(&buf, data); err != nil {
		t.Fatalf("WriteYAML() error = %v", err)
	}
	parsed, err := ParseYAML(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}

	dst := newTestStorage(t)
	ctx := context.Background()
	res, err := dst.Import(ctx, parsed)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Extracted != 1 || res.Knowledge != 1 || res.Preferences != 1 {
		t.Errorf("Import() = %+v", res)
	}

	again, err := dst.Import(ctx, parsed)
	if err != nil {
		t.Fatalf("second Import() error = %v", err)
	}
	if again.Extracted != 0 || again.Knowledge != 0 || again.Skipped != 2 {
		t.Errorf("second Import() = %+v, want everything skipped", again)
	}

	inSync, _ := dst.Index().InSync(ctx)
	if !inSync {
		t.Error("imported items should be indexed")
	}
	got, _ := dst.Extracted().List(ctx)
	if got[0].CreatedAt != data.Extracted[0].CreatedAt {
		t.Errorf("CreatedAt = %q, want preserved %q", got[0].CreatedAt, data.Extracted[0].CreatedAt)
	}
}

func TestParseYAMLRejectsGarbage(t *testing.T) {
	if _, err := ParseYAML([]byte("tool: x\n")); err == nil {
		t.Error("ParseYAML() without version should fail")
	}
	if _, err := ParseYAML([]byte("version: [unclosed")); err == nil {
		t.Error("ParseYAML() on invalid YAML should fail")
	}
}
