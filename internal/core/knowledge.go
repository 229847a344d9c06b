// ABOUTME: System knowledge import and chat context rendering
// ABOUTME: Files are capped at 1 MiB and must be UTF-8 text
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/snessa7/god-cli/internal/models"
	"github.com/snessa7/god-cli/internal/storage/sqlite"
)

// MaxKnowledgeFileSize is the largest file LoadKnowledgeFile accepts.
const MaxKnowledgeFileSize = 1 << 20

// ContextItems is how many knowledge items are injected into a chat.
const ContextItems = 5

var (
	ErrTooLarge = errors.New("file too large")
	ErrNotText  = errors.New("file is not valid UTF-8 text")
)

// LoadKnowledgeFile reads path into a knowledge record. An empty title
// defaults to the file's base name.
func LoadKnowledgeFile(path, title, tags string, importance int) (*models.SystemKnowledge, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxKnowledgeFileSize {
		return nil, fmt.Errorf("%w: %s (max %s)", ErrTooLarge,
			humanize.IBytes(uint64(info.Size())), humanize.IBytes(MaxKnowledgeFileSize))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrNotText, path)
	}

	if strings.TrimSpace(title) == "" {
		title = filepath.Base(path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &models.SystemKnowledge{
		Title:           title,
		Content:         string(data),
		SourceType:      models.SourceTypeForPath(path),
		FilePath:        abs,
		Tags:            tags,
		ImportanceLevel: importance,
	}, nil
}

// ContextBlock renders knowledge for the chat system prompt. It returns ""
// when there is nothing to inject.
func ContextBlock(items []models.SystemKnowledge) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\n=== SYSTEM KNOWLEDGE ===\n")
	for _, k := range items {
		fmt.Fprintf(&b, "\n📚 %s (%s)", k.Title, k.SourceType)
		if k.Tags != "" {
			fmt.Fprintf(&b, " [Tags: %s]", k.Tags)
		}
		fmt.Fprintf(&b, "\n%s\n", k.Content)
		b.WriteString(strings.Repeat("-", 50))
		b.WriteString("\n")
	}
	return b.String()
}

// KnowledgeContext loads the top knowledge items and renders them.
func KnowledgeContext(ctx context.Context, storage *sqlite.Storage) (string, error) {
	items, err := storage.Knowledge().List(ctx, ContextItems)
	if err != nil {
		return "", err
	}
	return ContextBlock(items), nil
}
