// ABOUTME: Extraction pipeline from recent conversations to stored notes
// ABOUTME: Scans with a heuristic, then commits the selected candidates with metadata
package core

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/snessa7/god-cli/internal/models"
	"github.com/snessa7/god-cli/internal/storage/sqlite"
)

// DefaultWindow is how many recent conversations a scan reads.
const DefaultWindow = 20

// Extractor runs extraction scans against the conversation log.
type Extractor struct {
	storage   *sqlite.Storage
	window    int
	sessionID string
}

// NewExtractor creates an extractor reading the newest window conversations.
// Non-positive windows fall back to DefaultWindow.
func NewExtractor(storage *sqlite.Storage, window int, sessionID string) *Extractor {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Extractor{storage: storage, window: window, sessionID: sessionID}
}

// ScanOptions carries the custom heuristic's inputs.
type ScanOptions struct {
	Category string
	Filter   string
}

// Scan returns the candidates kind finds in the recent conversations,
// most recent conversation first.
func (e *Extractor) Scan(ctx context.Context, kind Kind, opts ScanOptions) ([]Candidate, error) {
	convs, err := e.storage.Conversations().Recent(ctx, e.window)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent conversations: %w", err)
	}

	switch kind {
	case KindCode:
		return ScanCodeSnippets(convs), nil
	case KindActions:
		return ScanActionItems(convs), nil
	case KindCustom:
		return ScanCustom(convs, opts.Category, opts.Filter)
	default:
		return nil, fmt.Errorf("unknown extraction kind %q", kind)
	}
}

// Commit saves the candidates chosen by sel, asking prompter for metadata
// on each one. It returns the saved records.
func (e *Extractor) Commit(ctx context.Context, cands []Candidate, sel Selection, prompter MetadataPrompter) ([]models.ExtractedInfo, error) {
	chosen := sel.Apply(cands)
	saved := make([]models.ExtractedInfo, 0, len(chosen))

	for _, c := range chosen {
		in, err := prompter.PromptMetadata(c)
		if err != nil {
			return saved, fmt.Errorf("metadata for %q: %w", c.Title, err)
		}
		md := NormalizeMetadata(c, in)

		info := models.ExtractedInfo{
			Title:           c.Title,
			Content:         c.Content,
			Category:        c.Category,
			SourceSession:   e.sessionID,
			ExtractionType:  c.ExtractionType,
			Tags:            md.Tags,
			Topic:           md.Topic,
			Summary:         md.Summary,
			ImportanceLevel: md.Importance,
		}
		if err := e.storage.Extracted().Save(ctx, &info); err != nil {
			return saved, fmt.Errorf("failed to save %q: %w", c.Title, err)
		}
		log.Debug("saved extracted item", "id", info.ID, "type", info.ExtractionType, "tags", info.Tags)
		saved = append(saved, info)
	}
	return saved, nil
}
