// ABOUTME: Actions on a search result set: view, copy, extract, delete
// ABOUTME: Indices are 1-based, matching how results are displayed
package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/snessa7/god-cli/internal/models"
	"github.com/snessa7/god-cli/internal/storage/sqlite"
)

// Clipboard copies text for the user.
type Clipboard interface {
	Copy(text string) error
}

// Results is a ranked search result set plus the store it came from.
type Results struct {
	Items []models.ExtractedInfo
	// Description is the human form of the search, e.g. "Topic: python".
	Description string

	storage   *sqlite.Storage
	clipboard Clipboard
	sessionID string
}

// NewResults wraps items for interaction.
func NewResults(storage *sqlite.Storage, clip Clipboard, sessionID, description string, items []models.ExtractedInfo) *Results {
	return &Results{
		Items:       items,
		Description: description,
		storage:     storage,
		clipboard:   clip,
		sessionID:   sessionID,
	}
}

// Len returns the number of results.
func (r *Results) Len() int { return len(r.Items) }

func (r *Results) item(i int) (*models.ExtractedInfo, error) {
	if i < 1 || i > len(r.Items) {
		return nil, fmt.Errorf("%w: choose 1-%d", ErrInvalidSelection, len(r.Items))
	}
	return &r.Items[i-1], nil
}

// View returns result i.
func (r *Results) View(i int) (*models.ExtractedInfo, error) {
	return r.item(i)
}

// Copy puts result i's content on the clipboard.
func (r *Results) Copy(i int) error {
	it, err := r.item(i)
	if err != nil {
		return err
	}
	return r.clipboard.Copy(it.Content)
}

// CopyAllText renders every result as "Title: ...\nContent: ..." blocks.
func (r *Results) CopyAllText() string {
	blocks := make([]string, len(r.Items))
	for i, it := range r.Items {
		blocks[i] = fmt.Sprintf("Title: %s\nContent: %s", it.Title, it.Content)
	}
	return strings.Join(blocks, "\n\n")
}

// CopyAll puts every result on the clipboard.
func (r *Results) CopyAll() error {
	return r.clipboard.Copy(r.CopyAllText())
}

// Extract saves result i again as a search_extraction item. Topic, category
// and tags carry over; importance resets to the default. The summary names
// description, or the result's title when description is empty.
func (r *Results) Extract(ctx context.Context, i int, description string) (*models.ExtractedInfo, error) {
	it, err := r.item(i)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(description) == "" {
		description = it.Title
	}
	info := &models.ExtractedInfo{
		Title:           "Extracted from search: " + it.Title,
		Content:         it.Content,
		Category:        it.Category,
		SourceSession:   r.sessionID,
		ExtractionType:  models.TypeSearchExtraction,
		Tags:            it.Tags,
		Topic:           it.Topic,
		Summary:         "Extracted from search: " + description,
		ImportanceLevel: models.DefaultImportance,
	}
	if err := r.storage.Extracted().Save(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

// Delete removes result i from the store and from the set.
func (r *Results) Delete(ctx context.Context, i int) (*models.ExtractedInfo, error) {
	it, err := r.item(i)
	if err != nil {
		return nil, err
	}
	removed := *it
	if err := r.storage.Extracted().Delete(ctx, removed.ID); err != nil {
		return nil, err
	}
	r.Items = append(r.Items[:i-1], r.Items[i:]...)
	return &removed, nil
}

// Describe renders a request as the "Topic: x, Tags: a, b" summary shown
// above results and recorded on search extractions.
func Describe(req Request) string {
	var parts []string
	if req.DatePhrase != "" {
		parts = append(parts, "Date: "+req.DatePhrase)
	}
	if req.Topic != "" {
		parts = append(parts, "Topic: "+req.Topic)
	}
	if req.Category != "" {
		parts = append(parts, "Category: "+req.Category)
	}
	if len(req.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(req.Tags, ", "))
	}
	if req.MinImportance > 0 {
		parts = append(parts, fmt.Sprintf("Importance: %d+", req.MinImportance))
	}
	return strings.Join(parts, ", ")
}
