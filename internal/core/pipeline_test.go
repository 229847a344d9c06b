// ABOUTME: End-to-end tests for scanning conversations and committing candidates
// ABOUTME: Exercises storage, indexing, and metadata defaults together
package core

import (
	"context"
	"strings"
	"testing"

	"github.com/snessa7/god-cli/internal/models"
)

func TestExtractorActionItemsEndToEnd(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	saveConversation(t, store, "Please todo: fix bug.", "I will remember to fix it.")

	ex := NewExtractor(store, 0, "session_test")
	cands, err := ex.Scan(ctx, KindActions, ScanOptions{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	var sawTodo, sawRemember bool
	for _, c := range cands {
		if strings.Contains(c.Content, "Please todo: fix bug") {
			sawTodo = true
		}
		if strings.Contains(c.Content, "I will remember to fix it") && c.Pattern == "remember to" {
			sawRemember = true
		}
	}
	if !sawTodo || !sawRemember {
		t.Errorf("candidates = %+v, want both sentences", cands)
	}
}

func TestExtractorCommitAllCodeSnippets(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	saveConversation(t, store, "show me a loop", "```\nfor i in range(3):\n    print(i)\n```")
	saveConversation(t, store, "and an import", "import os")
	saveConversation(t, store, "thanks", "You're welcome!")

	ex := NewExtractor(store, DefaultWindow, "session_test")
	cands, err := ex.Scan(ctx, KindCode, ScanOptions{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("Scan() returned %d candidates, want 2", len(cands))
	}

	saved, err := ex.Commit(ctx, cands, Selection{All: true}, StaticPrompter{Topic: "Python", Tags: "loops"})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if len(saved) != len(cands) {
		t.Errorf("Commit() saved %d, want %d", len(saved), len(cands))
	}

	items, err := store.Extracted().List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != len(cands) {
		t.Fatalf("stored %d items, want %d", len(items), len(cands))
	}
	for _, it := range items {
		if it.ExtractionType != models.TypeCodeSnippets {
			t.Errorf("ExtractionType = %q, want code_snippets", it.ExtractionType)
		}
		if it.SourceSession != "session_test" || it.Topic != "Python" || it.ImportanceLevel != 3 {
			t.Errorf("item = %+v", it)
		}
		if !strings.Contains(it.Tags, "loops") {
			t.Errorf("Tags = %q, want user tag included", it.Tags)
		}
	}

	if ok, err := store.Index().InSync(ctx); err != nil || !ok {
		t.Errorf("InSync() = %v, %v, want true", ok, err)
	}
}

func TestExtractorCommitSingleAndCancel(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	saveConversation(t, store, "first question", "first answer")
	saveConversation(t, store, "second question", "second answer")

	ex := NewExtractor(store, 10, "")
	cands, err := ex.Scan(ctx, KindCustom, ScanOptions{Category: "notes"})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(cands) != 2 || !strings.HasPrefix(cands[0].Title, "Notes: second question") {
		t.Fatalf("candidates = %+v, want newest first", cands)
	}

	saved, err := ex.Commit(ctx, cands, Selection{Cancel: true}, StaticPrompter{})
	if err != nil || len(saved) != 0 {
		t.Errorf("cancel Commit() = %d, %v, want nothing saved", len(saved), err)
	}

	saved, err = ex.Commit(ctx, cands, Selection{Index: 2}, StaticPrompter{})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if len(saved) != 1 || !strings.Contains(saved[0].Content, "first answer") {
		t.Errorf("saved = %+v, want the second candidate", saved)
	}
	if saved[0].Topic != DefaultTopic || saved[0].Summary != DefaultSummary {
		t.Errorf("Topic/Summary = %q/%q, want defaults", saved[0].Topic, saved[0].Summary)
	}
}

func TestExtractorCustomNeedsCategory(t *testing.T) {
	store := newTestStorage(t)
	saveConversation(t, store, "q", "a")

	_, err := NewExtractor(store, 5, "").Scan(context.Background(), KindCustom, ScanOptions{})
	if err != ErrCategoryRequired {
		t.Errorf("Scan() error = %v, want ErrCategoryRequired", err)
	}
}

func TestExtractorWindow(t *testing.T) {
	store := newTestStorage(t)
	for i := 0; i < 4; i++ {
		saveConversation(t, store, "remember to stretch", "ok")
	}

	cands, err := NewExtractor(store, 2, "").Scan(context.Background(), KindActions, ScanOptions{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(cands) != 2 {
		t.Errorf("got %d candidates, want 2 from a window of 2", len(cands))
	}
}
