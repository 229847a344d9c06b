// ABOUTME: Shared fixtures for core package tests
// ABOUTME: In-memory storage with a deterministic clock and conversation helpers
package core

import (
	"context"
	"testing"
	"time"

	"github.com/snessa7/god-cli/internal/models"
	"github.com/snessa7/god-cli/internal/storage/sqlite"
)

var testBase = time.Date(2024, 8, 20, 10, 0, 0, 0, time.UTC)

func stepClock(base time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		t := base.Add(time.Duration(n) * time.Second)
		n++
		return t
	}
}

func newTestStorage(t *testing.T) *sqlite.Storage {
	t.Helper()
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	store.SetClock(stepClock(testBase))
	return store
}

func saveConversation(t *testing.T, store *sqlite.Storage, user, assistant string) {
	t.Helper()
	c := &models.Conversation{
		SessionID:         "session_test",
		UserMessage:       user,
		AssistantResponse: assistant,
		ModelUsed:         "gemma3:1b",
	}
	if err := store.Conversations().Save(context.Background(), c); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}

type fakeClipboard struct {
	copied []string
	err    error
}

func (f *fakeClipboard) Copy(text string) error {
	if f.err != nil {
		return f.err
	}
	f.copied = append(f.copied, text)
	return nil
}
