// ABOUTME: Shared fixtures for command tests
// ABOUTME: Temp databases, a fake model server client, and command runners
package commands

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/snessa7/god-cli/internal/config"
	"github.com/snessa7/god-cli/internal/core"
	"github.com/snessa7/god-cli/internal/models"
	"github.com/snessa7/god-cli/internal/storage/sqlite"
)

// testDB points config at a missing file and returns a fresh database path.
func testDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("GOD_CONFIG", filepath.Join(dir, "missing.json"))
	t.Setenv("GOD_DB_PATH", "")
	return filepath.Join(dir, "god.db")
}

// runGod executes the root command with stdin and returns stdout. Logs
// and stderr notices are dropped so JSON output stays parseable.
func runGod(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// openDB opens the test database directly for seeding and assertions.
func openDB(t *testing.T, path string) *sqlite.Storage {
	t.Helper()
	store, err := sqlite.NewStorageWithPath(path)
	if err != nil {
		t.Fatalf("NewStorageWithPath() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedConversation(t *testing.T, path, user, assistant string) {
	t.Helper()
	store := openDB(t, path)
	c := &models.Conversation{
		SessionID:         "session_seed",
		UserMessage:       user,
		AssistantResponse: assistant,
		ModelUsed:         "gemma3:1b",
	}
	if err := store.Conversations().Save(context.Background(), c); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	_ = store.Close()
}

func seedNote(t *testing.T, path string, info models.ExtractedInfo) int64 {
	t.Helper()
	store := openDB(t, path)
	if err := store.Extracted().Save(context.Background(), &info); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	_ = store.Close()
	return info.ID
}

type fakeModel struct {
	reply    string
	err      error
	models   []string
	messages []string
	used     []string
	systems  []string
}

func (f *fakeModel) Chat(ctx context.Context, model, system, message string) (string, int, error) {
	f.messages = append(f.messages, message)
	f.used = append(f.used, model)
	f.systems = append(f.systems, system)
	if f.err != nil {
		return "", 0, f.err
	}
	return f.reply, 12, nil
}

func (f *fakeModel) ListModels(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.models, nil
}

func useFakeModel(t *testing.T, f *fakeModel) {
	t.Helper()
	orig := newChatClient
	newChatClient = func(*config.Config) (modelClient, error) { return f, nil }
	t.Cleanup(func() { newChatClient = orig })
}

type fakeClipboard struct {
	copied []string
}

func (f *fakeClipboard) Copy(text string) error {
	f.copied = append(f.copied, text)
	return nil
}

func useFakeClipboard(t *testing.T) *fakeClipboard {
	t.Helper()
	clip := &fakeClipboard{}
	orig := newClipboard
	newClipboard = func() core.Clipboard { return clip }
	t.Cleanup(func() { newClipboard = orig })
	return clip
}
