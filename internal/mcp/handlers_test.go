// ABOUTME: Tests for MCP tool handlers over in-memory storage
// ABOUTME: Requests are built the way mcp-go delivers decoded JSON arguments
package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/snessa7/god-cli/internal/core"
	"github.com/snessa7/god-cli/internal/models"
	"github.com/snessa7/god-cli/internal/storage/sqlite"
)

func newTestHandlers(t *testing.T) (*Handlers, *sqlite.Storage) {
	t.Helper()
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	store.SetClock(func() time.Time { return time.Date(2024, 8, 20, 10, 0, 0, 0, time.UTC) })

	searcher := core.NewSearcher(store)
	searcher.SetClock(func() time.Time { return time.Date(2024, 8, 20, 18, 0, 0, 0, time.UTC) })
	return NewHandlers(store, searcher), store
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func saveTestNote(t *testing.T, h *Handlers, args map[string]any) int64 {
	t.Helper()
	res, err := h.SaveNote(context.Background(), callRequest("save_note", args))
	if err != nil {
		t.Fatalf("SaveNote() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("SaveNote() tool error: %s", resultText(t, res))
	}
	var out struct {
		Note models.ExtractedInfo `json:"note"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out.Note.ID
}

func TestRegisterTools(t *testing.T) {
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	defer store.Close()

	server := mcpserver.NewMCPServer("god-cli", "test")
	if h := RegisterTools(server, store, nil); h == nil || h.searcher == nil {
		t.Fatal("RegisterTools() should return handlers with a searcher")
	}
}

func TestSaveNoteAndSearch(t *testing.T) {
	h, _ := newTestHandlers(t)
	ctx := context.Background()

	saveTestNote(t, h, map[string]any{
		"title": "Goroutine leak", "content": "always cancel contexts",
		"category": "Code", "topic": "Go", "tags": "go, concurrency", "importance": float64(5),
	})
	saveTestNote(t, h, map[string]any{"title": "Grocery list", "content": "eggs", "tags": "home"})

	res, err := h.SearchMemory(ctx, callRequest("search_memory", map[string]any{
		"date": "today",
		"tags": []any{"concurrency", "rust"},
	}))
	if err != nil {
		t.Fatalf("SearchMemory() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("SearchMemory() tool error: %s", resultText(t, res))
	}

	var out struct {
		Criteria string                 `json:"criteria"`
		Count    int                    `json:"count"`
		Results  []models.ExtractedInfo `json:"results"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 || out.Results[0].Title != "Goroutine leak" {
		t.Errorf("results = %+v, want the tagged note", out.Results)
	}
	if out.Results[0].Category != "code" || out.Results[0].ImportanceLevel != 5 {
		t.Errorf("note = %+v", out.Results[0])
	}
	if !strings.Contains(out.Criteria, "Tags: concurrency, rust") {
		t.Errorf("Criteria = %q", out.Criteria)
	}
}

func TestSearchMemoryErrors(t *testing.T) {
	h, _ := newTestHandlers(t)
	ctx := context.Background()

	res, err := h.SearchMemory(ctx, callRequest("search_memory", map[string]any{}))
	if err != nil {
		t.Fatalf("SearchMemory() error = %v", err)
	}
	if !res.IsError {
		t.Error("empty criteria should be a tool error")
	}

	res, _ = h.SearchMemory(ctx, callRequest("search_memory", map[string]any{"date": "someday"}))
	if !res.IsError || !strings.Contains(resultText(t, res), "unrecognized date") {
		t.Errorf("bad date result = %s", resultText(t, res))
	}
}

func TestSaveNoteRequiresArgs(t *testing.T) {
	h, _ := newTestHandlers(t)
	res, err := h.SaveNote(context.Background(), callRequest("save_note", map[string]any{"title": "x"}))
	if err != nil {
		t.Fatalf("SaveNote() error = %v", err)
	}
	if !res.IsError {
		t.Error("missing content should be a tool error")
	}
}

func TestGetNote(t *testing.T) {
	h, _ := newTestHandlers(t)
	ctx := context.Background()
	id := saveTestNote(t, h, map[string]any{"title": "t", "content": "c"})

	res, _ := h.GetNote(ctx, callRequest("get_note", map[string]any{"id": float64(id)}))
	if res.IsError || !strings.Contains(resultText(t, res), `"title":"t"`) {
		t.Errorf("GetNote() = %s", resultText(t, res))
	}

	res, _ = h.GetNote(ctx, callRequest("get_note", map[string]any{"id": float64(999)}))
	if !res.IsError || !strings.Contains(resultText(t, res), "not found") {
		t.Errorf("GetNote(999) = %s", resultText(t, res))
	}
}

func TestListCategoriesAndRebuild(t *testing.T) {
	h, store := newTestHandlers(t)
	ctx := context.Background()
	saveTestNote(t, h, map[string]any{"title": "a", "content": "a", "category": "tasks"})
	saveTestNote(t, h, map[string]any{"title": "b", "content": "b"})

	res, _ := h.ListCategories(ctx, callRequest("list_categories", nil))
	text := resultText(t, res)
	if !strings.Contains(text, `"categories":["notes","tasks"]`) || !strings.Contains(text, `"custom"`) {
		t.Errorf("ListCategories() = %s", text)
	}

	if _, err := store.DB().Conn().ExecContext(ctx, "DELETE FROM metadata_index"); err != nil {
		t.Fatalf("delete index: %v", err)
	}
	res, _ = h.RebuildIndex(ctx, callRequest("rebuild_index", nil))
	if res.IsError || !strings.Contains(resultText(t, res), `"indexed":2`) {
		t.Errorf("RebuildIndex() = %s", resultText(t, res))
	}
}

func TestKnowledgeTools(t *testing.T) {
	h, _ := newTestHandlers(t)
	ctx := context.Background()

	res, _ := h.AddKnowledge(ctx, callRequest("add_knowledge", map[string]any{
		"title": "House style", "content": "Use short sentences.", "tags": "writing", "importance": float64(4),
	}))
	if res.IsError {
		t.Fatalf("AddKnowledge() tool error: %s", resultText(t, res))
	}

	res, _ = h.SearchKnowledge(ctx, callRequest("search_knowledge", map[string]any{"content": "SHORT"}))
	if res.IsError || !strings.Contains(resultText(t, res), `"count":1`) {
		t.Errorf("SearchKnowledge() = %s", resultText(t, res))
	}

	res, _ = h.SearchKnowledge(ctx, callRequest("search_knowledge", map[string]any{"source_type": "json_file"}))
	if !strings.Contains(resultText(t, res), `"count":0`) {
		t.Errorf("SearchKnowledge(json_file) = %s", resultText(t, res))
	}
}

func TestRecentConversations(t *testing.T) {
	h, store := newTestHandlers(t)
	ctx := context.Background()
	for _, msg := range []string{"one", "two", "three"} {
		c := &models.Conversation{SessionID: "s", UserMessage: msg, AssistantResponse: "ok", ModelUsed: "m"}
		if err := store.Conversations().Save(ctx, c); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	res, _ := h.RecentConversations(ctx, callRequest("recent_conversations", map[string]any{"limit": float64(2)}))
	if res.IsError || !strings.Contains(resultText(t, res), `"count":2`) {
		t.Errorf("RecentConversations() = %s", resultText(t, res))
	}
}
