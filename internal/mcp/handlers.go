// ABOUTME: MCP tool handler implementations for the memory server
// ABOUTME: Tool failures are returned as error results, never as Go errors
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/snessa7/god-cli/internal/core"
	"github.com/snessa7/god-cli/internal/models"
	"github.com/snessa7/god-cli/internal/query"
	"github.com/snessa7/god-cli/internal/storage/sqlite"
)

const (
	defaultSearchLimit = 20
	defaultRecentLimit = 10
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	storage  *sqlite.Storage
	searcher *core.Searcher
}

// NewHandlers creates handlers over store.
func NewHandlers(store *sqlite.Storage, searcher *core.Searcher) *Handlers {
	if searcher == nil {
		searcher = core.NewSearcher(store)
	}
	return &Handlers{storage: store, searcher: searcher}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// stringList reads key as either a JSON array of strings or a comma string.
func stringList(request mcp.CallToolRequest, key string) []string {
	raw, ok := request.GetArguments()[key]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case string:
		return query.ParseTags(v)
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}

// SearchMemory handles the search_memory tool
func (h *Handlers) SearchMemory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := core.Request{
		DatePhrase:    request.GetString("date", ""),
		Topic:         request.GetString("topic", ""),
		Category:      request.GetString("category", ""),
		Tags:          stringList(request, "tags"),
		MinImportance: request.GetInt("min_importance", 0),
		Limit:         request.GetInt("limit", defaultSearchLimit),
	}

	results, err := h.searcher.Search(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if results == nil {
		results = []models.ExtractedInfo{}
	}

	return jsonResult(map[string]interface{}{
		"criteria": core.Describe(req),
		"count":    len(results),
		"results":  results,
	})
}

// SaveNote handles the save_note tool
func (h *Handlers) SaveNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title argument is required and must be a string"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}

	md := core.NormalizeMetadata(core.Candidate{}, core.MetadataInput{
		Topic:      request.GetString("topic", ""),
		Summary:    request.GetString("summary", ""),
		Importance: fmt.Sprint(request.GetInt("importance", models.DefaultImportance)),
		Tags:       request.GetString("tags", ""),
	})

	info := &models.ExtractedInfo{
		Title:           title,
		Content:         content,
		Category:        strings.ToLower(request.GetString("category", "notes")),
		ExtractionType:  models.TypeCustom,
		Tags:            md.Tags,
		Topic:           md.Topic,
		Summary:         md.Summary,
		ImportanceLevel: md.Importance,
	}
	if err := h.storage.Extracted().Save(ctx, info); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save note: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"success": true,
		"note":    info,
	})
}

// GetNote handles the get_note tool
func (h *Handlers) GetNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("id", 0)
	if id <= 0 {
		return mcp.NewToolResultError("id argument is required and must be a positive number"), nil
	}

	info, err := h.storage.Extracted().GetByID(ctx, int64(id))
	if err != nil {
		if sqlite.IsNotFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("note %d not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to get note: %v", err)), nil
	}
	return jsonResult(info)
}

// ListCategories handles the list_categories tool
func (h *Handlers) ListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats, err := h.storage.Extracted().Categories(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list categories: %v", err)), nil
	}
	types, err := h.storage.Extracted().Types(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list types: %v", err)), nil
	}
	if cats == nil {
		cats = []string{}
	}
	if types == nil {
		types = []string{}
	}
	return jsonResult(map[string]interface{}{
		"categories":       cats,
		"extraction_types": types,
	})
}

// RebuildIndex handles the rebuild_index tool
func (h *Handlers) RebuildIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := h.storage.Index().Rebuild(ctx, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rebuild failed: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{
		"success": true,
		"indexed": n,
	})
}

// SearchKnowledge handles the search_knowledge tool
func (h *Handlers) SearchKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := query.KnowledgeFilter{
		Title:      request.GetString("title", ""),
		Content:    request.GetString("content", ""),
		Tags:       stringList(request, "tags"),
		SourceType: request.GetString("source_type", ""),
		Limit:      request.GetInt("limit", defaultSearchLimit),
	}

	items, err := h.storage.Knowledge().Search(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("knowledge search failed: %v", err)), nil
	}
	if items == nil {
		items = []models.SystemKnowledge{}
	}
	return jsonResult(map[string]interface{}{
		"count":   len(items),
		"results": items,
	})
}

// AddKnowledge handles the add_knowledge tool
func (h *Handlers) AddKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title argument is required and must be a string"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}

	k := &models.SystemKnowledge{
		Title:           title,
		Content:         content,
		SourceType:      models.SourceCustomText,
		Tags:            core.MergeTags(nil, request.GetString("tags", "")),
		ImportanceLevel: request.GetInt("importance", models.DefaultImportance),
	}
	if err := h.storage.Knowledge().Add(ctx, k); err != nil {
		if sqlite.KindOf(err) == sqlite.KindInvalid {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to add knowledge: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{
		"success":   true,
		"knowledge": k,
	})
}

// RecentConversations handles the recent_conversations tool
func (h *Handlers) RecentConversations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", defaultRecentLimit)
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	convs, err := h.storage.Conversations().Recent(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load conversations: %v", err)), nil
	}
	if convs == nil {
		convs = []models.Conversation{}
	}
	return jsonResult(map[string]interface{}{
		"count":         len(convs),
		"conversations": convs,
	})
}
