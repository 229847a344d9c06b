// ABOUTME: MCP tool definitions and registration for the memory server
// ABOUTME: Exposes search, notes, knowledge, and index repair to MCP clients
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/snessa7/god-cli/internal/core"
	"github.com/snessa7/god-cli/internal/storage/sqlite"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, store *sqlite.Storage, searcher *core.Searcher) *Handlers {
	handlers := NewHandlers(store, searcher)

	server.AddTool(mcp.Tool{
		Name:        "search_memory",
		Description: "Search extracted notes by date phrase, topic, category, tags, and minimum importance. Criteria combine with AND; tags match if any tag matches. Results are ranked by importance, then recency.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"date": map[string]interface{}{
					"type":        "string",
					"description": "today, yesterday, this week, last <weekday>, or YYYY-MM-DD",
				},
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "Substring of the note topic",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Exact category, e.g. code or tasks",
				},
				"tags": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Tags to match (any)",
				},
				"min_importance": map[string]interface{}{
					"type":        "number",
					"description": "Importance floor from 1 to 5",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results (default: 20)",
					"default":     20,
				},
			},
		},
	}, handlers.SearchMemory)

	server.AddTool(mcp.Tool{
		Name:        "save_note",
		Description: "Save a note to memory as a custom extracted item. It is indexed immediately.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"title":      map[string]interface{}{"type": "string", "description": "Note title"},
				"content":    map[string]interface{}{"type": "string", "description": "Note body"},
				"category":   map[string]interface{}{"type": "string", "description": "Category (default: notes)"},
				"topic":      map[string]interface{}{"type": "string", "description": "Topic (default: General)"},
				"summary":    map[string]interface{}{"type": "string", "description": "One-line summary"},
				"tags":       map[string]interface{}{"type": "string", "description": "Comma-separated tags"},
				"importance": map[string]interface{}{"type": "number", "description": "1 to 5 (default: 3)"},
			},
			Required: []string{"title", "content"},
		},
	}, handlers.SaveNote)

	server.AddTool(mcp.Tool{
		Name:        "get_note",
		Description: "Get one extracted note by id, including its full content.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{"type": "number", "description": "Note id"},
			},
			Required: []string{"id"},
		},
	}, handlers.GetNote)

	server.AddTool(mcp.Tool{
		Name:        "list_categories",
		Description: "List the categories and extraction types currently in use.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListCategories)

	server.AddTool(mcp.Tool{
		Name:        "rebuild_index",
		Description: "Rebuild the metadata index from all extracted notes. Safe to run at any time.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.RebuildIndex)

	server.AddTool(mcp.Tool{
		Name:        "search_knowledge",
		Description: "Search system knowledge documents by title, content, tags, or source type.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"title":       map[string]interface{}{"type": "string", "description": "Substring of the title"},
				"content":     map[string]interface{}{"type": "string", "description": "Substring of the content"},
				"tags":        map[string]interface{}{"type": "string", "description": "Comma-separated tags (any)"},
				"source_type": map[string]interface{}{"type": "string", "description": "Exact source type, e.g. markdown_file"},
				"limit":       map[string]interface{}{"type": "number", "description": "Maximum results (default: 20)", "default": 20},
			},
		},
	}, handlers.SearchKnowledge)

	server.AddTool(mcp.Tool{
		Name:        "add_knowledge",
		Description: "Add a system knowledge document. The most important items are injected into every chat.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"title":      map[string]interface{}{"type": "string", "description": "Document title"},
				"content":    map[string]interface{}{"type": "string", "description": "Document text"},
				"tags":       map[string]interface{}{"type": "string", "description": "Comma-separated tags"},
				"importance": map[string]interface{}{"type": "number", "description": "1 to 5 (default: 3)"},
			},
			Required: []string{"title", "content"},
		},
	}, handlers.AddKnowledge)

	server.AddTool(mcp.Tool{
		Name:        "recent_conversations",
		Description: "List the most recent chat exchanges, newest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{"type": "number", "description": "Number of exchanges (default: 10)", "default": 10},
			},
		},
	}, handlers.RecentConversations)

	return handlers
}
