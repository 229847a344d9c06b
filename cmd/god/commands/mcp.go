// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents search and add to the memory over stdio
package commands

import (
	"fmt"

	"github.com/charmbracelet/log"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/snessa7/god-cli/internal/mcp"
	"github.com/spf13/cobra"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs god-cli as an MCP (Model Context Protocol) server so agents can
search saved notes, save new ones, and read system knowledge via stdio.

Configure it in your agent's MCP settings to enable the memory tools.`,
		Args: cobra.NoArgs,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by the agent)
  god mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "god": {
  #       "command": "god",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	_, store, err := openApp()
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("error closing storage", "err", err)
		}
	}()

	server := mcpserver.NewMCPServer("god-cli", versionInfo.Version)
	mcp.RegisterTools(server, store, nil)

	log.Info("MCP server starting on stdio", "db", store.Path())

	ctx := cmd.Context()
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
