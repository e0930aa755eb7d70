// Package main provides the entry point for the steward CLI.
package main

import (
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/lvalics/steward/internal/config"
	"github.com/lvalics/steward/internal/history"
	stewardmcp "github.com/lvalics/steward/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	var tasksDir, sessionDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run steward as a Model Context Protocol (MCP) server over stdio.

This exposes project and task state as read-only MCP tools that any
MCP-capable agent environment can use (Claude Code, Cursor, Windsurf,
Gemini CLI, etc).

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "steward": {
        "command": "steward",
        "args": ["serve"]
      }
    }
  }

Available tools: status, tasks, task, team_config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			root, err := config.FindProjectRoot(cwd)
			if err != nil {
				return err
			}

			srv := &stewardmcp.Server{Root: root, TasksDir: tasksDir}
			dbPath := filepath.Join(sessionDir, "history.db")
			if _, statErr := os.Stat(dbPath); statErr == nil {
				store, openErr := history.Open(dbPath)
				if openErr != nil {
					return openErr
				}
				defer store.Close() //nolint:errcheck // read-only access
				srv.Store = store
			}

			server := stewardmcp.NewServer(buildVersion(), srv)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}

	cmd.Flags().StringVar(&tasksDir, "tasks-dir", "tasks", "Directory containing task subdirectories")
	cmd.Flags().StringVar(&sessionDir, "session-dir", "sessions", "Directory holding the history database")
	return cmd
}
