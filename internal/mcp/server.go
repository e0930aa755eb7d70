// Package mcp provides a Model Context Protocol server for steward.
// It exposes read-only project and task state as MCP tools that any
// MCP-capable agent can use.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lvalics/steward/internal/history"
)

// Server wraps the MCP server with the project paths the tools read from.
type Server struct {
	Root     string // project root (contains the .claude marker)
	TasksDir string
	Store    *history.Store // nil disables attempt history in tool output
}

// NewServer creates an MCP server with all steward tools registered.
func NewServer(version string, srv *Server) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "steward",
		Version: version,
	}, nil)
	registerTools(server, srv)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// registerTools adds all steward tools to the server.
func registerTools(server *mcp.Server, srv *Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Show project and task queue state: configuration files present, task counts per state, and the next eligible task.",
		Annotations: readOnlyAnnotations(),
	}, handleStatus(srv))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "tasks",
		Description: "List all tasks with their current state, attempt counts, and spec paths.",
		Annotations: readOnlyAnnotations(),
	}, handleTasks(srv))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "task",
		Description: "Show one task by ID: state, spec content, state record, and attempt history.",
		Annotations: readOnlyAnnotations(),
	}, handleTask(srv))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "team_config",
		Description: "Return the project's team and workflow configuration as written by 'steward customize'.",
		Annotations: readOnlyAnnotations(),
	}, handleTeamConfig(srv))
}
