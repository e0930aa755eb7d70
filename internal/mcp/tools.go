package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lvalics/steward/internal/config"
	"github.com/lvalics/steward/internal/history"
	"github.com/lvalics/steward/internal/task"
)

// --- Shared types ---

// TaskSummary is a simplified task for output.
type TaskSummary struct {
	ID       string `json:"id"                 jsonschema:"task ID (directory name)"`
	State    string `json:"state"              jsonschema:"pending, in-progress, completed, or blocked"`
	Attempts int    `json:"attempts"           jsonschema:"attempts recorded in the task state record"`
	SpecPath string `json:"spec_path"          jsonschema:"path to the task spec file"`
}

// AttemptSummary is a simplified attempt-history row for output.
type AttemptSummary struct {
	Attempt   int    `json:"attempt"    jsonschema:"attempt number within the task"`
	Outcome   string `json:"outcome"    jsonschema:"completed, stuck, blocked, retry, rate-limited, or error"`
	StartedAt string `json:"started_at" jsonschema:"attempt start timestamp"`
	LogPath   string `json:"log_path"   jsonschema:"path to the raw tool output log"`
}

// --- Status tool ---

// StatusInput is the input for the status tool (no parameters needed).
type StatusInput struct{}

// StatusOutput is the output for the status tool.
type StatusOutput struct {
	Root       string         `json:"root"                 jsonschema:"project root directory"`
	Configured bool           `json:"configured"           jsonschema:"whether team and workflow configs exist"`
	Counts     map[string]int `json:"counts"               jsonschema:"task count per state"`
	Next       string         `json:"next,omitempty"       jsonschema:"ID of the next eligible task"`
}

func handleStatus(srv *Server) mcp.ToolHandlerFor[StatusInput, StatusOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
		tasks, err := task.Discover(srv.TasksDir)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("discovering tasks: %w", err)
		}

		out := StatusOutput{
			Root:       srv.Root,
			Configured: hasConfigs(srv.Root),
			Counts:     map[string]int{},
		}
		for _, tk := range tasks {
			out.Counts[string(tk.CurrentState())]++
			if out.Next == "" && tk.Eligible() {
				out.Next = tk.ID
			}
		}
		return nil, out, nil
	}
}

// hasConfigs reports whether both customize outputs exist under root.
func hasConfigs(root string) bool {
	for _, name := range []string{config.TeamConfigFile, config.WorkflowConfigFile} {
		if _, err := os.Stat(filepath.Join(root, config.ProjectConfigDir, name)); err != nil {
			return false
		}
	}
	return true
}

// --- Tasks tool ---

// TasksInput is the input for the tasks tool (no parameters needed).
type TasksInput struct{}

// TasksOutput is the output for the tasks tool.
type TasksOutput struct {
	Count int           `json:"count"           jsonschema:"number of tasks found"`
	Tasks []TaskSummary `json:"tasks,omitempty" jsonschema:"tasks in ID order"`
}

func handleTasks(srv *Server) mcp.ToolHandlerFor[TasksInput, TasksOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ TasksInput) (*mcp.CallToolResult, TasksOutput, error) {
		tasks, err := task.Discover(srv.TasksDir)
		if err != nil {
			return nil, TasksOutput{}, fmt.Errorf("discovering tasks: %w", err)
		}

		out := TasksOutput{Count: len(tasks)}
		for _, tk := range tasks {
			out.Tasks = append(out.Tasks, toTaskSummary(tk))
		}
		return nil, out, nil
	}
}

// toTaskSummary converts a task to its output form, folding in the state
// record's attempt counter when one exists.
func toTaskSummary(tk *task.Task) TaskSummary {
	summary := TaskSummary{
		ID:       tk.ID,
		State:    string(tk.CurrentState()),
		SpecPath: tk.SpecPath,
	}
	if rec, err := tk.ReadRecord(); err == nil && rec != nil {
		summary.Attempts = rec.Attempts
	}
	return summary
}

// --- Task tool ---

// TaskInput is the input for the task tool.
type TaskInput struct {
	ID string `json:"id" jsonschema:"task ID (directory name)"`
}

// TaskOutput is the output for the task tool.
type TaskOutput struct {
	Task     TaskSummary      `json:"task"               jsonschema:"the task"`
	Spec     string           `json:"spec"               jsonschema:"task spec file content"`
	Attempts []AttemptSummary `json:"attempts,omitempty" jsonschema:"attempt history, oldest first"`
}

func handleTask(srv *Server) mcp.ToolHandlerFor[TaskInput, TaskOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input TaskInput) (*mcp.CallToolResult, TaskOutput, error) {
		if input.ID == "" {
			return nil, TaskOutput{}, fmt.Errorf("task ID is required")
		}

		tasks, err := task.Discover(srv.TasksDir)
		if err != nil {
			return nil, TaskOutput{}, fmt.Errorf("discovering tasks: %w", err)
		}

		for _, tk := range tasks {
			if tk.ID != input.ID {
				continue
			}
			spec, readErr := tk.ReadSpec()
			if readErr != nil {
				return nil, TaskOutput{}, fmt.Errorf("reading spec: %w", readErr)
			}
			out := TaskOutput{
				Task: toTaskSummary(tk),
				Spec: spec,
			}
			out.Attempts, err = attemptHistory(srv.Store, tk.ID)
			if err != nil {
				return nil, TaskOutput{}, err
			}
			return nil, out, nil
		}
		return nil, TaskOutput{}, fmt.Errorf("task %q not found", input.ID)
	}
}

// attemptHistory loads the recorded attempts for a task. A nil store
// yields an empty history.
func attemptHistory(store *history.Store, taskID string) ([]AttemptSummary, error) {
	if store == nil {
		return nil, nil
	}
	attempts, err := store.ForTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("loading attempt history: %w", err)
	}
	result := make([]AttemptSummary, 0, len(attempts))
	for _, a := range attempts {
		result = append(result, AttemptSummary{
			Attempt:   a.Attempt,
			Outcome:   string(a.Outcome),
			StartedAt: a.StartedAt.Format(time.RFC3339),
			LogPath:   a.LogPath,
		})
	}
	return result, nil
}

// --- Team config tool ---

// TeamConfigInput is the input for the team_config tool (no parameters needed).
type TeamConfigInput struct{}

// TeamConfigOutput is the output for the team_config tool.
type TeamConfigOutput struct {
	Team     *config.TeamConfig     `json:"team"     jsonschema:"team, project, style, and testing configuration"`
	Workflow *config.WorkflowConfig `json:"workflow" jsonschema:"branching and review workflow configuration"`
}

func handleTeamConfig(srv *Server) mcp.ToolHandlerFor[TeamConfigInput, TeamConfigOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ TeamConfigInput) (*mcp.CallToolResult, TeamConfigOutput, error) {
		team, err := config.LoadTeamConfig(srv.Root)
		if err != nil {
			return nil, TeamConfigOutput{}, fmt.Errorf("loading team config: %w", err)
		}
		workflow, err := config.LoadWorkflowConfig(srv.Root)
		if err != nil {
			return nil, TeamConfigOutput{}, fmt.Errorf("loading workflow config: %w", err)
		}
		return nil, TeamConfigOutput{Team: team, Workflow: workflow}, nil
	}
}
