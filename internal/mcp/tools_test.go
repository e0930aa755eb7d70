package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lvalics/steward/internal/config"
	"github.com/lvalics/steward/internal/history"
	"github.com/lvalics/steward/internal/task"
)

// --- Test helpers ---

// makeTestServer builds a project tree with tasks in known states.
func makeTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	tasksDir := filepath.Join(root, "tasks")

	if err := os.MkdirAll(filepath.Join(root, config.MarkerDir), 0o755); err != nil {
		t.Fatalf("mkdir marker: %v", err)
	}

	makeTask(t, tasksDir, "task-001", task.CompletedMarker)
	makeTask(t, tasksDir, "task-002", task.BlockedMarker)
	makeTask(t, tasksDir, "task-003", "")

	return &Server{Root: root, TasksDir: tasksDir}
}

func makeTask(t *testing.T, tasksDir, id, marker string) {
	t.Helper()
	dir := filepath.Join(tasksDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	spec := filepath.Join(dir, id+task.SpecSuffix)
	if err := os.WriteFile(spec, []byte("# Spec for "+id+"\n"), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	if marker != "" {
		if err := os.WriteFile(filepath.Join(dir, marker), nil, 0o644); err != nil {
			t.Fatalf("write marker: %v", err)
		}
	}
}

func writeConfigs(t *testing.T, root string) {
	t.Helper()
	if _, err := config.QuickTeamDefaults().Save(root); err != nil {
		t.Fatalf("saving team config: %v", err)
	}
	if _, err := config.QuickWorkflowDefaults().Save(root); err != nil {
		t.Fatalf("saving workflow config: %v", err)
	}
}

// --- Status handler tests ---

func TestHandleStatus(t *testing.T) {
	srv := makeTestServer(t)

	_, out, err := handleStatus(srv)(context.Background(), &mcp.CallToolRequest{}, StatusInput{})
	if err != nil {
		t.Fatalf("handleStatus() error: %v", err)
	}

	if out.Configured {
		t.Error("Configured = true before customize ran")
	}
	want := map[string]int{"completed": 1, "blocked": 1, "pending": 1}
	for state, count := range want {
		if out.Counts[state] != count {
			t.Errorf("Counts[%q] = %d, want %d", state, out.Counts[state], count)
		}
	}
	if out.Next != "task-003" {
		t.Errorf("Next = %q, want task-003", out.Next)
	}
}

func TestHandleStatus_Configured(t *testing.T) {
	srv := makeTestServer(t)
	writeConfigs(t, srv.Root)

	_, out, err := handleStatus(srv)(context.Background(), &mcp.CallToolRequest{}, StatusInput{})
	if err != nil {
		t.Fatalf("handleStatus() error: %v", err)
	}
	if !out.Configured {
		t.Error("Configured = false after configs written")
	}
}

// --- Tasks handler tests ---

func TestHandleTasks(t *testing.T) {
	srv := makeTestServer(t)

	_, out, err := handleTasks(srv)(context.Background(), &mcp.CallToolRequest{}, TasksInput{})
	if err != nil {
		t.Fatalf("handleTasks() error: %v", err)
	}

	if out.Count != 3 {
		t.Fatalf("Count = %d, want 3", out.Count)
	}
	wantStates := map[string]string{
		"task-001": "completed",
		"task-002": "blocked",
		"task-003": "pending",
	}
	for _, summary := range out.Tasks {
		if wantStates[summary.ID] != summary.State {
			t.Errorf("task %s state = %q, want %q", summary.ID, summary.State, wantStates[summary.ID])
		}
	}
}

// --- Task handler tests ---

func TestHandleTask(t *testing.T) {
	srv := makeTestServer(t)

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("history.Open() error: %v", err)
	}
	defer store.Close()
	srv.Store = store

	now := time.Now()
	if err := store.Record(&history.Attempt{
		TaskID:      "task-003",
		Attempt:     1,
		StartedAt:   now,
		CompletedAt: now,
		Outcome:     history.OutcomeRetry,
		OutputHash:  "abc",
		LogPath:     "logs/task-003_attempt1.log",
	}); err != nil {
		t.Fatalf("recording attempt: %v", err)
	}

	_, out, err := handleTask(srv)(context.Background(), &mcp.CallToolRequest{}, TaskInput{ID: "task-003"})
	if err != nil {
		t.Fatalf("handleTask() error: %v", err)
	}

	if out.Task.ID != "task-003" || out.Task.State != "pending" {
		t.Errorf("task = %+v, want task-003/pending", out.Task)
	}
	if out.Spec != "# Spec for task-003\n" {
		t.Errorf("Spec = %q", out.Spec)
	}
	if len(out.Attempts) != 1 || out.Attempts[0].Outcome != "retry" {
		t.Errorf("Attempts = %+v, want one retry row", out.Attempts)
	}
}

func TestHandleTask_NotFound(t *testing.T) {
	srv := makeTestServer(t)

	_, _, err := handleTask(srv)(context.Background(), &mcp.CallToolRequest{}, TaskInput{ID: "task-999"})
	if err == nil {
		t.Fatal("handleTask() expected error for unknown ID")
	}
}

func TestHandleTask_MissingID(t *testing.T) {
	srv := makeTestServer(t)

	_, _, err := handleTask(srv)(context.Background(), &mcp.CallToolRequest{}, TaskInput{})
	if err == nil {
		t.Fatal("handleTask() expected error for empty ID")
	}
}

// --- Team config handler tests ---

func TestHandleTeamConfig(t *testing.T) {
	srv := makeTestServer(t)
	writeConfigs(t, srv.Root)

	_, out, err := handleTeamConfig(srv)(context.Background(), &mcp.CallToolRequest{}, TeamConfigInput{})
	if err != nil {
		t.Fatalf("handleTeamConfig() error: %v", err)
	}

	if out.Team.Team.Size != "Solo developer" {
		t.Errorf("team size = %q, want Solo developer", out.Team.Team.Size)
	}
	if out.Workflow.Workflow.BranchingStrategy != "GitHub Flow" {
		t.Errorf("branching = %q, want GitHub Flow", out.Workflow.Workflow.BranchingStrategy)
	}
}

func TestHandleTeamConfig_Unconfigured(t *testing.T) {
	srv := makeTestServer(t)

	_, _, err := handleTeamConfig(srv)(context.Background(), &mcp.CallToolRequest{}, TeamConfigInput{})
	if err == nil {
		t.Fatal("handleTeamConfig() expected error without configs")
	}
}
