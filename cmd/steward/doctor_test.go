package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lvalics/steward/internal/task"
)

func markTaskBlocked(t *testing.T, tasksDir, id string) {
	t.Helper()
	marker := filepath.Join(tasksDir, id, task.BlockedMarker)
	if err := os.WriteFile(marker, nil, 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
}

func TestDoctor_JSON(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"doctor", "--json", "--tasks-dir", t.TempDir()})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var result doctorResult
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("output should be valid JSON: %v\n%s", err, buf.String())
	}

	if len(result.Core) == 0 {
		t.Error("doctor should report core checks")
	}
	if result.Summary == nil {
		t.Fatal("doctor should report a summary")
	}
	total := result.Summary.Passed + result.Summary.Warnings + result.Summary.Failed
	want := len(result.Core) + len(result.Project) + len(result.Queue)
	if total != want {
		t.Errorf("summary total = %d, want %d", total, want)
	}
}

func TestDoctor_QueueChecks(t *testing.T) {
	tasksDir := makeStatusTasks(t)

	checks := runQueueChecks(tasksDir)
	if len(checks) == 0 {
		t.Fatal("expected queue checks")
	}
	if checks[0].Status != checkPass {
		t.Errorf("tasks dir check = %+v, want pass", checks[0])
	}
}

func TestDoctor_QueueChecksBlockedWarns(t *testing.T) {
	tasksDir := makeStatusTasks(t)
	markTaskBlocked(t, tasksDir, "task-002")

	checks := runQueueChecks(tasksDir)
	foundWarn := false
	for _, check := range checks {
		if check.Name == "blocked tasks" && check.Status == checkWarn {
			foundWarn = true
		}
	}
	if !foundWarn {
		t.Errorf("blocked task should produce a warning: %+v", checks)
	}
}
