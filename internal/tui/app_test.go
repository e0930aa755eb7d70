package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lvalics/steward/internal/task"
)

func makeTasksDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, spec := range []struct {
		id     string
		marker string
	}{
		{"task-001", task.CompletedMarker},
		{"task-002", ""},
	} {
		taskDir := filepath.Join(dir, spec.id)
		if err := os.MkdirAll(taskDir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		specPath := filepath.Join(taskDir, spec.id+task.SpecSuffix)
		if err := os.WriteFile(specPath, []byte("# "+spec.id+"\n"), 0o644); err != nil {
			t.Fatalf("write spec: %v", err)
		}
		if spec.marker != "" {
			if err := os.WriteFile(filepath.Join(taskDir, spec.marker), nil, 0o644); err != nil {
				t.Fatalf("write marker: %v", err)
			}
		}
	}
	return dir
}

func TestLoadTasks(t *testing.T) {
	app := NewApp(makeTasksDir(t), nil)

	msg, ok := app.loadTasks().(tasksLoadedMsg)
	if !ok {
		t.Fatal("loadTasks() did not return tasksLoadedMsg")
	}
	if msg.err != nil {
		t.Fatalf("loadTasks() error: %v", msg.err)
	}
	if len(msg.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(msg.rows))
	}
	if msg.rows[0].ID != "task-001" || msg.rows[0].State != task.StateCompleted {
		t.Errorf("row 0 = %+v, want task-001 completed", msg.rows[0])
	}
	if msg.rows[1].State != task.StatePending {
		t.Errorf("row 1 state = %q, want pending", msg.rows[1].State)
	}
}

func TestUpdate_Navigation(t *testing.T) {
	app := NewApp(makeTasksDir(t), nil)
	model, _ := app.Update(app.loadTasks())
	app = model.(*App)

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = model.(*App)
	if app.selectedIdx != 1 {
		t.Errorf("selectedIdx after down = %d, want 1", app.selectedIdx)
	}

	// Does not run past the end.
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = model.(*App)
	if app.selectedIdx != 1 {
		t.Errorf("selectedIdx at end = %d, want 1", app.selectedIdx)
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyUp})
	app = model.(*App)
	if app.selectedIdx != 0 {
		t.Errorf("selectedIdx after up = %d, want 0", app.selectedIdx)
	}
}

func TestUpdate_Quit(t *testing.T) {
	app := NewApp(makeTasksDir(t), nil)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestView_ListShowsTasks(t *testing.T) {
	app := NewApp(makeTasksDir(t), nil)
	model, _ := app.Update(app.loadTasks())
	app = model.(*App)

	view := app.View()
	for _, want := range []string{"task-001", "task-002", "completed", "pending"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestUpdate_DetailFlow(t *testing.T) {
	app := NewApp(makeTasksDir(t), nil)
	model, _ := app.Update(app.loadTasks())
	app = model.(*App)

	// Select the pending task and open it.
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = model.(*App)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should produce a load command")
	}

	model, _ = app.Update(cmd())
	app = model.(*App)
	if app.view != ViewTaskDetail {
		t.Fatalf("view = %v, want detail", app.view)
	}

	detail := app.View()
	if !strings.Contains(detail, "task-002") {
		t.Errorf("detail view missing task ID:\n%s", detail)
	}

	// Escape returns to the list.
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(*App)
	if app.view != ViewTaskList {
		t.Errorf("view after esc = %v, want list", app.view)
	}
}

func TestView_EmptyDir(t *testing.T) {
	app := NewApp(t.TempDir(), nil)
	model, _ := app.Update(app.loadTasks())
	app = model.(*App)

	if !strings.Contains(app.View(), "No tasks found") {
		t.Error("empty dir view should say no tasks found")
	}
}
