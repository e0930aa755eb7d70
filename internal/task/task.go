// Package task provides the task model for the steward automation driver.
//
// A task is a directory identified by an opaque ID string, expected to
// contain a specification file named <id>-specs.md. Lifecycle state lives
// on the filesystem: marker files encode transitions, and a state.json
// record mirrors them so readers need not infer state from marker
// presence alone.
package task

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lvalics/steward/internal/output"
)

// Marker file names. Presence encodes a state transition.
const (
	CompletedMarker = ".completed"
	BlockedMarker   = ".blocked"
	ProgressMarker  = ".progress"
)

// SpecSuffix is the required suffix of a task's specification file.
const SpecSuffix = "-specs.md"

// State is the lifecycle state of a task.
type State string

const (
	StatePending    State = "pending"
	StateInProgress State = "in-progress"
	StateCompleted  State = "completed"
	StateBlocked    State = "blocked"
)

// Task is one unit of work for the external AI tool.
type Task struct {
	ID       string
	Dir      string
	SpecPath string
}

// Discover scans tasksDir for task directories. A directory qualifies when
// it contains a specification file named <dirname>-specs.md. Results are
// sorted by ID.
func Discover(tasksDir string) ([]*Task, error) {
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, output.NewUserError(fmt.Sprintf("tasks directory %s does not exist", tasksDir))
		}
		return nil, output.NewSystemErrorWithCause("reading tasks directory", err)
	}

	var tasks []*Task
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		id := entry.Name()
		dir := filepath.Join(tasksDir, id)
		specPath := filepath.Join(dir, id+SpecSuffix)
		if _, statErr := os.Stat(specPath); statErr != nil {
			continue
		}
		tasks = append(tasks, &Task{ID: id, Dir: dir, SpecPath: specPath})
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// CurrentState derives the task state from marker files. The completed
// marker wins over blocked; progress only applies when neither terminal
// marker exists.
func (t *Task) CurrentState() State {
	switch {
	case t.hasMarker(CompletedMarker):
		return StateCompleted
	case t.hasMarker(BlockedMarker):
		return StateBlocked
	case t.hasMarker(ProgressMarker):
		return StateInProgress
	default:
		return StatePending
	}
}

// Eligible reports whether the task can be selected for processing: spec
// file present and neither terminal marker set.
func (t *Task) Eligible() bool {
	state := t.CurrentState()
	return state == StatePending || state == StateInProgress
}

// MarkCompleted writes the completed marker.
func (t *Task) MarkCompleted() error {
	return t.writeMarker(CompletedMarker)
}

// MarkBlocked writes the blocked marker and removes the progress marker.
func (t *Task) MarkBlocked() error {
	t.clearMarker(ProgressMarker)
	return t.writeMarker(BlockedMarker)
}

// MarkInProgress writes the progress marker.
func (t *Task) MarkInProgress() error {
	return t.writeMarker(ProgressMarker)
}

// ClearInProgress removes the progress marker. Missing markers are not an
// error.
func (t *Task) ClearInProgress() {
	t.clearMarker(ProgressMarker)
}

// hasMarker reports whether the named marker file exists.
func (t *Task) hasMarker(name string) bool {
	_, err := os.Stat(filepath.Join(t.Dir, name))
	return err == nil
}

// writeMarker creates an empty marker file.
func (t *Task) writeMarker(name string) error {
	path := filepath.Join(t.Dir, name)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return output.NewSystemErrorWithCause("writing marker "+name, err)
	}
	return nil
}

// clearMarker removes a marker file, ignoring missing files.
func (t *Task) clearMarker(name string) {
	_ = os.Remove(filepath.Join(t.Dir, name))
}

// ReadSpec returns the content of the task's specification file.
func (t *Task) ReadSpec() (string, error) {
	data, err := os.ReadFile(t.SpecPath)
	if err != nil {
		return "", output.NewSystemErrorWithCause("reading task spec", err)
	}
	return string(data), nil
}
