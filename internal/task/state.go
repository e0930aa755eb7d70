package task

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/lvalics/steward/internal/output"
)

// StateFile is the per-task structured state record. Markers remain the
// authoritative interface for the external tool; the record exists so
// status readers get an explicit state instead of inferring one.
const StateFile = "state.json"

// Record is the persisted per-task state.
type Record struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	Attempts  int       `json:"attempts"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WriteRecord persists the state record into the task directory.
func (t *Task) WriteRecord(state State, attempts int, now time.Time) error {
	rec := Record{
		ID:        t.ID,
		State:     state,
		Attempts:  attempts,
		UpdatedAt: now.UTC(),
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return output.NewSystemErrorWithCause("encoding state record", err)
	}

	path := filepath.Join(t.Dir, StateFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return output.NewSystemErrorWithCause("writing state record", err)
	}
	return nil
}

// ReadRecord loads the state record from the task directory. Returns nil
// without error when no record has been written yet.
func (t *Task) ReadRecord() (*Record, error) {
	data, err := os.ReadFile(filepath.Join(t.Dir, StateFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, output.NewSystemErrorWithCause("reading state record", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, output.NewSystemErrorWithCause("parsing state record", err)
	}
	return &rec, nil
}
