// Package history persists a record of every driver attempt in a local
// SQLite database, so 'steward status --history' and the watch TUI can
// show what happened across runs.
package history

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lvalics/steward/internal/output"
)

// Outcome classifies how an attempt ended.
type Outcome string

const (
	OutcomeCompleted   Outcome = "completed"
	OutcomeStuck       Outcome = "stuck"
	OutcomeBlocked     Outcome = "blocked"
	OutcomeRetry       Outcome = "retry"
	OutcomeRateLimited Outcome = "rate-limited"
	OutcomeError       Outcome = "error"
)

// Attempt is one recorded invocation of the external tool.
type Attempt struct {
	ID          int64
	TaskID      string
	Attempt     int
	StartedAt   time.Time
	CompletedAt time.Time
	Outcome     Outcome
	OutputHash  string
	LogPath     string
}

// Store wraps the SQLite attempt history.
type Store struct {
	db *sql.DB
}

// Open opens (and migrates) the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("opening history database", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id TEXT NOT NULL,
		attempt INTEGER NOT NULL,
		started_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP NOT NULL,
		outcome TEXT NOT NULL,
		output_hash TEXT,
		log_path TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_attempts_task ON attempts(task_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return output.NewSystemErrorWithCause("migrating history database", err)
	}
	return nil
}

// Record inserts one attempt row.
func (s *Store) Record(a *Attempt) error {
	result, err := s.db.Exec(
		`INSERT INTO attempts (task_id, attempt, started_at, completed_at, outcome, output_hash, log_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.TaskID, a.Attempt, a.StartedAt.UTC(), a.CompletedAt.UTC(), string(a.Outcome), a.OutputHash, a.LogPath,
	)
	if err != nil {
		return output.NewSystemErrorWithCause("recording attempt", err)
	}
	a.ID, _ = result.LastInsertId()
	return nil
}

// ForTask returns all attempts for one task, oldest first.
func (s *Store) ForTask(taskID string) ([]*Attempt, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, attempt, started_at, completed_at, outcome, output_hash, log_path
		 FROM attempts WHERE task_id = ? ORDER BY id`, taskID)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("querying attempts", err)
	}
	defer rows.Close()
	return scanAttempts(rows)
}

// Recent returns the most recent attempts across all tasks, newest first.
func (s *Store) Recent(limit int) ([]*Attempt, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, attempt, started_at, completed_at, outcome, output_hash, log_path
		 FROM attempts ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("querying attempts", err)
	}
	defer rows.Close()
	return scanAttempts(rows)
}

// scanAttempts reads attempt rows into structs.
func scanAttempts(rows *sql.Rows) ([]*Attempt, error) {
	var attempts []*Attempt
	for rows.Next() {
		var a Attempt
		var outcome string
		if err := rows.Scan(&a.ID, &a.TaskID, &a.Attempt, &a.StartedAt, &a.CompletedAt, &outcome, &a.OutputHash, &a.LogPath); err != nil {
			return nil, output.NewSystemErrorWithCause("scanning attempt row", err)
		}
		a.Outcome = Outcome(outcome)
		attempts = append(attempts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, output.NewSystemErrorWithCause("reading attempt rows", err)
	}
	return attempts, nil
}
