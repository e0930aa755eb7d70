// Package main provides the entry point for the steward CLI.
package main

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lvalics/steward/internal/config"
	"github.com/lvalics/steward/internal/history"
	"github.com/lvalics/steward/internal/output"
	"github.com/lvalics/steward/internal/task"
)

// statusFlags holds the command-line flags for the status command.
type statusFlags struct {
	tasksDir    string
	sessionDir  string
	showHistory bool
}

// taskStatus is one row of status output.
type taskStatus struct {
	ID       string `json:"id"`
	State    string `json:"state"`
	Attempts int    `json:"attempts"`
}

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	flags := &statusFlags{}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show task queue and configuration state",
		Long: `Show the current state of the task queue and project configuration.

Lists every task with its state (pending, in-progress, completed, blocked)
and attempt count, plus whether the customize configs have been written.

Examples:
  steward status             # Show human-readable status
  steward status --history   # Include recent attempt history
  steward status --json      # Output status as JSON for scripting`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.tasksDir, "tasks-dir", "tasks", "Directory containing task subdirectories")
	cmd.Flags().StringVar(&flags.sessionDir, "session-dir", "sessions", "Directory holding the history database")
	cmd.Flags().BoolVar(&flags.showHistory, "history", false, "Include recent attempt history")
	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, flags *statusFlags) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	tasks, err := task.Discover(flags.tasksDir)
	if err != nil {
		printer.Error(err)
		return err
	}

	rows := make([]taskStatus, 0, len(tasks))
	counts := map[string]int{}
	for _, tk := range tasks {
		row := taskStatus{ID: tk.ID, State: string(tk.CurrentState())}
		if rec, recErr := tk.ReadRecord(); recErr == nil && rec != nil {
			row.Attempts = rec.Attempts
		}
		rows = append(rows, row)
		counts[row.State]++
	}

	var recent []*history.Attempt
	if flags.showHistory {
		recent, err = loadRecentAttempts(flags.sessionDir)
		if err != nil {
			printer.Error(err)
			return err
		}
	}

	configured := isConfigured()

	if printer.IsJSON() {
		data := map[string]any{
			"tasks_dir":  flags.tasksDir,
			"configured": configured,
			"counts":     counts,
			"tasks":      rows,
		}
		if flags.showHistory {
			data["recent_attempts"] = recent
		}
		return printer.Success(data)
	}

	printHumanStatus(printer, flags, rows, configured, recent)
	return nil
}

// loadRecentAttempts reads the latest history rows. A missing database
// just means no runs have happened yet.
func loadRecentAttempts(sessionDir string) ([]*history.Attempt, error) {
	dbPath := filepath.Join(sessionDir, "history.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, nil
	}
	store, err := history.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close() //nolint:errcheck // read-only access
	return store.Recent(10)
}

// isConfigured reports whether customize has written both config files in
// the enclosing project.
func isConfigured() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}
	root, err := config.FindProjectRoot(cwd)
	if err != nil {
		return false
	}
	for _, name := range []string{config.TeamConfigFile, config.WorkflowConfigFile} {
		if _, err := os.Stat(filepath.Join(root, config.ProjectConfigDir, name)); err != nil {
			return false
		}
	}
	return true
}

// printHumanStatus renders the human-readable status view.
func printHumanStatus(printer *output.Printer, flags *statusFlags, rows []taskStatus, configured bool, recent []*history.Attempt) {
	printer.Section("Project")
	if configured {
		printer.KeyValue("Configuration", "written")
	} else {
		printer.KeyValue("Configuration", "missing (run 'steward customize')")
	}
	printer.KeyValue("Tasks dir", flags.tasksDir)
	printer.Println()

	if len(rows) == 0 {
		printer.Println("No tasks found.")
		return
	}

	printer.Section("Tasks")
	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		table = append(table, []string{row.ID, row.State, strconv.Itoa(row.Attempts)})
	}
	printer.Table([]string{"TASK", "STATE", "ATTEMPTS"}, table)

	if len(recent) > 0 {
		printer.Println()
		printer.Section("Recent attempts")
		attemptRows := make([][]string, 0, len(recent))
		for _, a := range recent {
			attemptRows = append(attemptRows, []string{
				a.TaskID,
				strconv.Itoa(a.Attempt),
				string(a.Outcome),
				a.CompletedAt.Format(time.RFC3339),
			})
		}
		printer.Table([]string{"TASK", "ATTEMPT", "OUTCOME", "FINISHED"}, attemptRows)
	}
}
