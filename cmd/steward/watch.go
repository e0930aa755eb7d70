// Package main provides the entry point for the steward CLI.
package main

import (
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lvalics/steward/internal/history"
	"github.com/lvalics/steward/internal/output"
	"github.com/lvalics/steward/internal/tui"
)

// watchFlags holds the command-line flags for the watch command.
type watchFlags struct {
	tasksDir   string
	sessionDir string
}

// newWatchCmd creates the watch command.
func newWatchCmd() *cobra.Command {
	flags := &watchFlags{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of the task queue",
		Long: `Watch the task queue in an interactive terminal view.

Shows every task with its state and attempt count, refreshing every two
seconds while a driver run is in flight. Select a task to see its spec
and attempt history.

Keys: up/down select, enter view, r refresh, esc back, q quit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.tasksDir, "tasks-dir", "tasks", "Directory containing task subdirectories")
	cmd.Flags().StringVar(&flags.sessionDir, "session-dir", "sessions", "Directory holding the history database")
	return cmd
}

// runWatch executes the watch command.
func runWatch(cmd *cobra.Command, flags *watchFlags) error {
	var store *history.Store
	dbPath := filepath.Join(flags.sessionDir, "history.db")
	if _, err := os.Stat(dbPath); err == nil {
		store, err = history.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck // read-only access
	}

	app := tui.NewApp(flags.tasksDir, store)
	program := tea.NewProgram(app, tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return output.NewSystemErrorWithCause("watch UI failed", err)
	}
	return nil
}
