// Package main provides the entry point for the steward CLI.
package main

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lvalics/steward/internal/agent"
	"github.com/lvalics/steward/internal/driver"
	"github.com/lvalics/steward/internal/history"
	"github.com/lvalics/steward/internal/output"
	"github.com/lvalics/steward/internal/task"
)

// runFlags holds the command-line flags for the run command.
type runFlags struct {
	tasksDir      string
	logsDir       string
	sessionDir    string
	maxIterations int
	maxAttempts   int
	delay         time.Duration
	dryRun        bool
}

// newRunCmd creates the run command.
func newRunCmd() *cobra.Command {
	flags := &runFlags{}
	defaults := driver.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive the external AI tool through the task backlog",
		Long: `Drive the external AI tool through the task backlog.

Polls the tasks directory for eligible tasks (spec file present, no
.completed or .blocked marker), invokes the tool per task, and applies a
bounded retry policy with stuck detection. Tasks that exhaust their
attempts are marked .blocked and get a hand-off document; a rate-limit
phrase in tool output halts the whole run.

Each invocation's raw output is logged to the logs directory, and every
attempt is recorded in the session history database.

Examples:
  steward run                         # Run with defaults (tasks/, 20 iterations)
  steward run --tasks-dir backlog     # Use a different task tree
  steward run --max-attempts 5        # Allow more retries per task
  steward run --dry-run               # List the plan without invoking the tool`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.tasksDir, "tasks-dir", defaults.TasksDir, "Directory containing task subdirectories")
	cmd.Flags().StringVar(&flags.logsDir, "logs-dir", defaults.LogsDir, "Directory for attempt logs")
	cmd.Flags().StringVar(&flags.sessionDir, "session-dir", defaults.SessionDir, "Directory for hand-off documents and history")
	cmd.Flags().IntVar(&flags.maxIterations, "max-iterations", defaults.MaxIterations, "Global iteration ceiling")
	cmd.Flags().IntVar(&flags.maxAttempts, "max-attempts", defaults.MaxAttempts, "Attempt ceiling per task")
	cmd.Flags().DurationVar(&flags.delay, "delay", defaults.RetryDelay, "Delay between retries")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "List eligible tasks without invoking the tool")

	return cmd
}

// runRun executes the run command.
func runRun(cmd *cobra.Command, flags *runFlags) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	opts := driver.Options{
		TasksDir:      flags.tasksDir,
		LogsDir:       flags.logsDir,
		SessionDir:    flags.sessionDir,
		MaxIterations: flags.maxIterations,
		MaxAttempts:   flags.maxAttempts,
		RetryDelay:    flags.delay,
	}

	if flags.dryRun {
		return runDryRun(printer, opts)
	}

	if err := agent.CheckInstalled(); err != nil {
		printer.Error(err)
		return err
	}

	store, err := history.Open(filepath.Join(opts.SessionDir, "history.db"))
	if err != nil {
		printer.Error(err)
		return err
	}
	defer store.Close() //nolint:errcheck // best-effort close on exit

	d := driver.New(opts, agent.NewRunner(), printer, store)
	result, err := d.Run(cmd.Context())
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}

	printRunSummary(printer, result)
	if result.Halted {
		return output.NewSystemError("run halted: " + result.HaltReason)
	}
	return nil
}

// runDryRun lists the eligible tasks in selection order without running
// anything.
func runDryRun(printer *output.Printer, opts driver.Options) error {
	tasks, err := task.Discover(opts.TasksDir)
	if err != nil {
		printer.Error(err)
		return err
	}

	type planned struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}
	plan := make([]planned, 0, len(tasks))
	for _, tk := range tasks {
		if tk.Eligible() {
			plan = append(plan, planned{ID: tk.ID, State: string(tk.CurrentState())})
		}
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"tasks_dir": opts.TasksDir,
			"eligible":  plan,
		})
	}

	if len(plan) == 0 {
		printer.Println("No eligible tasks in " + opts.TasksDir)
		return nil
	}
	printer.Section("Would process")
	for _, p := range plan {
		printer.Print("  %s (%s)\n", p.ID, p.State)
	}
	return nil
}

// printRunSummary renders the human summary after a run.
func printRunSummary(printer *output.Printer, result *driver.Result) {
	printer.Println()
	printer.Section("Run summary")
	printer.KeyValue("Iterations", strconv.Itoa(result.Iterations))
	printer.KeyValue("Completed", strconv.Itoa(len(result.Completed)))
	printer.KeyValue("Blocked", strconv.Itoa(len(result.Blocked)))
	for _, path := range result.Handovers {
		printer.KeyValue("Hand-off", path)
	}
}
