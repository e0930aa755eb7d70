// Package main provides the entry point for the steward CLI.
package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lvalics/steward/internal/agent"
	"github.com/lvalics/steward/internal/config"
	"github.com/lvalics/steward/internal/output"
	"github.com/lvalics/steward/internal/task"
)

// checkStatus represents the result of a health check.
type checkStatus string

const (
	checkPass checkStatus = "pass"
	checkWarn checkStatus = "warn"
	checkFail checkStatus = "fail"
)

// checkResult holds the result of a single health check.
type checkResult struct {
	Name    string      `json:"name"`
	Status  checkStatus `json:"status"`
	Message string      `json:"message"`
	Hint    string      `json:"hint,omitempty"`
}

// doctorResult holds all check results organized by category.
type doctorResult struct {
	Version string         `json:"version"`
	Core    []checkResult  `json:"core"`
	Project []checkResult  `json:"project"`
	Queue   []checkResult  `json:"queue"`
	Summary *doctorSummary `json:"summary"`
}

// doctorSummary holds the counts of check results.
type doctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Failed   int `json:"failed"`
}

// doctorFlags holds the command-line flags for the doctor command.
type doctorFlags struct {
	quiet    bool
	tasksDir string
}

// newDoctorCmd creates the doctor command.
func newDoctorCmd() *cobra.Command {
	flags := &doctorFlags{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check installation health and suggest fixes",
		Long: `Check steward installation health and suggest fixes.

Runs a series of health checks across three categories:
  CORE    - Required executables (git, the external AI tool)
  PROJECT - Project root marker and customize configuration
  QUEUE   - Task directory state

Each check reports:
  Pass    - Check passed successfully
  Warning - Non-critical issue found
  Fail    - Critical issue that needs attention

Examples:
  steward doctor          # Run all health checks
  steward doctor --quiet  # Only show failures and warnings
  steward doctor --json   # Output results as JSON`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.quiet, "quiet", false, "Only show failures and warnings")
	cmd.Flags().StringVar(&flags.tasksDir, "tasks-dir", "tasks", "Directory containing task subdirectories")

	return cmd
}

// runDoctor executes the doctor command.
func runDoctor(cmd *cobra.Command, flags *doctorFlags) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	result := gatherDoctorChecks(flags)

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}

	outputDoctorHuman(printer, result, flags.quiet)
	return nil
}

// gatherDoctorChecks runs all health checks and returns results.
func gatherDoctorChecks(flags *doctorFlags) *doctorResult {
	result := &doctorResult{
		Version: version,
		Core:    runCoreChecks(),
		Project: runProjectChecks(),
		Queue:   runQueueChecks(flags.tasksDir),
		Summary: &doctorSummary{},
	}

	allChecks := append(append(result.Core, result.Project...), result.Queue...)
	for _, check := range allChecks {
		switch check.Status {
		case checkPass:
			result.Summary.Passed++
		case checkWarn:
			result.Summary.Warnings++
		case checkFail:
			result.Summary.Failed++
		}
	}

	return result
}

// runCoreChecks verifies the required executables.
func runCoreChecks() []checkResult {
	checks := []checkResult{}

	if _, err := exec.LookPath("git"); err != nil {
		checks = append(checks, checkResult{
			Name:    "git",
			Status:  checkFail,
			Message: "not found on PATH",
			Hint:    "install git (required by 'steward init')",
		})
	} else {
		checks = append(checks, checkResult{Name: "git", Status: checkPass, Message: "installed"})
	}

	if err := agent.CheckInstalled(); err != nil {
		checks = append(checks, checkResult{
			Name:    agent.Binary,
			Status:  checkFail,
			Message: "not found on PATH",
			Hint:    "install the external AI CLI before running 'steward run'",
		})
	} else {
		checks = append(checks, checkResult{Name: agent.Binary, Status: checkPass, Message: "installed"})
	}

	return checks
}

// runProjectChecks verifies the project root and customize outputs.
func runProjectChecks() []checkResult {
	checks := []checkResult{}

	cwd, err := os.Getwd()
	if err != nil {
		return append(checks, checkResult{
			Name:    "project root",
			Status:  checkFail,
			Message: err.Error(),
		})
	}

	root, err := config.FindProjectRoot(cwd)
	if err != nil {
		return append(checks, checkResult{
			Name:    "project root",
			Status:  checkFail,
			Message: "no " + config.MarkerDir + " directory found",
			Hint:    "run 'steward init' to scaffold a project",
		})
	}
	checks = append(checks, checkResult{Name: "project root", Status: checkPass, Message: root})

	for _, name := range []string{config.TeamConfigFile, config.WorkflowConfigFile} {
		if _, statErr := os.Stat(filepath.Join(root, config.ProjectConfigDir, name)); statErr != nil {
			checks = append(checks, checkResult{
				Name:    name,
				Status:  checkWarn,
				Message: "not written",
				Hint:    "run 'steward customize'",
			})
		} else {
			checks = append(checks, checkResult{Name: name, Status: checkPass, Message: "written"})
		}
	}

	return checks
}

// runQueueChecks inspects the task directory.
func runQueueChecks(tasksDir string) []checkResult {
	checks := []checkResult{}

	tasks, err := task.Discover(tasksDir)
	if err != nil {
		return append(checks, checkResult{
			Name:    "tasks dir",
			Status:  checkWarn,
			Message: tasksDir + " not readable",
			Hint:    "create the tasks directory or pass --tasks-dir",
		})
	}

	eligible := 0
	blocked := 0
	for _, tk := range tasks {
		if tk.Eligible() {
			eligible++
		}
		if tk.CurrentState() == task.StateBlocked {
			blocked++
		}
	}

	checks = append(checks, checkResult{
		Name:    "tasks dir",
		Status:  checkPass,
		Message: strconv.Itoa(len(tasks)) + " tasks, " + strconv.Itoa(eligible) + " eligible",
	})
	if blocked > 0 {
		checks = append(checks, checkResult{
			Name:    "blocked tasks",
			Status:  checkWarn,
			Message: strconv.Itoa(blocked) + " blocked",
			Hint:    "review hand-off documents, then remove .blocked to retry",
		})
	}

	return checks
}

// outputDoctorHuman outputs the doctor result in human-readable format.
func outputDoctorHuman(printer *output.Printer, result *doctorResult, quiet bool) {
	printer.Println()
	printer.Print("steward doctor v%s\n", result.Version)

	printCheckSection(printer, "CORE", result.Core, quiet)
	printCheckSection(printer, "PROJECT", result.Project, quiet)
	printCheckSection(printer, "QUEUE", result.Queue, quiet)

	printer.Println()
	printer.Print("%s %d passed  %s %d warnings  %s %d failed\n",
		statusIcon(checkPass), result.Summary.Passed,
		statusIcon(checkWarn), result.Summary.Warnings,
		statusIcon(checkFail), result.Summary.Failed,
	)
}

// printCheckSection prints a section of checks.
func printCheckSection(printer *output.Printer, title string, checks []checkResult, quiet bool) {
	// In quiet mode, skip sections with only passing checks
	if quiet {
		hasNonPass := false
		for _, check := range checks {
			if check.Status != checkPass {
				hasNonPass = true
				break
			}
		}
		if !hasNonPass {
			return
		}
	}

	printer.Println()
	printer.Println(title)

	for _, check := range checks {
		if quiet && check.Status == checkPass {
			continue
		}

		printer.Print("  %s  %s %s\n", statusIcon(check.Status), check.Name, check.Message)
		if check.Hint != "" {
			printer.Print("     %s %s\n", hintPrefix(), check.Hint)
		}
	}
}

// statusIcon returns the icon for a check status.
func statusIcon(status checkStatus) string {
	switch status {
	case checkPass:
		return "ok"
	case checkWarn:
		return "!!"
	case checkFail:
		return "XX"
	default:
		return "??"
	}
}

// hintPrefix returns the prefix for hint lines.
func hintPrefix() string {
	return "->"
}
