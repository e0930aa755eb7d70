// Package main provides the entry point for the steward CLI.
package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lvalics/steward/internal/config"
	"github.com/lvalics/steward/internal/output"
)

// customizeFlags holds the command-line flags for the customize command.
type customizeFlags struct {
	quick bool
	setup bool
	root  string
}

// newCustomizeCmd creates the customize command.
func newCustomizeCmd() *cobra.Command {
	flags := &customizeFlags{}

	cmd := &cobra.Command{
		Use:   "customize",
		Short: "Capture team and project conventions as configuration",
		Long: `Capture team and project conventions as YAML configuration.

Asks a fixed sequence of questions (team, project type, code style,
testing, workflow) and writes:
  .claude/config/team-config.yaml
  .claude/config/workflow-config.yaml
  .claude/config/customization-summary.md

Must be run inside a project root (a directory containing .claude/).

Examples:
  steward customize           # Interactive questionnaire
  steward customize --quick   # Skip prompts, write solo-developer defaults
  steward customize --setup   # Also run scripts/setup-environment.sh after`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCustomize(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.quick, "quick", false, "Skip prompts and write default configuration")
	cmd.Flags().BoolVar(&flags.setup, "setup", false, "Run the environment setup script after writing configs")
	cmd.Flags().StringVar(&flags.root, "root", "", "Project root (default: walk up from the current directory)")

	return cmd
}

// runCustomize executes the customize command.
func runCustomize(cmd *cobra.Command, flags *customizeFlags) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	root, err := resolveProjectRoot(flags.root)
	if err != nil {
		printer.Error(err)
		return err
	}

	team, workflow, err := collectConfigs(cmd, printer, flags.quick)
	if err != nil {
		printer.Error(err)
		return err
	}

	// Write both YAML files, then the summary. There is no rollback if a
	// later write fails; the error surfaces as-is.
	written := make([]string, 0, 3)
	teamPath, err := team.Save(root)
	if err != nil {
		printer.Error(err)
		return err
	}
	written = append(written, teamPath)

	workflowPath, err := workflow.Save(root)
	if err != nil {
		printer.Error(err)
		return err
	}
	written = append(written, workflowPath)

	summaryPath, err := config.WriteSummary(root, team, workflow, time.Now())
	if err != nil {
		printer.Error(err)
		return err
	}
	written = append(written, summaryPath)

	if flags.setup {
		if err := runSetupScript(cmd, root, flags.quick, team.Project.Type); err != nil {
			printer.Error(err)
			return err
		}
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"root":    root,
			"quick":   flags.quick,
			"written": written,
		})
	}

	printer.Println()
	printer.Section("Configuration written")
	for _, path := range written {
		printer.Print("  %s\n", path)
	}
	return nil
}

// resolveProjectRoot finds the project root, either the explicit flag
// value or by walking up from the working directory.
func resolveProjectRoot(flagRoot string) (string, error) {
	if flagRoot != "" {
		if !config.IsProjectRoot(flagRoot) {
			return "", output.NewUserError("not a project root: " + flagRoot + " has no " + config.MarkerDir + " directory")
		}
		return flagRoot, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", output.NewSystemErrorWithCause("getting working directory", err)
	}
	return config.FindProjectRoot(cwd)
}

// collectConfigs gathers the configuration, either defaults or the full
// questionnaire.
func collectConfigs(cmd *cobra.Command, printer *output.Printer, quick bool) (*config.TeamConfig, *config.WorkflowConfig, error) {
	if quick {
		return config.QuickTeamDefaults(), config.QuickWorkflowDefaults(), nil
	}

	ask := newAsker(cmd.InOrStdin(), printer)
	answers := make([]string, 0, len(customizeQuestions))
	for _, q := range customizeQuestions {
		answer, err := ask.ask(q)
		if err != nil {
			return nil, nil, err
		}
		answers = append(answers, answer)
	}

	team := &config.TeamConfig{
		Team: config.TeamInfo{
			Name: answers[0],
			Size: answers[1],
		},
		Project: config.ProjectInfo{
			Type:      answers[2],
			Industry:  answers[3],
			TechStack: splitList(answers[4]),
		},
		Style: config.CodeStyle{
			Indentation:      answers[5],
			MaxLineLength:    mustAtoi(answers[6]),
			NamingConvention: answers[7],
		},
		Testing: config.Testing{
			Approach:       answers[8],
			CoverageTarget: mustAtoi(answers[9]),
		},
	}
	workflow := &config.WorkflowConfig{
		Workflow: config.Workflow{
			BranchingStrategy: answers[10],
			PRReviewPolicy:    answers[11],
			Environments:      splitList(answers[12]),
		},
	}
	return team, workflow, nil
}

// setupScript is the optional environment setup hook, versioned with the
// project rather than with steward.
const setupScript = "scripts/setup-environment.sh"

// runSetupScript invokes the project's setup script as a subprocess.
// Only environment flags cross the boundary; no structured data does.
func runSetupScript(cmd *cobra.Command, root string, quick bool, projectType string) error {
	script := filepath.Join(root, setupScript)
	if _, err := os.Stat(script); err != nil {
		if os.IsNotExist(err) {
			return output.NewUserError(setupScript + " not found in " + root)
		}
		return output.NewSystemErrorWithCause("checking setup script", err)
	}

	sub := exec.CommandContext(cmd.Context(), script)
	sub.Dir = root
	sub.Stdout = cmd.OutOrStdout()
	sub.Stderr = cmd.ErrOrStderr()
	sub.Env = append(os.Environ(),
		"STEWARD_QUICK="+boolEnv(quick),
		"STEWARD_PROJECT_TYPE="+projectType,
	)
	if err := sub.Run(); err != nil {
		return output.NewSystemErrorWithCause("setup script failed", err)
	}
	return nil
}

func boolEnv(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
