// Package main provides the entry point for the steward CLI.
package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lvalics/steward/internal/config"
	"github.com/lvalics/steward/internal/git"
	"github.com/lvalics/steward/internal/output"
)

// defaultFrameworkRepo is the development-framework repository cloned into
// new projects.
const defaultFrameworkRepo = "https://github.com/lvalics/claude-code-stuffs"

// initFlags holds the command-line flags for the init command.
type initFlags struct {
	boilerplate string
	framework   string
	skipSetup   bool
}

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init <dir>",
		Short: "Scaffold a new project from boilerplate",
		Long: `Scaffold a new project directory.

Clones an optional boilerplate repository into the target directory,
clones the development framework into <dir>/.claude/framework, and runs
the project's setup script when present.

Examples:
  steward init myapp
  steward init myapp --boilerplate https://github.com/org/starter
  steward init myapp --skip-setup`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.boilerplate, "boilerplate", "", "Boilerplate repository to clone as the project base")
	cmd.Flags().StringVar(&flags.framework, "framework", defaultFrameworkRepo, "Framework repository to clone into .claude/framework")
	cmd.Flags().BoolVar(&flags.skipSetup, "skip-setup", false, "Do not run the setup script after cloning")

	return cmd
}

// runInit executes the init command.
func runInit(cmd *cobra.Command, dir string, flags *initFlags) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))
	ctx := cmd.Context()

	if _, err := os.Stat(dir); err == nil {
		err := output.NewUserError("directory already exists: " + dir)
		printer.Error(err)
		return err
	}

	steps := []string{}

	if flags.boilerplate != "" {
		printer.Stderr("Cloning boilerplate %s...\n", flags.boilerplate)
		if err := git.Clone(ctx, flags.boilerplate, dir); err != nil {
			printer.Error(err)
			return err
		}
		// The project gets its own history, not the boilerplate's.
		if err := os.RemoveAll(filepath.Join(dir, ".git")); err != nil {
			err := output.NewSystemErrorWithCause("detaching boilerplate history", err)
			printer.Error(err)
			return err
		}
		steps = append(steps, "boilerplate")
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			err := output.NewSystemErrorWithCause("creating project directory", err)
			printer.Error(err)
			return err
		}
	}

	// Marker directory makes the result a steward project root.
	if err := os.MkdirAll(filepath.Join(dir, config.MarkerDir), 0o755); err != nil {
		err := output.NewSystemErrorWithCause("creating marker directory", err)
		printer.Error(err)
		return err
	}

	if flags.framework != "" {
		frameworkDir := filepath.Join(dir, config.MarkerDir, "framework")
		printer.Stderr("Cloning framework %s...\n", flags.framework)
		if err := git.Clone(ctx, flags.framework, frameworkDir); err != nil {
			printer.Error(err)
			return err
		}
		steps = append(steps, "framework")
	}

	if !flags.skipSetup {
		script := filepath.Join(dir, setupScript)
		if _, err := os.Stat(script); err == nil {
			printer.Stderr("Running %s...\n", setupScript)
			sub := exec.CommandContext(ctx, script)
			sub.Dir = dir
			sub.Stdout = cmd.OutOrStdout()
			sub.Stderr = cmd.ErrOrStderr()
			if err := sub.Run(); err != nil {
				err := output.NewSystemErrorWithCause("setup script failed", err)
				printer.Error(err)
				return err
			}
			steps = append(steps, "setup")
		}
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"dir":   dir,
			"steps": steps,
		})
	}

	printer.Println()
	printer.Section("Project created")
	printer.KeyValue("Directory", dir)
	printer.Println()
	printer.Println("Next: cd " + dir + " && steward customize")
	return nil
}
