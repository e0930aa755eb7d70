// Package main provides the entry point for the steward CLI.
package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lvalics/steward/internal/output"
	"github.com/lvalics/steward/internal/prompt"
)

// newPromptCmd creates the prompt command group.
func newPromptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Inspect the prompt templates the driver uses",
		Long: `Inspect and render the prompt templates the driver sends to the
external AI tool.

Templates resolve project-local (.claude/templates/) over global
(~/.config/steward/templates/) over the embedded builtins. Override a
builtin by placing a file with the same name in either location.

Examples:
  steward prompt list
  steward prompt show retry-focus
  steward prompt render task --spec-file tasks/task-001/task-001-specs.md`,
	}

	cmd.AddCommand(newPromptListCmd())
	cmd.AddCommand(newPromptShowCmd())
	cmd.AddCommand(newPromptRenderCmd())
	return cmd
}

// newPromptListCmd creates the prompt list subcommand.
func newPromptListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

			templates, err := prompt.ListTemplates()
			if err != nil {
				printer.Error(err)
				return err
			}

			if printer.IsJSON() {
				return printer.Success(map[string]any{"templates": templates})
			}

			rows := make([][]string, 0, len(templates))
			for _, info := range templates {
				note := info.Source
				if info.Overrides != "" {
					note += " (overrides " + info.Overrides + ")"
				}
				rows = append(rows, []string{info.Name, note, info.Description})
			}
			printer.Table([]string{"NAME", "SOURCE", "DESCRIPTION"}, rows)
			return nil
		},
	}
}

// newPromptShowCmd creates the prompt show subcommand.
func newPromptShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a template's raw content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

			tmpl, err := prompt.LoadTemplate(args[0])
			if err != nil {
				printer.Error(err)
				return err
			}

			if printer.IsJSON() {
				return printer.Success(map[string]any{
					"name":        tmpl.Name,
					"description": tmpl.Description,
					"source":      tmpl.Source,
					"content":     tmpl.Content,
				})
			}

			printer.KeyValue("Name", tmpl.Name)
			printer.KeyValue("Source", tmpl.Source)
			printer.KeyValue("Description", tmpl.Description)
			printer.Println()
			printer.Println(tmpl.Content)
			return nil
		},
	}
}

// promptRenderFlags holds the command-line flags for prompt render.
type promptRenderFlags struct {
	taskID   string
	specFile string
	attempt  int
}

// newPromptRenderCmd creates the prompt render subcommand.
func newPromptRenderCmd() *cobra.Command {
	flags := &promptRenderFlags{}

	cmd := &cobra.Command{
		Use:   "render <name>",
		Short: "Render a template with sample or real task data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

			tmpl, err := prompt.LoadTemplate(args[0])
			if err != nil {
				printer.Error(err)
				return err
			}

			ctx := &prompt.RenderContext{
				TaskID:    flags.taskID,
				Attempt:   flags.attempt,
				Timestamp: time.Now().Format(time.RFC3339),
			}
			if flags.specFile != "" {
				data, readErr := os.ReadFile(flags.specFile)
				if readErr != nil {
					err := output.NewUserError("reading spec file: " + readErr.Error())
					printer.Error(err)
					return err
				}
				ctx.SpecPath = flags.specFile
				ctx.Spec = string(data)
			}

			rendered := prompt.Render(tmpl, ctx)
			if printer.IsJSON() {
				return printer.Success(map[string]any{
					"name":     tmpl.Name,
					"rendered": rendered,
				})
			}
			printer.Println(rendered)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.taskID, "task-id", "task-001", "Task ID substituted into the template")
	cmd.Flags().StringVar(&flags.specFile, "spec-file", "", "Spec file whose content fills the template")
	cmd.Flags().IntVar(&flags.attempt, "attempt", 1, "Attempt number substituted into the template")

	return cmd
}
