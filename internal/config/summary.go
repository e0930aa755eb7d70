package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lvalics/steward/internal/output"
)

// FormatSummary renders the customization summary markdown from both
// config records.
func FormatSummary(team *TeamConfig, workflow *WorkflowConfig, now time.Time) string {
	var builder strings.Builder

	builder.WriteString("# Customization Summary\n\n")
	fmt.Fprintf(&builder, "Generated: %s\n\n", now.Format("2006-01-02 15:04"))

	builder.WriteString("## Team\n\n")
	fmt.Fprintf(&builder, "- Name: %s\n", team.Team.Name)
	fmt.Fprintf(&builder, "- Size: %s\n\n", team.Team.Size)

	builder.WriteString("## Project\n\n")
	fmt.Fprintf(&builder, "- Type: %s\n", team.Project.Type)
	fmt.Fprintf(&builder, "- Industry: %s\n", team.Project.Industry)
	fmt.Fprintf(&builder, "- Tech stack: %s\n\n", strings.Join(team.Project.TechStack, ", "))

	builder.WriteString("## Code Style\n\n")
	fmt.Fprintf(&builder, "- Indentation: %s\n", team.Style.Indentation)
	fmt.Fprintf(&builder, "- Max line length: %d\n", team.Style.MaxLineLength)
	fmt.Fprintf(&builder, "- Naming convention: %s\n\n", team.Style.NamingConvention)

	builder.WriteString("## Testing\n\n")
	fmt.Fprintf(&builder, "- Approach: %s\n", team.Testing.Approach)
	fmt.Fprintf(&builder, "- Coverage target: %d%%\n\n", team.Testing.CoverageTarget)

	builder.WriteString("## Workflow\n\n")
	fmt.Fprintf(&builder, "- Branching strategy: %s\n", workflow.Workflow.BranchingStrategy)
	fmt.Fprintf(&builder, "- PR review policy: %s\n", workflow.Workflow.PRReviewPolicy)
	fmt.Fprintf(&builder, "- Environments: %s\n", strings.Join(workflow.Workflow.Environments, ", "))

	return builder.String()
}

// WriteSummary renders and writes customization-summary.md to the project
// config directory.
func WriteSummary(root string, team *TeamConfig, workflow *WorkflowConfig, now time.Time) (string, error) {
	dir := filepath.Join(root, ProjectConfigDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", output.NewSystemErrorWithCause("creating config directory", err)
	}

	path := filepath.Join(dir, SummaryFile)
	content := FormatSummary(team, workflow, now)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", output.NewSystemErrorWithCause("writing "+SummaryFile, err)
	}
	return path, nil
}
