package prompt

import (
	"strconv"
	"strings"
)

// RenderContext holds the variables available to templates.
type RenderContext struct {
	TaskID     string
	SpecPath   string
	Spec       string
	Attempt    int
	LastOutput string

	// Hand-off fields
	Reason    string
	Iteration int
	Timestamp string
	ResumeCmd string

	// AppendText is extra instructions appended verbatim.
	AppendText string
}

// Render substitutes {{var}} placeholders in the template content.
// Unknown placeholders are left untouched.
func Render(tmpl *Template, ctx *RenderContext) string {
	vars := buildVars(ctx)

	result := tmpl.Content
	for key, val := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", val)
	}

	if ctx.AppendText != "" {
		result = result + "\n\n## Additional Instructions\n\n" + ctx.AppendText
	}

	return result
}

// buildVars creates the variable map for substitution.
func buildVars(ctx *RenderContext) map[string]string {
	return map[string]string{
		"task_id":     ctx.TaskID,
		"spec_path":   ctx.SpecPath,
		"spec":        ctx.Spec,
		"attempt":     strconv.Itoa(ctx.Attempt),
		"last_output": summarizeOutput(ctx.LastOutput),
		"reason":      ctx.Reason,
		"iteration":   strconv.Itoa(ctx.Iteration),
		"timestamp":   ctx.Timestamp,
		"resume_cmd":  ctx.ResumeCmd,
	}
}

// outputSummaryLimit bounds how much of the previous attempt's output is
// fed back into a retry prompt.
const outputSummaryLimit = 2000

// summarizeOutput truncates long tool output to its tail, where the
// conclusion usually is.
func summarizeOutput(out string) string {
	out = strings.TrimSpace(out)
	if len(out) <= outputSummaryLimit {
		return out
	}
	return "[...truncated...]\n" + out[len(out)-outputSummaryLimit:]
}
