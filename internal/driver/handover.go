package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lvalics/steward/internal/output"
	"github.com/lvalics/steward/internal/prompt"
	"github.com/lvalics/steward/internal/task"
)

// writeHandover renders and writes the hand-off document for a task the
// driver is giving up on. Returns the document path.
func (d *Driver) writeHandover(tk *task.Task, iteration, attempt int, reason string) (string, error) {
	if err := os.MkdirAll(d.opts.SessionDir, 0o755); err != nil {
		return "", output.NewSystemErrorWithCause("creating session directory", err)
	}

	tmpl, err := prompt.LoadTemplate(prompt.TemplateHandover)
	if err != nil {
		return "", output.NewSystemErrorWithCause("loading handover template", err)
	}

	now := d.now()
	content := prompt.Render(tmpl, &prompt.RenderContext{
		TaskID:    tk.ID,
		Attempt:   attempt,
		Iteration: iteration,
		Reason:    reason,
		Timestamp: now.Format(time.RFC3339),
		ResumeCmd: fmt.Sprintf("steward run --tasks-dir %s", d.opts.TasksDir),
	})

	name := fmt.Sprintf("handover_%s_%s.md", tk.ID, now.Format("20060102-150405"))
	path := filepath.Join(d.opts.SessionDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", output.NewSystemErrorWithCause("writing handover document", err)
	}
	return path, nil
}
