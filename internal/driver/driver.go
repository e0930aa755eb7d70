// Package driver implements the task automation loop: it polls the task
// directory tree, invokes the external AI tool per task with a bounded
// retry policy and stuck detection, and writes hand-off documents when it
// gives up.
//
// The driver is a single-threaded polling loop. It blocks on each tool
// invocation and sleeps a fixed delay between retries. Task state is
// re-derived from the filesystem each iteration; only the attempt counters
// and output hashes live in process memory.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lvalics/steward/internal/agent"
	"github.com/lvalics/steward/internal/detect"
	"github.com/lvalics/steward/internal/history"
	"github.com/lvalics/steward/internal/output"
	"github.com/lvalics/steward/internal/prompt"
	"github.com/lvalics/steward/internal/task"
)

// Default loop limits.
const (
	DefaultMaxIterations = 20
	DefaultMaxAttempts   = 3
	DefaultRetryDelay    = 10 * time.Second
)

// Options configures one driver run.
type Options struct {
	TasksDir   string
	LogsDir    string
	SessionDir string

	MaxIterations int
	MaxAttempts   int
	RetryDelay    time.Duration
}

// DefaultOptions returns driver options rooted at the current directory.
func DefaultOptions() Options {
	return Options{
		TasksDir:      "tasks",
		LogsDir:       "logs",
		SessionDir:    "sessions",
		MaxIterations: DefaultMaxIterations,
		MaxAttempts:   DefaultMaxAttempts,
		RetryDelay:    DefaultRetryDelay,
	}
}

// taskState is the in-memory per-task bookkeeping: attempt count and the
// digest of the last attempt's output. Reset when the process restarts.
type taskState struct {
	attempts   int
	lastHash   string
	lastOutput string
}

// Result summarizes a driver run.
type Result struct {
	Iterations int      `json:"iterations"`
	Completed  []string `json:"completed,omitempty"`
	Blocked    []string `json:"blocked,omitempty"`
	Halted     bool     `json:"halted"`
	HaltReason string   `json:"halt_reason,omitempty"`
	Handovers  []string `json:"handovers,omitempty"`
}

// Driver runs the automation loop.
type Driver struct {
	opts    Options
	runner  agent.Runner
	printer *output.Printer
	store   *history.Store // nil disables attempt history

	// Injection points for tests.
	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a driver. store may be nil.
func New(opts Options, runner agent.Runner, printer *output.Printer, store *history.Store) *Driver {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	return &Driver{
		opts:    opts,
		runner:  runner,
		printer: printer,
		store:   store,
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// Run executes the loop until no eligible task remains, the iteration
// ceiling is hit, or a rate limit halts processing.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	states := make(map[string]*taskState)
	result := &Result{}

	for iteration := 1; iteration <= d.opts.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return result, output.NewSystemErrorWithCause("run canceled", err)
		}
		result.Iterations = iteration

		tk, err := d.selectNext(states)
		if err != nil {
			return result, err
		}
		if tk == nil {
			break // nothing left to do
		}

		halted, err := d.processTask(ctx, tk, states[tk.ID], iteration, result)
		if err != nil {
			return result, err
		}
		if halted {
			result.Halted = true
			result.HaltReason = "rate limit"
			break
		}
	}

	return result, nil
}

// selectNext picks the first eligible task whose attempt counter is below
// the ceiling. Completed and blocked tasks are skipped; discovery order is
// by task ID.
func (d *Driver) selectNext(states map[string]*taskState) (*task.Task, error) {
	tasks, err := task.Discover(d.opts.TasksDir)
	if err != nil {
		return nil, err
	}

	for _, tk := range tasks {
		if !tk.Eligible() {
			continue
		}
		st, ok := states[tk.ID]
		if !ok {
			st = &taskState{}
			states[tk.ID] = st
		}
		if st.attempts >= d.opts.MaxAttempts {
			continue
		}
		return tk, nil
	}
	return nil, nil
}

// processTask runs one attempt against one task. Returns halted=true when
// a rate limit was detected and the whole run must stop.
func (d *Driver) processTask(ctx context.Context, tk *task.Task, st *taskState, iteration int, result *Result) (bool, error) {
	st.attempts++
	attempt := st.attempts

	d.printer.Stderr("[%d] %s: attempt %d/%d\n", iteration, tk.ID, attempt, d.opts.MaxAttempts)

	if err := tk.MarkInProgress(); err != nil {
		return false, err
	}
	_ = tk.WriteRecord(task.StateInProgress, attempt, d.now())

	promptText, err := d.buildPrompt(tk, attempt, st.lastOutput)
	if err != nil {
		return false, err
	}

	started := d.now()
	out, err := d.runner.Run(ctx, tk.Dir, promptText)
	if err != nil {
		tk.ClearInProgress()
		return false, err
	}

	logPath, err := d.writeLog(tk.ID, attempt, out)
	if err != nil {
		return false, err
	}

	return d.classify(tk, st, iteration, attempt, out, logPath, started, result)
}

// classify inspects the attempt output and applies the state transition.
func (d *Driver) classify(tk *task.Task, st *taskState, iteration, attempt int, out, logPath string, started time.Time, result *Result) (bool, error) {
	stuck := detect.LooksStuck(out, st.lastHash)
	hash := detect.HashOutput(out)
	st.lastHash = hash
	st.lastOutput = out

	record := func(outcome history.Outcome) {
		if d.store == nil {
			return
		}
		_ = d.store.Record(&history.Attempt{
			TaskID:      tk.ID,
			Attempt:     attempt,
			StartedAt:   started,
			CompletedAt: d.now(),
			Outcome:     outcome,
			OutputHash:  hash,
			LogPath:     logPath,
		})
	}

	// Completion marker left by the tool wins over everything else.
	if tk.CurrentState() == task.StateCompleted {
		tk.ClearInProgress()
		_ = tk.WriteRecord(task.StateCompleted, attempt, d.now())
		record(history.OutcomeCompleted)
		result.Completed = append(result.Completed, tk.ID)
		d.printer.Stderr("    completed\n")
		return false, nil
	}

	// Rate limit halts the entire run, not just this task.
	if detect.IsRateLimited(out) {
		tk.ClearInProgress()
		_ = tk.WriteRecord(task.StatePending, attempt, d.now())
		record(history.OutcomeRateLimited)
		path, err := d.writeHandover(tk, iteration, attempt, "external rate limit reported by the tool")
		if err != nil {
			return true, err
		}
		result.Handovers = append(result.Handovers, path)
		d.printer.Stderr("    rate limit detected, stopping\n")
		return true, nil
	}

	// Attempt ceiling reached without completion: block and move on.
	if attempt >= d.opts.MaxAttempts {
		if err := tk.MarkBlocked(); err != nil {
			return false, err
		}
		_ = tk.WriteRecord(task.StateBlocked, attempt, d.now())
		record(history.OutcomeBlocked)

		reason := "attempt ceiling reached without a completion marker"
		if stuck {
			reason = "stuck: repeated output with no sign of progress"
		}
		path, err := d.writeHandover(tk, iteration, attempt, reason)
		if err != nil {
			return false, err
		}
		result.Handovers = append(result.Handovers, path)
		result.Blocked = append(result.Blocked, tk.ID)
		d.printer.Stderr("    blocked: %s\n", reason)
		return false, nil
	}

	// Otherwise back to pending: wait, then the loop retries.
	tk.ClearInProgress()
	_ = tk.WriteRecord(task.StatePending, attempt, d.now())
	if stuck {
		record(history.OutcomeStuck)
		d.printer.Stderr("    stuck, retrying after delay\n")
	} else {
		record(history.OutcomeRetry)
		d.printer.Stderr("    not complete, retrying after delay\n")
	}
	d.sleep(d.opts.RetryDelay)
	return false, nil
}

// buildPrompt renders the attempt's prompt template with the task spec.
func (d *Driver) buildPrompt(tk *task.Task, attempt int, lastOutput string) (string, error) {
	spec, err := tk.ReadSpec()
	if err != nil {
		return "", err
	}

	tmpl, err := prompt.LoadTemplate(prompt.ForAttempt(attempt))
	if err != nil {
		return "", output.NewSystemErrorWithCause("loading prompt template", err)
	}

	return prompt.Render(tmpl, &prompt.RenderContext{
		TaskID:     tk.ID,
		SpecPath:   tk.SpecPath,
		Spec:       spec,
		Attempt:    attempt,
		LastOutput: lastOutput,
	}), nil
}

// writeLog stores the raw tool output for one attempt.
func (d *Driver) writeLog(taskID string, attempt int, out string) (string, error) {
	if err := os.MkdirAll(d.opts.LogsDir, 0o755); err != nil {
		return "", output.NewSystemErrorWithCause("creating logs directory", err)
	}

	name := fmt.Sprintf("%s_attempt%d_%s.log", taskID, attempt, d.now().Format("20060102-150405"))
	path := filepath.Join(d.opts.LogsDir, name)
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return "", output.NewSystemErrorWithCause("writing attempt log", err)
	}
	return path, nil
}
