// Package agent wraps the external AI CLI tool the driver delegates work
// to. The tool is a black box: it receives a constructed prompt and its
// free-text output is the only feedback channel.
package agent

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"

	"github.com/lvalics/steward/internal/output"
)

// Binary is the external tool invoked per task.
const Binary = "claude"

// Runner executes the external tool once against a working directory and
// returns its combined stdout/stderr text. Implementations block until the
// tool exits; there is no per-invocation timeout.
type Runner interface {
	Run(ctx context.Context, workdir, prompt string) (string, error)
}

// ClaudeRunner invokes the claude CLI in non-interactive print mode.
type ClaudeRunner struct {
	// MaxTurns caps agent turns per invocation. Zero means no cap flag.
	MaxTurns int
	// SkipPermissions passes --dangerously-skip-permissions for unattended
	// runs.
	SkipPermissions bool
}

// NewRunner returns a ClaudeRunner configured for unattended driving.
func NewRunner() *ClaudeRunner {
	return &ClaudeRunner{
		MaxTurns:        25,
		SkipPermissions: true,
	}
}

// Run invokes the tool and returns its combined output. A non-zero exit
// with output is not an error: the driver classifies the text itself.
func (r *ClaudeRunner) Run(ctx context.Context, workdir, prompt string) (string, error) {
	cmd := exec.CommandContext(ctx, Binary, r.buildArgs(prompt)...)
	cmd.Dir = workdir

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Tool ran and failed; its output still carries the signal.
			return buf.String(), nil
		}
		return "", output.NewSystemErrorWithCause("failed to run "+Binary, err)
	}

	return buf.String(), nil
}

// buildArgs constructs the CLI arguments for one invocation.
func (r *ClaudeRunner) buildArgs(prompt string) []string {
	args := []string{"-p", prompt}
	if r.SkipPermissions {
		args = append(args, "--dangerously-skip-permissions")
	}
	if r.MaxTurns > 0 {
		args = append(args, "--max-turns", strconv.Itoa(r.MaxTurns))
	}
	return args
}

// CheckInstalled verifies the external tool is on PATH.
func CheckInstalled() error {
	if _, err := exec.LookPath(Binary); err != nil {
		return output.NewUserError(Binary + " CLI not found in PATH. Install Claude Code first")
	}
	return nil
}
