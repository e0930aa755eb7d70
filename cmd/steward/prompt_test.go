package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestPromptList_ShowsBuiltins(t *testing.T) {
	out, err := execRoot(t, "prompt", "list")
	if err != nil {
		t.Fatalf("prompt list failed: %v", err)
	}

	for _, want := range []string{"task", "retry-focus", "retry-reset", "handover", "built-in"} {
		if !strings.Contains(out, want) {
			t.Errorf("prompt list missing %q:\n%s", want, out)
		}
	}
}

func TestPromptShow_Builtin(t *testing.T) {
	out, err := execRoot(t, "prompt", "show", "retry-focus")
	if err != nil {
		t.Fatalf("prompt show failed: %v", err)
	}
	if !strings.Contains(out, "retry-focus") {
		t.Errorf("prompt show missing template name:\n%s", out)
	}
	if !strings.Contains(out, "{{task_id}}") {
		t.Errorf("prompt show should print the raw template:\n%s", out)
	}
}

func TestPromptShow_Unknown(t *testing.T) {
	_, err := execRoot(t, "prompt", "show", "no-such-template")
	if err == nil {
		t.Fatal("prompt show should fail for unknown template")
	}
}

func TestPromptRender_SubstitutesVars(t *testing.T) {
	specFile := filepath.Join(t.TempDir(), "spec.md")
	if err := os.WriteFile(specFile, []byte("# Build the widget\n"), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}

	out, err := execRoot(t, "prompt", "render", "task",
		"--task-id", "task-042", "--spec-file", specFile)
	if err != nil {
		t.Fatalf("prompt render failed: %v", err)
	}

	if !strings.Contains(out, "task-042") {
		t.Errorf("rendered output missing task ID:\n%s", out)
	}
	if !strings.Contains(out, "Build the widget") {
		t.Errorf("rendered output missing spec content:\n%s", out)
	}
	if strings.Contains(out, "{{task_id}}") {
		t.Errorf("rendered output still has placeholders:\n%s", out)
	}
}
