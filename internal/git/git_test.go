package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lvalics/steward/internal/output"
)

// requireGit skips the test when git is not installed.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// initRepo creates a fresh git repository in a temp dir and chdirs into it.
func initRepo(t *testing.T) string {
	t.Helper()
	requireGit(t)

	dir := t.TempDir()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current dir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change to temp dir: %v", err)
	}
	for _, args := range [][]string{
		{"init"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test"},
	} {
		if out, err := exec.CommandContext(context.Background(), "git", args...).CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	return dir
}

func TestRun(t *testing.T) {
	requireGit(t)

	tests := []struct {
		name          string
		args          []string
		wantErr       bool
		checkExitCode int
	}{
		{
			name:    "git version succeeds",
			args:    []string{"version"},
			wantErr: false,
		},
		{
			name:          "invalid git command",
			args:          []string{"invalid-command-that-does-not-exist"},
			wantErr:       true,
			checkExitCode: output.ExitSystemError,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			out, runErr := Run(testCase.args...)
			if testCase.wantErr {
				if runErr == nil {
					t.Errorf("Run() expected error, got nil")
					return
				}
				var exitErr *output.ExitError
				if !errors.As(runErr, &exitErr) {
					t.Errorf("Run() error should be *output.ExitError, got %T", runErr)
					return
				}
				if exitErr.Code != testCase.checkExitCode {
					t.Errorf("Run() exit code = %d, want %d", exitErr.Code, testCase.checkExitCode)
				}
			} else {
				if runErr != nil {
					t.Errorf("Run() unexpected error: %v", runErr)
					return
				}
				if out == "" {
					t.Error("Run() expected non-empty output for 'git version'")
				}
			}
		})
	}
}

func TestIsRepo(t *testing.T) {
	t.Run("in git repo", func(t *testing.T) {
		initRepo(t)

		if !IsRepo() {
			t.Error("IsRepo() = false, expected true in git repo")
		}
	})

	t.Run("not in git repo", func(t *testing.T) {
		requireGit(t)

		tmpDir := t.TempDir()
		origDir, getWdErr := os.Getwd()
		if getWdErr != nil {
			t.Fatalf("failed to get current dir: %v", getWdErr)
		}
		defer func() { _ = os.Chdir(origDir) }()

		if chdirErr := os.Chdir(tmpDir); chdirErr != nil {
			t.Fatalf("failed to change to temp dir: %v", chdirErr)
		}

		if IsRepo() {
			t.Error("IsRepo() = true, expected false outside git repo")
		}
	})
}

func TestRepoRoot(t *testing.T) {
	dir := initRepo(t)

	root, rootErr := RepoRoot()
	if rootErr != nil {
		t.Fatalf("RepoRoot() unexpected error: %v", rootErr)
	}

	// macOS temp dirs are behind symlinks; compare resolved paths.
	wantResolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("EvalSymlinks(%q): %v", dir, err)
	}
	gotResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		t.Fatalf("EvalSymlinks(%q): %v", root, err)
	}
	if gotResolved != wantResolved {
		t.Errorf("RepoRoot() = %q, want %q", gotResolved, wantResolved)
	}
}

func TestRunIn(t *testing.T) {
	dir := initRepo(t)

	// Run from outside the repo by addressing it explicitly.
	other := t.TempDir()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current dir: %v", err)
	}
	defer func() { _ = os.Chdir(origDir) }()
	if err := os.Chdir(other); err != nil {
		t.Fatalf("failed to change dir: %v", err)
	}

	out, runErr := RunIn(context.Background(), dir, "rev-parse", "--is-inside-work-tree")
	if runErr != nil {
		t.Fatalf("RunIn() unexpected error: %v", runErr)
	}
	if out != "true" {
		t.Errorf("RunIn() = %q, want \"true\"", out)
	}
}

func TestClone(t *testing.T) {
	src := initRepo(t)

	// One commit so the clone has a branch tip.
	if err := os.WriteFile(filepath.Join(src, "README.md"), []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	for _, args := range [][]string{
		{"add", "README.md"},
		{"commit", "-m", "initial"},
	} {
		if out, err := exec.CommandContext(context.Background(), "git", args...).CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}

	dest := filepath.Join(t.TempDir(), "clone")
	if err := Clone(context.Background(), src, dest); err != nil {
		t.Fatalf("Clone() unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "README.md")); err != nil {
		t.Errorf("cloned file missing: %v", err)
	}
}

func TestHasUncommittedChanges(t *testing.T) {
	dir := initRepo(t)

	if HasUncommittedChanges() {
		t.Error("HasUncommittedChanges() = true in clean repo")
	}

	if err := os.WriteFile(filepath.Join(dir, "dirty.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if !HasUncommittedChanges() {
		t.Error("HasUncommittedChanges() = false with untracked file")
	}
}

func TestCurrentBranch(t *testing.T) {
	dir := initRepo(t)

	// rev-parse needs at least one commit to resolve HEAD.
	if err := os.WriteFile(filepath.Join(dir, "f.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	for _, args := range [][]string{
		{"add", "f.txt"},
		{"commit", "-m", "initial"},
	} {
		if out, err := exec.CommandContext(context.Background(), "git", args...).CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}

	branch, err := CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch() unexpected error: %v", err)
	}
	if strings.TrimSpace(branch) == "" {
		t.Error("CurrentBranch() returned empty name")
	}
}
