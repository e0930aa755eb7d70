package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lvalics/steward/internal/config"
	"github.com/lvalics/steward/internal/output"
)

// makeProjectRoot creates a directory with the .claude marker.
func makeProjectRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, config.MarkerDir), 0o755); err != nil {
		t.Fatalf("mkdir marker: %v", err)
	}
	return root
}

// execCustomize runs the customize command with scripted stdin.
func execCustomize(t *testing.T, root, stdin string, extraArgs ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"customize", "--root", root}, extraArgs...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestCustomize_InteractiveWritesLiteralValues(t *testing.T) {
	root := makeProjectRoot(t)

	// One answer per question, in the fixed order. Enumerated questions
	// take the 1-based number.
	answers := strings.Join([]string{
		"Acme",           // team name
		"2",              // Small team (2-5)
		"1",              // Web Application
		"Fintech",        // industry
		"Go, PostgreSQL", // tech stack
		"1",              // spaces
		"120",            // max line length
		"2",              // snake_case
		"1",              // TDD
		"90",             // coverage target
		"1",              // GitHub Flow
		"1",              // Required
		"staging, production",
	}, "\n") + "\n"

	if _, err := execCustomize(t, root, answers); err != nil {
		t.Fatalf("customize failed: %v", err)
	}

	teamYAML, err := os.ReadFile(filepath.Join(root, config.ProjectConfigDir, config.TeamConfigFile))
	if err != nil {
		t.Fatalf("team config not written: %v", err)
	}
	for _, want := range []string{
		"name: Acme",
		"size: Small team (2-5)",
		"type: Web Application",
		"industry: Fintech",
		"- Go",
		"- PostgreSQL",
		"indentation: spaces",
		"max_line_length: 120",
		"naming_convention: snake_case",
		"approach: TDD",
		"coverage_target: 90",
	} {
		if !strings.Contains(string(teamYAML), want) {
			t.Errorf("team config missing %q:\n%s", want, teamYAML)
		}
	}

	workflowYAML, err := os.ReadFile(filepath.Join(root, config.ProjectConfigDir, config.WorkflowConfigFile))
	if err != nil {
		t.Fatalf("workflow config not written: %v", err)
	}
	for _, want := range []string{
		"branching_strategy: GitHub Flow",
		"pr_review_policy: Required",
		"- staging",
		"- production",
	} {
		if !strings.Contains(string(workflowYAML), want) {
			t.Errorf("workflow config missing %q:\n%s", want, workflowYAML)
		}
	}

	if _, err := os.Stat(filepath.Join(root, config.ProjectConfigDir, config.SummaryFile)); err != nil {
		t.Errorf("summary not written: %v", err)
	}
}

func TestCustomize_QuickSkipsPrompts(t *testing.T) {
	root := makeProjectRoot(t)

	// No stdin at all: --quick must not prompt.
	out, err := execCustomize(t, root, "", "--quick")
	if err != nil {
		t.Fatalf("customize --quick failed: %v\noutput: %s", err, out)
	}

	teamYAML, err := os.ReadFile(filepath.Join(root, config.ProjectConfigDir, config.TeamConfigFile))
	if err != nil {
		t.Fatalf("team config not written: %v", err)
	}
	if !strings.Contains(string(teamYAML), "size: Solo developer") {
		t.Errorf("quick defaults missing solo developer:\n%s", teamYAML)
	}
	if strings.Contains(out, "Team size") {
		t.Errorf("--quick should not prompt:\n%s", out)
	}
}

func TestCustomize_InvalidSelectionReprompts(t *testing.T) {
	root := makeProjectRoot(t)

	// Bad selections for team size before a valid one.
	answers := strings.Join([]string{
		"Acme",
		"9", "zzz", "1", // invalid, invalid, then Solo developer
		"1",
		"General",
		"Go",
		"1",
		"100",
		"1",
		"2",
		"80",
		"1",
		"1",
		"development",
	}, "\n") + "\n"

	if _, err := execCustomize(t, root, answers); err != nil {
		t.Fatalf("customize failed: %v", err)
	}

	teamYAML, err := os.ReadFile(filepath.Join(root, config.ProjectConfigDir, config.TeamConfigFile))
	if err != nil {
		t.Fatalf("team config not written: %v", err)
	}
	if !strings.Contains(string(teamYAML), "size: Solo developer") {
		t.Errorf("re-prompt did not land on valid choice:\n%s", teamYAML)
	}
}

func TestCustomize_OutsideProjectRoot(t *testing.T) {
	bare := t.TempDir() // no .claude marker

	_, err := execCustomize(t, bare, "", "--quick")
	if err == nil {
		t.Fatal("customize should fail outside a project root")
	}
	var exitErr *output.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error should be *output.ExitError, got %T", err)
	}
	if exitErr.Code != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", exitErr.Code, output.ExitUserError)
	}
}

func TestCustomize_CancelViaEOF(t *testing.T) {
	root := makeProjectRoot(t)

	// Stdin ends before the questionnaire does.
	_, err := execCustomize(t, root, "Acme\n")
	if err == nil {
		t.Fatal("customize should fail when input ends early")
	}
	if _, statErr := os.Stat(filepath.Join(root, config.ProjectConfigDir, config.TeamConfigFile)); statErr == nil {
		t.Error("no config should be written after cancel")
	}
}

func TestResolveChoice(t *testing.T) {
	choices := []string{"spaces", "tabs"}

	tests := []struct {
		answer string
		want   string
		ok     bool
	}{
		{"1", "spaces", true},
		{"2", "tabs", true},
		{"3", "", false},
		{"0", "", false},
		{"tabs", "tabs", true},
		{"TABS", "tabs", true},
		{"nope", "", false},
	}
	for _, testCase := range tests {
		got, ok := resolveChoice(choices, testCase.answer)
		if got != testCase.want || ok != testCase.ok {
			t.Errorf("resolveChoice(%q) = %q/%v, want %q/%v",
				testCase.answer, got, ok, testCase.want, testCase.ok)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" Go , PostgreSQL ,, Redis ")
	want := []string{"Go", "PostgreSQL", "Redis"}
	if len(got) != len(want) {
		t.Fatalf("splitList() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitList()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
