package config

import (
	"os"
	"path/filepath"

	"github.com/lvalics/steward/internal/output"
)

// MarkerDir is the directory whose presence identifies a project root.
// Commands that write project configuration refuse to run without it.
const MarkerDir = ".claude"

// ProjectConfigDir is the directory under the project root where the
// customization files are written.
const ProjectConfigDir = ".claude/config"

// File names written by 'steward customize'.
const (
	TeamConfigFile     = "team-config.yaml"
	WorkflowConfigFile = "workflow-config.yaml"
	SummaryFile        = "customization-summary.md"
)

// FindProjectRoot walks up from dir looking for the marker directory.
// Returns the first directory containing it, or a user error if none of
// the ancestors qualify.
func FindProjectRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", output.NewSystemErrorWithCause("resolving directory", err)
	}

	for {
		info, statErr := os.Stat(filepath.Join(abs, MarkerDir))
		if statErr == nil && info.IsDir() {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", output.NewUserError(
				"not inside a recognized project: no " + MarkerDir + "/ directory found. " +
					"Run from a project root, or run 'steward init' first")
		}
		abs = parent
	}
}

// IsProjectRoot reports whether dir itself contains the marker directory.
func IsProjectRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, MarkerDir))
	return err == nil && info.IsDir()
}
