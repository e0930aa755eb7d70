package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lvalics/steward/internal/output"
)

// TeamConfig is the team/project record written by 'steward customize'.
// Values are stored exactly as selected; no schema validation happens at
// load time (a schema exists only as documentation).
type TeamConfig struct {
	Team    TeamInfo    `yaml:"team"`
	Project ProjectInfo `yaml:"project"`
	Style   CodeStyle   `yaml:"code_style"`
	Testing Testing     `yaml:"testing"`
}

// TeamInfo holds team identity fields.
type TeamInfo struct {
	Name string `yaml:"name"`
	Size string `yaml:"size"`
}

// ProjectInfo holds project classification fields.
type ProjectInfo struct {
	Type      string   `yaml:"type"`
	Industry  string   `yaml:"industry"`
	TechStack []string `yaml:"tech_stack"`
}

// CodeStyle holds formatting and naming conventions.
type CodeStyle struct {
	Indentation      string `yaml:"indentation"`
	MaxLineLength    int    `yaml:"max_line_length"`
	NamingConvention string `yaml:"naming_convention"`
}

// Testing holds the test approach and coverage target.
type Testing struct {
	Approach       string `yaml:"approach"`
	CoverageTarget int    `yaml:"coverage_target"`
}

// QuickTeamDefaults returns the fixed record used by 'customize --quick'.
func QuickTeamDefaults() *TeamConfig {
	return &TeamConfig{
		Team: TeamInfo{
			Name: "My Team",
			Size: "Solo developer",
		},
		Project: ProjectInfo{
			Type:      "Web Application",
			Industry:  "General",
			TechStack: []string{"Node.js", "TypeScript"},
		},
		Style: CodeStyle{
			Indentation:      "spaces",
			MaxLineLength:    100,
			NamingConvention: "camelCase",
		},
		Testing: Testing{
			Approach:       "Test-after",
			CoverageTarget: 80,
		},
	}
}

// Save writes the team config to <root>/.claude/config/team-config.yaml,
// creating the config directory if needed.
func (c *TeamConfig) Save(root string) (string, error) {
	return saveYAML(root, TeamConfigFile, c)
}

// LoadTeamConfig reads the team config from the project config directory.
func LoadTeamConfig(root string) (*TeamConfig, error) {
	var cfg TeamConfig
	if err := loadYAML(root, TeamConfigFile, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// saveYAML marshals v and writes it under the project config directory.
func saveYAML(root, name string, v any) (string, error) {
	dir := filepath.Join(root, ProjectConfigDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", output.NewSystemErrorWithCause("creating config directory", err)
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return "", output.NewSystemErrorWithCause("encoding "+name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", output.NewSystemErrorWithCause("writing "+name, err)
	}
	return path, nil
}

// loadYAML reads a file from the project config directory into v.
func loadYAML(root, name string, v any) error {
	path := filepath.Join(root, ProjectConfigDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return output.NewUserError(fmt.Sprintf("%s not found. Run 'steward customize' first", name))
		}
		return output.NewSystemErrorWithCause("reading "+name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return output.NewSystemErrorWithCause("parsing "+name, err)
	}
	return nil
}
