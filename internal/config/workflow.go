package config

// WorkflowConfig is the workflow record written by 'steward customize'.
type WorkflowConfig struct {
	Workflow Workflow `yaml:"workflow"`
}

// Workflow holds branching and review policy fields.
type Workflow struct {
	BranchingStrategy string   `yaml:"branching_strategy"`
	PRReviewPolicy    string   `yaml:"pr_review_policy"`
	Environments      []string `yaml:"environments"`
}

// QuickWorkflowDefaults returns the fixed record used by 'customize --quick'.
func QuickWorkflowDefaults() *WorkflowConfig {
	return &WorkflowConfig{
		Workflow: Workflow{
			BranchingStrategy: "GitHub Flow",
			PRReviewPolicy:    "Required",
			Environments:      []string{"development", "production"},
		},
	}
}

// Save writes the workflow config to <root>/.claude/config/workflow-config.yaml.
func (c *WorkflowConfig) Save(root string) (string, error) {
	return saveYAML(root, WorkflowConfigFile, c)
}

// LoadWorkflowConfig reads the workflow config from the project config directory.
func LoadWorkflowConfig(root string) (*WorkflowConfig, error) {
	var cfg WorkflowConfig
	if err := loadYAML(root, WorkflowConfigFile, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
