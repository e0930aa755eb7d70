package agent

import (
	"strings"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name   string
		runner ClaudeRunner
		want   []string
	}{
		{
			name:   "defaults",
			runner: ClaudeRunner{MaxTurns: 25, SkipPermissions: true},
			want:   []string{"-p", "do it", "--dangerously-skip-permissions", "--max-turns", "25"},
		},
		{
			name:   "no cap no skip",
			runner: ClaudeRunner{},
			want:   []string{"-p", "do it"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.runner.buildArgs("do it")
			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Errorf("buildArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}
