package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yahsan2/jira-pm/pkg/config"
)

func TestCreateCommandIssueType(t *testing.T) {
	tests := []struct {
		name       string
		flagValue  string
		configType string
		expected   string
	}{
		{
			name:       "flag wins over config default",
			flagValue:  "Bug",
			configType: "Task",
			expected:   "Bug",
		},
		{
			name:       "config default when no flag",
			flagValue:  "",
			configType: "Task",
			expected:   "Task",
		},
		{
			name:       "built-in default when nothing set",
			flagValue:  "",
			configType: "",
			expected:   "Story",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := createType
			defer func() { createType = orig }()
			createType = tt.flagValue

			command := &CreateCommand{
				config: &config.Config{
					Defaults: config.DefaultsConfig{IssueType: tt.configType},
				},
			}

			assert.Equal(t, tt.expected, command.issueType())
		})
	}
}
