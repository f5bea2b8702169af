package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIssueFilters(t *testing.T) {
	filters := NewIssueFilters()

	assert.Equal(t, 50, filters.Limit)
	assert.Empty(t, filters.IssueType)
	assert.Empty(t, filters.Status)
	assert.Empty(t, filters.JQL)
}

func TestToJQL(t *testing.T) {
	tests := []struct {
		name       string
		filters    IssueFilters
		projectKey string
		want       string
	}{
		{
			name:       "project only",
			filters:    IssueFilters{},
			projectKey: "PROJ",
			want:       `project = "PROJ" ORDER BY created DESC`,
		},
		{
			name:       "type and status",
			filters:    IssueFilters{IssueType: "Bug", Status: "In Progress"},
			projectKey: "PROJ",
			want:       `project = "PROJ" AND issuetype = "Bug" AND status = "In Progress" ORDER BY created DESC`,
		},
		{
			name:       "labels and text",
			filters:    IssueFilters{Labels: []string{"backend", "urgent"}, Text: "timeout"},
			projectKey: "PROJ",
			want:       `project = "PROJ" AND labels = "backend" AND labels = "urgent" AND text ~ "timeout" ORDER BY created DESC`,
		},
		{
			name:       "assignee and reporter",
			filters:    IssueFilters{Assignee: "dev@example.com", Reporter: "lead@example.com"},
			projectKey: "PROJ",
			want:       `project = "PROJ" AND assignee = "dev@example.com" AND reporter = "lead@example.com" ORDER BY created DESC`,
		},
		{
			name:       "raw JQL wins",
			filters:    IssueFilters{JQL: "project = OTHER AND status = Done", Status: "ignored"},
			projectKey: "PROJ",
			want:       "project = OTHER AND status = Done",
		},
		{
			name:       "quotes are escaped",
			filters:    IssueFilters{Text: `say "hello"`},
			projectKey: "PROJ",
			want:       `project = "PROJ" AND text ~ "say \"hello\"" ORDER BY created DESC`,
		},
		{
			name:       "no project and no filters",
			filters:    IssueFilters{},
			projectKey: "",
			want:       "ORDER BY created DESC",
		},
		{
			name:       "blank labels are dropped",
			filters:    IssueFilters{Labels: []string{"  ", "real"}},
			projectKey: "PROJ",
			want:       `project = "PROJ" AND labels = "real" ORDER BY created DESC`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filters.ToJQL(tt.projectKey))
		})
	}
}
