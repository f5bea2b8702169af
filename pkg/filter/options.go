package filter

import (
	"strings"
)

// IssueFilters contains the search options exposed by `jira-pm list`
type IssueFilters struct {
	IssueType string   `json:"issue_type,omitempty"`
	Status    string   `json:"status,omitempty"`
	Assignee  string   `json:"assignee,omitempty"`
	Reporter  string   `json:"reporter,omitempty"`
	Labels    []string `json:"labels,omitempty"`
	Text      string   `json:"text,omitempty"`
	JQL       string   `json:"jql,omitempty"`
	Limit     int      `json:"limit,omitempty"`
}

// NewIssueFilters creates a new IssueFilters with default values
func NewIssueFilters() *IssueFilters {
	return &IssueFilters{
		Limit: 50,
	}
}

// ToJQL builds the JQL query for these filters, scoped to the project.
// A raw JQL filter overrides everything else.
func (f *IssueFilters) ToJQL(projectKey string) string {
	if raw := strings.TrimSpace(f.JQL); raw != "" {
		return raw
	}

	var clauses []string
	if projectKey != "" {
		clauses = append(clauses, "project = "+quote(projectKey))
	}
	if f.IssueType != "" {
		clauses = append(clauses, "issuetype = "+quote(f.IssueType))
	}
	if f.Status != "" {
		clauses = append(clauses, "status = "+quote(f.Status))
	}
	if f.Assignee != "" {
		clauses = append(clauses, "assignee = "+quote(f.Assignee))
	}
	if f.Reporter != "" {
		clauses = append(clauses, "reporter = "+quote(f.Reporter))
	}
	for _, label := range f.Labels {
		if label = strings.TrimSpace(label); label != "" {
			clauses = append(clauses, "labels = "+quote(label))
		}
	}
	if f.Text != "" {
		clauses = append(clauses, "text ~ "+quote(f.Text))
	}

	jql := strings.Join(clauses, " AND ")
	if jql == "" {
		return "ORDER BY created DESC"
	}
	return jql + " ORDER BY created DESC"
}

// quote wraps a JQL value in double quotes, escaping embedded quotes
// and backslashes.
func quote(v string) string {
	escaped := strings.ReplaceAll(v, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
