package issue

import (
	"fmt"
	"strings"
)

// DefaultIssueType is used when a request or batch entry does not name one.
const DefaultIssueType = "Story"

// Credentials identifies a Jira instance and the account used against
// it. Values are fixed at client construction.
type Credentials struct {
	BaseURL    string
	Email      string
	APIToken   string
	ProjectKey string
}

// requiredVars maps credential fields to the environment variables
// they are loaded from, in reporting order.
var requiredVars = []struct {
	name  string
	value func(Credentials) string
}{
	{"JIRA_BASE_URL", func(c Credentials) string { return c.BaseURL }},
	{"JIRA_EMAIL", func(c Credentials) string { return c.Email }},
	{"JIRA_API_TOKEN", func(c Credentials) string { return c.APIToken }},
	{"JIRA_PROJECT_KEY", func(c Credentials) string { return c.ProjectKey }},
}

// Validate checks that every credential is present, collecting all
// missing names into a single configuration error.
func (c Credentials) Validate() error {
	var missing []string
	for _, v := range requiredVars {
		if strings.TrimSpace(v.value(c)) == "" {
			missing = append(missing, v.name)
		}
	}

	if len(missing) > 0 {
		msg := fmt.Sprintf("Missing required environment variables: %s. Please ensure all Jira credentials are configured.",
			strings.Join(missing, ", "))
		return NewConfigurationError(msg, nil)
	}

	return nil
}

// IssueRequest represents the data needed to create an issue
type IssueRequest struct {
	Summary     string `yaml:"summary" json:"summary"`
	Description string `yaml:"description" json:"description"`
	IssueType   string `yaml:"issue_type" json:"issue_type"`
}

// Validate checks the request fields. Every rule is evaluated and all
// violations are joined into one validation error.
func (r IssueRequest) Validate() error {
	var errs []string

	summary := strings.TrimSpace(r.Summary)
	if summary == "" {
		errs = append(errs, "Summary cannot be empty")
	} else if len(summary) > 255 {
		errs = append(errs, "Summary cannot exceed 255 characters")
	}

	if strings.TrimSpace(r.Description) == "" {
		errs = append(errs, "Description cannot be empty")
	}

	if strings.TrimSpace(r.IssueType) == "" {
		errs = append(errs, "Issue type cannot be empty")
	}

	if len(errs) > 0 {
		return NewValidationError("Input validation failed: "+strings.Join(errs, "; "), nil)
	}

	return nil
}

// ToCreateFields converts the request to the REST v2 create-issue
// field shape for the given project.
func (r IssueRequest) ToCreateFields(projectKey string) map[string]interface{} {
	return map[string]interface{}{
		"project":     map[string]string{"key": projectKey},
		"summary":     strings.TrimSpace(r.Summary),
		"description": strings.TrimSpace(r.Description),
		"issuetype":   map[string]string{"name": strings.TrimSpace(r.IssueType)},
	}
}

// Story is a single raw batch entry as it appears in user story files.
type Story struct {
	UserStory    string `yaml:"user_story" json:"user_story"`
	Deliverables string `yaml:"deliverables" json:"deliverables"`
	IssueType    string `yaml:"issue_type" json:"issue_type,omitempty"`
}

// ToRequest maps the story onto an issue request, trimming fields and
// applying the default issue type when none is set.
func (s Story) ToRequest() IssueRequest {
	issueType := strings.TrimSpace(s.IssueType)
	if issueType == "" {
		issueType = DefaultIssueType
	}

	return IssueRequest{
		Summary:     strings.TrimSpace(s.UserStory),
		Description: strings.TrimSpace(s.Deliverables),
		IssueType:   issueType,
	}
}

// ProjectInfo is the subset of project metadata surfaced to users.
type ProjectInfo struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Lead        string `json:"lead"`
}

// truncate shortens s for log output.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
