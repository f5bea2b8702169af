package jira

// ServerInfo is the response from GET /rest/api/2/serverInfo.
type ServerInfo struct {
	BaseURL        string `json:"baseUrl"`
	Version        string `json:"version"`
	DeploymentType string `json:"deploymentType"`
	ServerTitle    string `json:"serverTitle"`
}

// Myself is the response from GET /rest/api/2/myself.
type Myself struct {
	AccountID    string `json:"accountId,omitempty"`
	Key          string `json:"key,omitempty"`
	Name         string `json:"name,omitempty"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	Active       bool   `json:"active"`
}

// User represents a Jira user reference embedded in other resources.
type User struct {
	AccountID    string `json:"accountId,omitempty"`
	Key          string `json:"key,omitempty"`
	Name         string `json:"name,omitempty"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// Project is the response from GET /rest/api/2/project/{key}.
type Project struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Lead        *User  `json:"lead,omitempty"`
	Self        string `json:"self,omitempty"`
}

// IssueType represents the type of a Jira issue (Bug, Story, etc.).
type IssueType struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Status represents the workflow status of a Jira issue.
type Status struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// IssueFields contains the standard fields of a Jira issue.
type IssueFields struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	IssueType   IssueType `json:"issuetype"`
	Status      *Status   `json:"status,omitempty"`
	Project     *Project  `json:"project,omitempty"`
	Reporter    *User     `json:"reporter,omitempty"`
	Assignee    *User     `json:"assignee,omitempty"`
	Created     string    `json:"created,omitempty"`
	Updated     string    `json:"updated,omitempty"`
	Labels      []string  `json:"labels,omitempty"`
}

// Issue represents a single Jira issue from the REST API.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self"`
	Fields IssueFields `json:"fields"`
}

// CreatedIssue is the response from POST /rest/api/2/issue.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// SearchResponse is the response from GET /rest/api/2/search.
type SearchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// ErrorResponse is the standard Jira error response format.
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}
