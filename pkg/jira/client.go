package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a thin HTTP client for the Jira REST API v2. It handles
// Basic authentication with an email and API token, JSON marshaling,
// and error-body decoding. Every call is a single attempt; callers
// own any retry policy.
type Client struct {
	baseURL    string
	email      string
	apiToken   string
	httpClient *http.Client
}

// NewClient creates a new Jira HTTP client. The baseURL should be the
// root URL of the Jira instance (e.g., https://example.atlassian.net).
func NewClient(baseURL, email, apiToken string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		email:    email,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the configured instance root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ServerInfo fetches general information about the Jira instance.
// It needs no permissions beyond valid credentials, which makes it
// the connection probe.
func (c *Client) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	var info ServerInfo
	if err := c.get(ctx, "/rest/api/2/serverInfo", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Myself fetches the identity of the authenticated user.
func (c *Client) Myself(ctx context.Context) (*Myself, error) {
	var me Myself
	if err := c.get(ctx, "/rest/api/2/myself", &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// Project fetches metadata for a single project by key.
func (c *Client) Project(ctx context.Context, key string) (*Project, error) {
	var project Project
	if err := c.get(ctx, "/rest/api/2/project/"+url.PathEscape(key), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Projects lists the projects visible to the authenticated user.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.get(ctx, "/rest/api/2/project", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateIssue submits a create-issue request. The fields map follows
// the REST v2 shape: project, summary, description, issuetype.
func (c *Client) CreateIssue(ctx context.Context, fields map[string]interface{}) (*CreatedIssue, error) {
	payload := map[string]interface{}{
		"fields": fields,
	}

	var created CreatedIssue
	if err := c.post(ctx, "/rest/api/2/issue", payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Issue fetches a single issue by key.
func (c *Client) Issue(ctx context.Context, key string) (*Issue, error) {
	var issue Issue
	if err := c.get(ctx, "/rest/api/2/issue/"+url.PathEscape(key), &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// Search runs a JQL query and returns up to maxResults issues.
func (c *Client) Search(ctx context.Context, jql string, maxResults int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("jql", jql)
	if maxResults > 0 {
		params.Set("maxResults", fmt.Sprintf("%d", maxResults))
	}

	var response SearchResponse
	if err := c.get(ctx, "/rest/api/2/search?"+params.Encode(), &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// post performs an HTTP POST request with a JSON body and unmarshals
// the JSON response.
func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// do builds the request, handles auth and JSON (de)serialization, and
// maps non-2xx responses to errors carrying Jira's error messages.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("authentication failed (401): check your email and API token for %s", c.baseURL)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var jiraErr ErrorResponse
		if json.Unmarshal(respBody, &jiraErr) == nil &&
			(len(jiraErr.ErrorMessages) > 0 || len(jiraErr.Errors) > 0) {
			return fmt.Errorf("jira API error (%d) on %s %s: %s %v",
				resp.StatusCode, method, path,
				strings.Join(jiraErr.ErrorMessages, "; "), jiraErr.Errors)
		}
		return fmt.Errorf("unexpected status %d on %s %s: %s",
			resp.StatusCode, method, path, string(respBody))
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}
