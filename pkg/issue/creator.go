package issue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/yahsan2/jira-pm/pkg/jira"
	"github.com/yahsan2/jira-pm/pkg/retry"
)

// State tracks the connection lifecycle of a Creator.
type State int

const (
	// StateUnconnected is the initial state before Connect is called
	StateUnconnected State = iota
	// StateConnecting is the transient state while Connect runs
	StateConnecting
	// StateConnected is the terminal success state
	StateConnected
	// StateFailed is the terminal state after Connect exhausts its retries
	StateFailed
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateUnconnected:
		return "unconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// API is the slice of the Jira REST surface the creator uses.
type API interface {
	ServerInfo(ctx context.Context) (*jira.ServerInfo, error)
	Myself(ctx context.Context) (*jira.Myself, error)
	Project(ctx context.Context, key string) (*jira.Project, error)
	CreateIssue(ctx context.Context, fields map[string]interface{}) (*jira.CreatedIssue, error)
	Issue(ctx context.Context, key string) (*jira.Issue, error)
	Search(ctx context.Context, jql string, maxResults int) (*jira.SearchResponse, error)
}

// Creator handles issue creation against a single Jira project. It
// validates requests, runs calls through the retry policy, and maps
// failures onto the error taxonomy.
type Creator struct {
	creds  Credentials
	policy retry.Policy
	api    API
	logger *slog.Logger
	sleep  retry.Sleeper
	state  State
}

// Option customizes a Creator.
type Option func(*Creator)

// WithAPI replaces the default HTTP transport.
func WithAPI(api API) Option {
	return func(c *Creator) {
		c.api = api
	}
}

// WithSleeper replaces the retry wait function.
func WithSleeper(sleep retry.Sleeper) Option {
	return func(c *Creator) {
		c.sleep = sleep
	}
}

// NewCreator creates a new issue creator. It validates the credentials
// and retry policy up front; an invalid configuration never yields a
// usable client.
func NewCreator(creds Credentials, policy retry.Policy, logger *slog.Logger, opts ...Option) (*Creator, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if err := policy.Validate(); err != nil {
		return nil, NewConfigurationError(fmt.Sprintf("Invalid retry policy: %v", err), err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Creator{
		creds:  creds,
		policy: policy,
		api:    jira.NewClient(creds.BaseURL, creds.Email, creds.APIToken),
		logger: logger,
		sleep:  retry.Sleep,
		state:  StateUnconnected,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// State returns the current connection state.
func (c *Creator) State() State {
	return c.state
}

// ProjectKey returns the configured project key.
func (c *Creator) ProjectKey() string {
	return c.creds.ProjectKey
}

// Connect probes the Jira instance through the retry policy. On
// success the creator transitions to StateConnected; exhausting the
// policy leaves it in StateFailed with a connection error.
func (c *Creator) Connect(ctx context.Context) error {
	c.state = StateConnecting
	c.logger.Info("connecting to jira",
		"base_url", c.creds.BaseURL,
		"max_attempts", c.policy.Attempts())

	info, err := retry.DoWithSleep(ctx, c.policy, c.loggedSleep, func() (*jira.ServerInfo, error) {
		return c.api.ServerInfo(ctx)
	})
	if err != nil {
		c.state = StateFailed

		var terminal *retry.Error
		if errors.As(err, &terminal) {
			msg := fmt.Sprintf("Failed to connect to Jira after %d attempts: %v", terminal.Attempts, terminal.Err)
			c.logger.Error("connection failed", "attempts", terminal.Attempts, "error", terminal.Err)
			return NewConnectionError(msg, terminal.Err)
		}
		return NewConnectionError(fmt.Sprintf("Failed to connect to Jira: %v", err), err)
	}

	c.state = StateConnected
	c.logger.Info("connected to jira", "title", info.ServerTitle, "version", info.Version)
	return nil
}

// CreateIssue validates the request and submits it through the retry
// policy, returning the key assigned by Jira. Validation failures are
// returned immediately without any network call.
func (c *Creator) CreateIssue(ctx context.Context, req IssueRequest) (string, error) {
	if c.state != StateConnected {
		return "", NewConnectionError("Not connected to Jira: call Connect before creating issues", nil)
	}

	if err := req.Validate(); err != nil {
		return "", err
	}

	fields := req.ToCreateFields(c.creds.ProjectKey)
	c.logger.Info("creating issue",
		"project", c.creds.ProjectKey,
		"summary", truncate(req.Summary, 50))

	created, err := retry.DoWithSleep(ctx, c.policy, c.loggedSleep, func() (*jira.CreatedIssue, error) {
		return c.api.CreateIssue(ctx, fields)
	})
	if err != nil {
		var terminal *retry.Error
		if errors.As(err, &terminal) {
			msg := fmt.Sprintf("Failed to create Jira issue after %d attempts: %v", terminal.Attempts, terminal.Err)
			c.logger.Error("issue creation failed", "attempts", terminal.Attempts, "error", terminal.Err)
			return "", NewIssueCreationError(msg, terminal.Err)
		}
		return "", NewIssueCreationError(fmt.Sprintf("Failed to create Jira issue: %v", err), err)
	}

	c.logger.Info("created issue", "key", created.Key)
	return created.Key, nil
}

// TestConnection probes the authenticated user identity. It never
// returns an error; failures are logged and reported as false.
func (c *Creator) TestConnection(ctx context.Context) bool {
	me, err := c.api.Myself(ctx)
	if err != nil {
		c.logger.Error("connection test failed", "error", err)
		return false
	}

	c.logger.Info("connection test successful", "user", me.DisplayName)
	return true
}

// ProjectInfo fetches metadata for the configured project. It never
// returns an error; any failure yields nil.
func (c *Creator) ProjectInfo(ctx context.Context) *ProjectInfo {
	project, err := c.api.Project(ctx, c.creds.ProjectKey)
	if err != nil {
		c.logger.Error("failed to fetch project info",
			"project", c.creds.ProjectKey,
			"error", err)
		return nil
	}

	info := &ProjectInfo{
		Key:         project.Key,
		Name:        project.Name,
		Description: project.Description,
		Lead:        "No lead assigned",
	}
	if info.Description == "" {
		info.Description = "No description"
	}
	if project.Lead != nil && project.Lead.DisplayName != "" {
		info.Lead = project.Lead.DisplayName
	}

	return info
}

// GetIssue fetches a single issue by key.
func (c *Creator) GetIssue(ctx context.Context, key string) (*jira.Issue, error) {
	return c.api.Issue(ctx, key)
}

// SearchIssues runs a JQL query against the instance.
func (c *Creator) SearchIssues(ctx context.Context, jql string, limit int) (*jira.SearchResponse, error) {
	return c.api.Search(ctx, jql, limit)
}

// loggedSleep wraps the injected sleeper so every backoff wait is
// visible in the logs.
func (c *Creator) loggedSleep(ctx context.Context, d time.Duration) error {
	c.logger.Info("retrying", "delay", d)
	return c.sleep(ctx, d)
}
