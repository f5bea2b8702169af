package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yahsan2/jira-pm/pkg/config"
	"github.com/yahsan2/jira-pm/pkg/issue"
	"github.com/yahsan2/jira-pm/pkg/output"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a single Jira issue",
	Long: `Create a single Jira issue in the configured project.

This command will:
- Validate the summary, description, and issue type
- Connect to Jira with the configured retry policy
- Create the issue and print its key and browse URL`,
	Example: `  # Create an issue
  jira-pm create --summary "Fix login bug" --description "Steps to reproduce..."

  # Create with an explicit type
  jira-pm create -s "Add dark mode" -d "As a user, I want..." -t Task

  # Positional summary
  jira-pm create "Fix login bug" -d "Steps to reproduce..."

  # Print only the new issue key
  jira-pm create -s "Fix login bug" -d "..." --format quiet`,
	RunE: runCreate,
}

// Command flags
var (
	createSummary     string
	createDescription string
	createType        string
)

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVarP(&createSummary, "summary", "s", "", "Issue summary")
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "Issue description")
	createCmd.Flags().StringVarP(&createType, "type", "t", "", "Issue type (default from configuration, else Story)")
}

type CreateCommand struct {
	config    *config.Config
	creator   *issue.Creator
	formatter *output.Formatter
	baseURL   string
}

func runCreate(cmd *cobra.Command, args []string) error {
	// For convenience, positional arguments double as the summary when
	// --summary is not given.
	if len(args) > 0 && createSummary == "" {
		createSummary = strings.Join(args, " ")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	formatter, err := newFormatter()
	if err != nil {
		return err
	}

	creds := config.NewResolver(cfg).Credentials()
	creator, err := issue.NewCreator(creds, cfg.Retry.Policy(), logger)
	if err != nil {
		return err
	}

	command := &CreateCommand{
		config:    cfg,
		creator:   creator,
		formatter: formatter,
		baseURL:   creds.BaseURL,
	}

	return command.Execute(cmd.Context(), issue.IssueRequest{
		Summary:     createSummary,
		Description: createDescription,
		IssueType:   command.issueType(),
	})
}

func (c *CreateCommand) Execute(ctx context.Context, req issue.IssueRequest) error {
	// Validate before connecting so a bad request never costs a network
	// round trip.
	if err := req.Validate(); err != nil {
		return err
	}

	if err := c.creator.Connect(ctx); err != nil {
		return err
	}

	key, err := c.creator.CreateIssue(ctx, req)
	if err != nil {
		return err
	}

	return c.formatter.FormatCreated(output.CreatedIssue{
		Key:     key,
		Summary: strings.TrimSpace(req.Summary),
		URL:     output.BrowseURL(c.baseURL, key),
	})
}

// issueType resolves the issue type from the flag, then the configured
// default, then the built-in default.
func (c *CreateCommand) issueType() string {
	if createType != "" {
		return createType
	}
	if c.config.Defaults.IssueType != "" {
		return c.config.Defaults.IssueType
	}
	return issue.DefaultIssueType
}
