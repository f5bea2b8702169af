package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yahsan2/jira-pm/pkg/args"
	"github.com/yahsan2/jira-pm/pkg/config"
	"github.com/yahsan2/jira-pm/pkg/issue"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List issues in the project",
	Long: `List issues in the configured project with filtering options.

Filters combine into a JQL query; --jql replaces them with a raw
query.`,
	Example: `  # List recent issues in the project
  jira-pm list

  # Filter by status
  jira-pm list --status "In Progress"

  # Filter by type and assignee
  jira-pm list --type Bug --assignee dev@example.com

  # Filter by labels
  jira-pm list --label backend --label urgent

  # Full-text search
  jira-pm list --search "authentication"

  # Raw JQL
  jira-pm list --jql 'project = PROJ AND status = "To Do"'

  # JSON output
  jira-pm list --format json`,
	RunE: runList,
}

func init() {
	args.AddCommonFlags(listCmd, nil)
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, cmdArgs []string) error {
	filters, err := args.ParseCommonFlags(cmd, nil)
	if err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
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

	jql := filters.ToJQL(creds.ProjectKey)
	logger.Debug("searching issues", "jql", jql, "limit", filters.Limit)

	resp, err := creator.SearchIssues(cmd.Context(), jql, filters.Limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return formatter.FormatIssueList(resp, creds.BaseURL)
}
