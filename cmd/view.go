package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yahsan2/jira-pm/pkg/args"
	"github.com/yahsan2/jira-pm/pkg/config"
	"github.com/yahsan2/jira-pm/pkg/issue"
)

var viewCmd = &cobra.Command{
	Use:   "view KEY",
	Short: "View a Jira issue",
	Long: `Display a single Jira issue by key or browse URL.

This command shows the issue summary, type, status, people, labels,
and description.`,
	Example: `  # View by key
  jira-pm view PROJ-123

  # View by browse URL
  jira-pm view https://example.atlassian.net/browse/PROJ-123

  # JSON output
  jira-pm view PROJ-123 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, cmdArgs []string) error {
	key, err := args.ParseIssueKey(cmdArgs[0])
	if err != nil {
		return err
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

	iss, err := creator.GetIssue(cmd.Context(), key)
	if err != nil {
		return fmt.Errorf("failed to fetch issue %s: %w", key, err)
	}

	return formatter.FormatIssue(iss, creds.BaseURL)
}
