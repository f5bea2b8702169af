package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yahsan2/jira-pm/pkg/config"
	"github.com/yahsan2/jira-pm/pkg/issue"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check Jira connectivity and configuration",
	Long: `Verify that credentials resolve, the Jira instance is reachable, and
the configured project is visible to the account.

Exits non-zero when any of these fail, making the command usable as a
CI or setup probe.`,
	Example: `  # Check connection and project
  jira-pm check

  # Machine-readable output
  jira-pm check --format json`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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
		if ferr := formatter.FormatError(err); ferr != nil {
			return ferr
		}
		return fmt.Errorf("configuration check failed")
	}

	if !creator.TestConnection(ctx) {
		return fmt.Errorf("cannot reach %s as %s: check your credentials", creds.BaseURL, creds.Email)
	}
	fmt.Fprintf(os.Stderr, "✓ Connected to %s as %s\n", creds.BaseURL, creds.Email)

	info := creator.ProjectInfo(ctx)
	if info == nil {
		return fmt.Errorf("project %s not found or not visible to %s", creds.ProjectKey, creds.Email)
	}

	return formatter.FormatProjectInfo(info)
}
