package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yahsan2/jira-pm/pkg/config"
	"github.com/yahsan2/jira-pm/pkg/issue"
	"github.com/yahsan2/jira-pm/pkg/output"
	"github.com/yahsan2/jira-pm/pkg/store"
)

var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Create Jira issues from a user story file",
	Long: `Process a batch of user stories from a JSON or YAML file, creating
one Jira issue per entry.

This command will:
- Check the file structure and report entries with missing fields
- Connect to Jira with the configured retry policy
- Create one issue per valid entry, continuing past failures
- Write a results file and record the run in local history`,
	Example: `  # Process a story file
  jira-pm batch stories.json

  # Check the file without creating anything
  jira-pm batch stories.json --dry-run

  # Write results to an explicit path
  jira-pm batch stories.yml --results-file out/results.json

  # Print only the created issue keys
  jira-pm batch stories.json --format quiet`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

// Command flags
var (
	batchDryRun      bool
	batchResultsFile string
	batchNoHistory   bool
)

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "Validate the file and stop before creating issues")
	batchCmd.Flags().StringVar(&batchResultsFile, "results-file", "", "Write results to this path instead of the timestamped default")
	batchCmd.Flags().BoolVar(&batchNoHistory, "no-history", false, "Skip recording the run in the history store")
}

type BatchCommand struct {
	config    *config.Config
	creator   *issue.Creator
	formatter *output.Formatter
}

func runBatch(cmd *cobra.Command, cmdArgs []string) error {
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

	command := &BatchCommand{
		config:    cfg,
		creator:   creator,
		formatter: formatter,
	}

	return command.Execute(cmd.Context(), cmdArgs[0])
}

func (c *BatchCommand) Execute(ctx context.Context, file string) error {
	stories, err := issue.LoadStories(file)
	if err != nil {
		return err
	}

	report := issue.Preflight(stories)
	printPreflight(file, report)

	if batchDryRun {
		return nil
	}

	// Entries with missing fields never reach the client, so a batch
	// with nothing valid is processed without connecting at all.
	if report.OK() {
		if err := c.creator.Connect(ctx); err != nil {
			return err
		}
		if info := c.creator.ProjectInfo(ctx); info != nil {
			fmt.Fprintf(os.Stderr, "Project: %s (%s)\n", info.Name, info.Key)
		}
	}

	startedAt := time.Now()
	result, procErr := issue.NewProcessor(c.creator, logger).Process(ctx, stories)

	if err := c.formatter.FormatBatchResult(result); err != nil {
		return err
	}

	resultsPath, err := output.WriteResults(result, c.config.Output.ResultsDir, batchResultsFile, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Results written to %s\n", resultsPath)

	if !batchNoHistory {
		c.recordRun(ctx, result, resultsPath, startedAt)
	}

	return procErr
}

// printPreflight reports the structure check on stderr so every output
// format keeps a clean stdout.
func printPreflight(file string, report issue.PreflightReport) {
	fmt.Fprintf(os.Stderr, "Pre-flight check of %s: %d/%d entries valid\n", file, report.Valid, report.Total)
	for _, problem := range report.Problems {
		fmt.Fprintf(os.Stderr, "  - %s\n", problem)
	}
}

// recordRun stores the batch outcome in the history database. History
// is auxiliary: failures are logged, never fatal.
func (c *BatchCommand) recordRun(ctx context.Context, result *issue.BatchResult, resultsPath string, startedAt time.Time) {
	path, err := store.DefaultPath()
	if err != nil {
		logger.Warn("history store unavailable", "error", err)
		return
	}

	st, err := store.Open(path)
	if err != nil {
		logger.Warn("history store unavailable", "path", path, "error", err)
		return
	}
	defer st.Close()

	run := store.Run{
		Command:     "batch",
		ProjectKey:  c.creator.ProjectKey(),
		StartedAt:   startedAt,
		FinishedAt:  time.Now(),
		ResultsPath: resultsPath,
	}
	if _, err := st.RecordRun(ctx, run, result); err != nil {
		logger.Warn("failed to record run", "error", err)
	}
}
