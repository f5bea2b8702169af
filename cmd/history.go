package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yahsan2/jira-pm/pkg/output"
	"github.com/yahsan2/jira-pm/pkg/store"
	"github.com/yahsan2/jira-pm/pkg/utils"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded batch runs",
	Long: `List batch runs recorded in the local history store, newest first.

With a run ID argument, show the per-entry outcomes of that run.`,
	Example: `  # Recent runs
  jira-pm history

  # Runs from the last week
  jira-pm history --since 7d

  # Runs since a date
  jira-pm history --since 2026-08-01

  # Entries of one run
  jira-pm history 6b3f0c19-5a84-4d5e-9c37-2f17713a8f52`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

// Command flags
var (
	historyLimit int
	historySince string
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show")
	historyCmd.Flags().StringVar(&historySince, "since", "", "Only show runs since (2006-01-02, 7d, 24h, yesterday)")
}

func runHistory(cmd *cobra.Command, cmdArgs []string) error {
	since, err := utils.ParseSince(historySince)
	if err != nil {
		return err
	}

	path, err := store.DefaultPath()
	if err != nil {
		return err
	}

	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer st.Close()

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	if len(cmdArgs) > 0 {
		return showRunEntries(cmd, st, cmdArgs[0], format)
	}

	runs, err := st.ListRuns(cmd.Context(), historyLimit, since)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if format == output.FormatJSON {
		return encodeStdout(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No recorded runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "STARTED\tID\tPROJECT\tCREATED\tFAILED\tSKIPPED\n")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.ID,
			run.ProjectKey,
			run.Created,
			run.Failed,
			run.Skipped,
		)
	}
	return w.Flush()
}

func showRunEntries(cmd *cobra.Command, st *store.Store, runID string, format output.FormatType) error {
	entries, err := st.RunEntries(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("failed to load run entries: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no entries recorded for run %s", runID)
	}

	if format == output.FormatJSON {
		return encodeStdout(entries)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ENTRY\tSTATUS\tKEY\tSUMMARY\tDETAIL\n")
	for _, entry := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			entry.Index,
			entry.Status,
			entry.IssueKey,
			truncate(entry.Summary, 50),
			truncate(entry.Detail, 60),
		)
	}
	return w.Flush()
}

func encodeStdout(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
