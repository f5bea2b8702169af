package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/yahsan2/jira-pm/pkg/issue"
	"github.com/yahsan2/jira-pm/pkg/jira"
)

// FormatType represents the output format type
type FormatType int

const (
	// FormatTable outputs as a formatted table
	FormatTable FormatType = iota
	// FormatJSON outputs as JSON
	FormatJSON
	// FormatCSV outputs as CSV
	FormatCSV
	// FormatQuiet outputs minimal information
	FormatQuiet
)

// ParseFormat maps a --format flag value to a FormatType.
func ParseFormat(s string) (FormatType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "quiet":
		return FormatQuiet, nil
	default:
		return FormatTable, fmt.Errorf("unknown output format '%s': must be one of table, json, csv, quiet", s)
	}
}

// String returns the flag spelling of the format.
func (t FormatType) String() string {
	switch t {
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	case FormatQuiet:
		return "quiet"
	default:
		return "table"
	}
}

// Formatter handles output formatting
type Formatter struct {
	format FormatType
	writer io.Writer
}

// NewFormatter creates a new formatter writing to stdout
func NewFormatter(format FormatType) *Formatter {
	return &Formatter{
		format: format,
		writer: os.Stdout,
	}
}

// NewFormatterWithWriter creates a new formatter with custom writer
func NewFormatterWithWriter(format FormatType, writer io.Writer) *Formatter {
	return &Formatter{
		format: format,
		writer: writer,
	}
}

// BrowseURL returns the human-facing URL for an issue key.
func BrowseURL(baseURL, key string) string {
	return strings.TrimSuffix(baseURL, "/") + "/browse/" + key
}

// CreatedIssue is the printable record of a successful create.
type CreatedIssue struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

// FormatCreated formats the result of a single issue creation
func (f *Formatter) FormatCreated(created CreatedIssue) error {
	switch f.format {
	case FormatQuiet:
		_, err := fmt.Fprintln(f.writer, created.Key)
		return err
	case FormatJSON:
		return f.encodeJSON(created)
	case FormatCSV:
		w := csv.NewWriter(f.writer)
		defer w.Flush()
		if err := w.Write([]string{"Key", "Summary", "URL"}); err != nil {
			return err
		}
		return w.Write([]string{created.Key, created.Summary, created.URL})
	default:
		w := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintf(w, "Issue created successfully!\n\n")
		fmt.Fprintf(w, "Key:\t%s\n", created.Key)
		fmt.Fprintf(w, "Summary:\t%s\n", created.Summary)
		if created.URL != "" {
			fmt.Fprintf(w, "URL:\t%s\n", created.URL)
		}
		return nil
	}
}

// FormatIssue formats a single fetched issue for output
func (f *Formatter) FormatIssue(iss *jira.Issue, baseURL string) error {
	switch f.format {
	case FormatQuiet:
		_, err := fmt.Fprintln(f.writer, iss.Key)
		return err
	case FormatJSON:
		return f.encodeJSON(iss)
	case FormatCSV:
		w := csv.NewWriter(f.writer)
		defer w.Flush()
		if err := w.Write([]string{"Key", "Type", "Status", "Summary", "URL"}); err != nil {
			return err
		}
		return w.Write([]string{iss.Key, iss.Fields.IssueType.Name, statusName(iss), iss.Fields.Summary, BrowseURL(baseURL, iss.Key)})
	default:
		return f.formatIssueTable(iss, baseURL)
	}
}

// formatIssueTable formats an issue as a table
func (f *Formatter) formatIssueTable(iss *jira.Issue, baseURL string) error {
	w := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Key:\t%s\n", iss.Key)
	fmt.Fprintf(w, "Summary:\t%s\n", iss.Fields.Summary)
	fmt.Fprintf(w, "Type:\t%s\n", iss.Fields.IssueType.Name)
	if iss.Fields.Status != nil {
		fmt.Fprintf(w, "Status:\t%s\n", iss.Fields.Status.Name)
	}
	if iss.Fields.Reporter != nil {
		fmt.Fprintf(w, "Reporter:\t%s\n", iss.Fields.Reporter.DisplayName)
	}
	if iss.Fields.Assignee != nil {
		fmt.Fprintf(w, "Assignee:\t%s\n", iss.Fields.Assignee.DisplayName)
	}
	if len(iss.Fields.Labels) > 0 {
		fmt.Fprintf(w, "Labels:\t%s\n", strings.Join(iss.Fields.Labels, ", "))
	}
	fmt.Fprintf(w, "URL:\t%s\n", BrowseURL(baseURL, iss.Key))

	if iss.Fields.Description != "" {
		fmt.Fprintf(w, "\n%s\n", iss.Fields.Description)
	}

	return nil
}

// FormatIssueList formats search results for output
func (f *Formatter) FormatIssueList(resp *jira.SearchResponse, baseURL string) error {
	switch f.format {
	case FormatQuiet:
		for _, iss := range resp.Issues {
			if _, err := fmt.Fprintln(f.writer, iss.Key); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		return f.encodeJSON(resp.Issues)
	case FormatCSV:
		w := csv.NewWriter(f.writer)
		defer w.Flush()
		if err := w.Write([]string{"Key", "Type", "Status", "Summary"}); err != nil {
			return err
		}
		for _, iss := range resp.Issues {
			if err := w.Write([]string{iss.Key, iss.Fields.IssueType.Name, statusName(&iss), iss.Fields.Summary}); err != nil {
				return err
			}
		}
		return nil
	default:
		w := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
		defer w.Flush()

		if len(resp.Issues) == 0 {
			fmt.Fprintln(w, "No issues found")
			return nil
		}

		fmt.Fprintf(w, "KEY\tTYPE\tSTATUS\tSUMMARY\n")
		for _, iss := range resp.Issues {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", iss.Key, iss.Fields.IssueType.Name, statusName(&iss), iss.Fields.Summary)
		}
		if resp.Total > len(resp.Issues) {
			fmt.Fprintf(w, "\nShowing %d of %d issues\n", len(resp.Issues), resp.Total)
		}
		return nil
	}
}

// FormatProjectInfo formats project metadata for output
func (f *Formatter) FormatProjectInfo(info *issue.ProjectInfo) error {
	switch f.format {
	case FormatQuiet:
		_, err := fmt.Fprintln(f.writer, info.Key)
		return err
	case FormatJSON:
		return f.encodeJSON(info)
	case FormatCSV:
		w := csv.NewWriter(f.writer)
		defer w.Flush()
		if err := w.Write([]string{"Key", "Name", "Description", "Lead"}); err != nil {
			return err
		}
		return w.Write([]string{info.Key, info.Name, info.Description, info.Lead})
	default:
		w := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintf(w, "Key:\t%s\n", info.Key)
		fmt.Fprintf(w, "Name:\t%s\n", info.Name)
		fmt.Fprintf(w, "Description:\t%s\n", info.Description)
		fmt.Fprintf(w, "Lead:\t%s\n", info.Lead)
		return nil
	}
}

// FormatBatchResult formats batch processing results
func (f *Formatter) FormatBatchResult(result *issue.BatchResult) error {
	switch f.format {
	case FormatQuiet:
		for _, created := range result.Created {
			if _, err := fmt.Fprintln(f.writer, created.IssueKey); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		return f.encodeJSON(result)
	case FormatCSV:
		return f.formatBatchResultCSV(result)
	default:
		return f.formatBatchResultTable(result)
	}
}

// formatBatchResultTable formats batch results as a table
func (f *Formatter) formatBatchResultTable(result *issue.BatchResult) error {
	w := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Batch Processing Complete\n\n")
	fmt.Fprintf(w, "Total:\t%d\n", result.Total())
	fmt.Fprintf(w, "Created:\t%d\n", len(result.Created))
	fmt.Fprintf(w, "Failed:\t%d\n", len(result.Failed))
	fmt.Fprintf(w, "Skipped:\t%d\n", len(result.Skipped))

	if len(result.Created) > 0 {
		fmt.Fprintf(w, "\nCreated Issues:\n")
		fmt.Fprintf(w, "Entry\tKey\tSummary\n")
		for _, created := range result.Created {
			fmt.Fprintf(w, "%d\t%s\t%s\n", created.Index, created.IssueKey, created.Summary)
		}
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped:\n")
		for _, skipped := range result.Skipped {
			fmt.Fprintf(w, "  [%d] %s\n", skipped.Index, skipped.Reason)
		}
	}

	if len(result.Failed) > 0 {
		fmt.Fprintf(w, "\nErrors:\n")
		for _, failed := range result.Failed {
			fmt.Fprintf(w, "  [%d] %s: %s\n", failed.Index, failed.Summary, failed.Error)
		}
	}

	return nil
}

// formatBatchResultCSV formats batch results as CSV
func (f *Formatter) formatBatchResultCSV(result *issue.BatchResult) error {
	w := csv.NewWriter(f.writer)
	defer w.Flush()

	if err := w.Write([]string{"Entry", "Status", "Key", "Summary", "Detail"}); err != nil {
		return err
	}

	for _, created := range result.Created {
		if err := w.Write([]string{fmt.Sprintf("%d", created.Index), "created", created.IssueKey, created.Summary, ""}); err != nil {
			return err
		}
	}
	for _, failed := range result.Failed {
		if err := w.Write([]string{fmt.Sprintf("%d", failed.Index), "failed", "", failed.Summary, failed.Error}); err != nil {
			return err
		}
	}
	for _, skipped := range result.Skipped {
		if err := w.Write([]string{fmt.Sprintf("%d", skipped.Index), "skipped", "", "", skipped.Reason}); err != nil {
			return err
		}
	}

	return nil
}

// FormatError formats an error for output
func (f *Formatter) FormatError(err error) error {
	if f.format == FormatJSON {
		errorData := map[string]string{
			"error": err.Error(),
		}

		var issueErr *issue.IssueError
		if errors.As(err, &issueErr) {
			errorData["type"] = issueErr.Type.String()
			if issueErr.Suggestion != "" {
				errorData["suggestion"] = issueErr.Suggestion
			}
		}

		return f.encodeJSON(errorData)
	}

	_, printErr := fmt.Fprintln(f.writer, err.Error())
	return printErr
}

func (f *Formatter) encodeJSON(v interface{}) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func statusName(iss *jira.Issue) string {
	if iss.Fields.Status == nil {
		return ""
	}
	return iss.Fields.Status.Name
}
