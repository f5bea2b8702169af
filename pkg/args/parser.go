package args

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yahsan2/jira-pm/pkg/filter"
)

// CommonFlags contains flag names used across commands
type CommonFlags struct {
	Type     string
	Status   string
	Assignee string
	Reporter string
	Label    string
	Search   string
	JQL      string
	Limit    string
}

// DefaultFlags returns the default flag names
func DefaultFlags() *CommonFlags {
	return &CommonFlags{
		Type:     "type",
		Status:   "status",
		Assignee: "assignee",
		Reporter: "reporter",
		Label:    "label",
		Search:   "search",
		JQL:      "jql",
		Limit:    "limit",
	}
}

// AddCommonFlags adds the shared search flags to the command
func AddCommonFlags(cmd *cobra.Command, flags *CommonFlags) {
	if flags == nil {
		flags = DefaultFlags()
	}

	cmd.Flags().StringP(flags.Type, "t", "", "Filter by issue type")
	cmd.Flags().StringP(flags.Status, "s", "", "Filter by status")
	cmd.Flags().StringP(flags.Assignee, "a", "", "Filter by assignee")
	cmd.Flags().String(flags.Reporter, "", "Filter by reporter")
	cmd.Flags().StringSliceP(flags.Label, "l", []string{}, "Filter by label")
	cmd.Flags().StringP(flags.Search, "S", "", "Full-text search")
	cmd.Flags().StringP(flags.JQL, "q", "", "Raw JQL query (overrides other filters)")
	cmd.Flags().IntP(flags.Limit, "L", 50, "Maximum number of issues to fetch")
}

// ParseCommonFlags extracts search filters from command flags
func ParseCommonFlags(cmd *cobra.Command, flags *CommonFlags) (*filter.IssueFilters, error) {
	if flags == nil {
		flags = DefaultFlags()
	}

	filters := filter.NewIssueFilters()

	var err error

	if filters.IssueType, err = cmd.Flags().GetString(flags.Type); err != nil {
		return nil, err
	}

	if filters.Status, err = cmd.Flags().GetString(flags.Status); err != nil {
		return nil, err
	}

	if filters.Assignee, err = cmd.Flags().GetString(flags.Assignee); err != nil {
		return nil, err
	}

	if filters.Reporter, err = cmd.Flags().GetString(flags.Reporter); err != nil {
		return nil, err
	}

	if filters.Labels, err = cmd.Flags().GetStringSlice(flags.Label); err != nil {
		return nil, err
	}

	if filters.Text, err = cmd.Flags().GetString(flags.Search); err != nil {
		return nil, err
	}

	if filters.JQL, err = cmd.Flags().GetString(flags.JQL); err != nil {
		return nil, err
	}

	if filters.Limit, err = cmd.Flags().GetInt(flags.Limit); err != nil {
		return nil, err
	}

	return filters, nil
}

var issueKeyPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*-[0-9]+$`)

// ParseIssueKey accepts a bare issue key or a browse URL and returns the
// normalized key.
func ParseIssueKey(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("issue key is required")
	}

	if strings.Contains(arg, "://") {
		u, err := url.Parse(arg)
		if err != nil {
			return "", fmt.Errorf("invalid issue URL '%s': %w", arg, err)
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 && parts[0] == "browse" && issueKeyPattern.MatchString(parts[1]) {
			return strings.ToUpper(parts[1]), nil
		}
		return "", fmt.Errorf("cannot extract an issue key from '%s'", arg)
	}

	if !issueKeyPattern.MatchString(arg) {
		return "", fmt.Errorf("invalid issue key '%s': expected a key like PROJ-123", arg)
	}

	return strings.ToUpper(arg), nil
}
