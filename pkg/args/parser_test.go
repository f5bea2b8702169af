package args

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommonFlags(t *testing.T) {
	cmd := &cobra.Command{
		Use: "test",
	}

	AddCommonFlags(cmd, nil)

	assert.NotNil(t, cmd.Flags().Lookup("type"))
	assert.NotNil(t, cmd.Flags().Lookup("status"))
	assert.NotNil(t, cmd.Flags().Lookup("assignee"))
	assert.NotNil(t, cmd.Flags().Lookup("reporter"))
	assert.NotNil(t, cmd.Flags().Lookup("label"))
	assert.NotNil(t, cmd.Flags().Lookup("search"))
	assert.NotNil(t, cmd.Flags().Lookup("jql"))
	assert.NotNil(t, cmd.Flags().Lookup("limit"))

	assert.Equal(t, "t", cmd.Flags().Lookup("type").Shorthand)
	assert.Equal(t, "s", cmd.Flags().Lookup("status").Shorthand)
	assert.Equal(t, "a", cmd.Flags().Lookup("assignee").Shorthand)
	assert.Equal(t, "l", cmd.Flags().Lookup("label").Shorthand)
	assert.Equal(t, "S", cmd.Flags().Lookup("search").Shorthand)
	assert.Equal(t, "q", cmd.Flags().Lookup("jql").Shorthand)
	assert.Equal(t, "L", cmd.Flags().Lookup("limit").Shorthand)
}

func TestParseCommonFlags(t *testing.T) {
	cmd := &cobra.Command{
		Use: "test",
	}

	AddCommonFlags(cmd, nil)

	err := cmd.Flags().Set("type", "Bug")
	require.NoError(t, err)
	err = cmd.Flags().Set("status", "In Progress")
	require.NoError(t, err)
	err = cmd.Flags().Set("limit", "25")
	require.NoError(t, err)
	err = cmd.Flags().Set("label", "backend")
	require.NoError(t, err)

	filters, err := ParseCommonFlags(cmd, nil)
	require.NoError(t, err)

	assert.Equal(t, "Bug", filters.IssueType)
	assert.Equal(t, "In Progress", filters.Status)
	assert.Equal(t, 25, filters.Limit)
	assert.Equal(t, []string{"backend"}, filters.Labels)
}

func TestParseCommonFlagsDefaults(t *testing.T) {
	cmd := &cobra.Command{
		Use: "test",
	}

	AddCommonFlags(cmd, nil)

	filters, err := ParseCommonFlags(cmd, nil)
	require.NoError(t, err)

	assert.Equal(t, 50, filters.Limit)
	assert.Empty(t, filters.IssueType)
	assert.Empty(t, filters.JQL)
}

func TestDefaultFlags(t *testing.T) {
	flags := DefaultFlags()

	assert.Equal(t, "type", flags.Type)
	assert.Equal(t, "status", flags.Status)
	assert.Equal(t, "assignee", flags.Assignee)
	assert.Equal(t, "reporter", flags.Reporter)
	assert.Equal(t, "label", flags.Label)
	assert.Equal(t, "search", flags.Search)
	assert.Equal(t, "jql", flags.JQL)
	assert.Equal(t, "limit", flags.Limit)
}

func TestParseIssueKey(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    string
		wantErr bool
	}{
		{name: "bare key", arg: "PROJ-123", want: "PROJ-123"},
		{name: "lowercase key is normalized", arg: "proj-123", want: "PROJ-123"},
		{name: "key with surrounding spaces", arg: "  PROJ-7  ", want: "PROJ-7"},
		{name: "browse URL", arg: "https://example.atlassian.net/browse/PROJ-42", want: "PROJ-42"},
		{name: "browse URL with trailing slash", arg: "https://example.atlassian.net/browse/PROJ-42/", want: "PROJ-42"},
		{name: "empty", arg: "", wantErr: true},
		{name: "missing number", arg: "PROJ", wantErr: true},
		{name: "key starting with digit", arg: "1ABC-2", wantErr: true},
		{name: "unrelated URL", arg: "https://example.atlassian.net/secure/Dashboard.jspa", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIssueKey(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
