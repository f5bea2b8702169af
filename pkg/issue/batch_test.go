package issue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	calls  []IssueRequest
	create func(req IssueRequest) (string, error)
}

func (s *stubClient) CreateIssue(ctx context.Context, req IssueRequest) (string, error) {
	s.calls = append(s.calls, req)
	if s.create != nil {
		return s.create(req)
	}
	return fmt.Sprintf("PROJ-%d", len(s.calls)), nil
}

func TestProcessorProcess(t *testing.T) {
	stories := []Story{
		{UserStory: "As a user I log in", Deliverables: "Login form works"},
		{Deliverables: "Orphaned deliverables"},
		{UserStory: "As an admin I audit", Deliverables: "Audit log page", IssueType: "Bug"},
	}

	client := &stubClient{}
	processor := NewProcessor(client, nil)

	result, err := processor.Process(context.Background(), stories)
	require.NoError(t, err)

	require.Len(t, result.Created, 2)
	assert.Equal(t, CreatedEntry{Index: 1, IssueKey: "PROJ-1", Summary: "As a user I log in"}, result.Created[0])
	assert.Equal(t, CreatedEntry{Index: 3, IssueKey: "PROJ-2", Summary: "As an admin I audit"}, result.Created[1])

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, SkippedEntry{Index: 2, Reason: ReasonMissingUserStory}, result.Skipped[0])

	assert.Empty(t, result.Failed)
	assert.Equal(t, len(stories), result.Total())

	require.Len(t, client.calls, 2, "skipped stories must not reach the client")
	assert.Equal(t, "Story", client.calls[0].IssueType)
	assert.Equal(t, "Bug", client.calls[1].IssueType)
}

func TestProcessorProcessSkipReasons(t *testing.T) {
	tests := []struct {
		name       string
		story      Story
		wantReason string
	}{
		{
			name:       "empty user story",
			story:      Story{Deliverables: "d"},
			wantReason: ReasonMissingUserStory,
		},
		{
			name:       "whitespace user story",
			story:      Story{UserStory: "   ", Deliverables: "d"},
			wantReason: ReasonMissingUserStory,
		},
		{
			name:       "empty deliverables",
			story:      Story{UserStory: "s"},
			wantReason: ReasonMissingDeliverables,
		},
		{
			name:       "whitespace deliverables",
			story:      Story{UserStory: "s", Deliverables: "\t\n"},
			wantReason: ReasonMissingDeliverables,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{}
			processor := NewProcessor(client, nil)

			result, err := processor.Process(context.Background(), []Story{tt.story})
			require.NoError(t, err)

			require.Len(t, result.Skipped, 1)
			assert.Equal(t, SkippedEntry{Index: 1, Reason: tt.wantReason}, result.Skipped[0])
			assert.Empty(t, client.calls)
		})
	}
}

func TestProcessorProcessContinuesAfterFailure(t *testing.T) {
	stories := []Story{
		{UserStory: "first", Deliverables: "d"},
		{UserStory: "boom", Deliverables: "d"},
		{UserStory: "third", Deliverables: "d"},
	}

	client := &stubClient{
		create: func(req IssueRequest) (string, error) {
			if req.Summary == "boom" {
				return "", NewIssueCreationError("Failed to create Jira issue after 4 attempts: server error", nil)
			}
			return "PROJ-9", nil
		},
	}
	processor := NewProcessor(client, nil)

	result, err := processor.Process(context.Background(), stories)
	require.NoError(t, err)

	assert.Len(t, result.Created, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, 2, result.Failed[0].Index)
	assert.Equal(t, "boom", result.Failed[0].Summary)
	assert.Contains(t, result.Failed[0].Error, "after 4 attempts")
	assert.Equal(t, len(stories), result.Total())
	assert.Len(t, client.calls, 3, "a failed story must not abort the rest of the batch")
}

func TestProcessorProcessAllFail(t *testing.T) {
	stories := []Story{
		{UserStory: "a", Deliverables: "d"},
		{UserStory: "b", Deliverables: "d"},
	}

	client := &stubClient{
		create: func(req IssueRequest) (string, error) {
			return "", errors.New("jira API error (503)")
		},
	}
	processor := NewProcessor(client, nil)

	result, err := processor.Process(context.Background(), stories)
	require.NoError(t, err)

	assert.Empty(t, result.Created)
	assert.Len(t, result.Failed, 2)
	assert.Equal(t, len(stories), result.Total())
}

func TestProcessorProcessEmptyBatch(t *testing.T) {
	processor := NewProcessor(&stubClient{}, nil)

	result, err := processor.Process(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Total())
	assert.NotNil(t, result.Created)
	assert.NotNil(t, result.Failed)
	assert.NotNil(t, result.Skipped)
}

func TestProcessorProcessCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	stories := []Story{
		{UserStory: "first", Deliverables: "d"},
		{UserStory: "second", Deliverables: "d"},
	}

	client := &stubClient{
		create: func(req IssueRequest) (string, error) {
			cancel()
			return "PROJ-1", nil
		},
	}
	processor := NewProcessor(client, nil)

	result, err := processor.Process(ctx, stories)

	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, result.Created, 1, "entries finished before cancellation are kept")
	assert.Len(t, client.calls, 1)
}

func TestBatchResultJSONKeys(t *testing.T) {
	result := &BatchResult{
		Created: []CreatedEntry{{Index: 1, IssueKey: "PROJ-1", Summary: "s"}},
		Failed:  []FailedEntry{{Index: 2, Error: "boom", Summary: "t"}},
		Skipped: []SkippedEntry{{Index: 3, Reason: ReasonMissingDeliverables}},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "created_issues")
	assert.Contains(t, decoded, "failed_issues")
	assert.Contains(t, decoded, "skipped_issues")

	assert.Contains(t, string(data), `"entry":1`)
	assert.Contains(t, string(data), `"issue_key":"PROJ-1"`)
	assert.Contains(t, string(data), `"reason":"missing deliverables"`)
}

func TestLoadStories(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		filename string
		content  string
		want     []Story
		wantErr  string
	}{
		{
			name:     "json list",
			filename: "stories.json",
			content:  `[{"user_story": "a", "deliverables": "b", "issue_type": "Bug"}]`,
			want:     []Story{{UserStory: "a", Deliverables: "b", IssueType: "Bug"}},
		},
		{
			name:     "yaml list",
			filename: "stories.yml",
			content:  "- user_story: a\n  deliverables: b\n",
			want:     []Story{{UserStory: "a", Deliverables: "b"}},
		},
		{
			name:     "json object is rejected",
			filename: "object.json",
			content:  `{"user_story": "a"}`,
			wantErr:  "list of stories",
		},
		{
			name:     "invalid yaml is rejected",
			filename: "broken.yaml",
			content:  "user_story: [unclosed",
			wantErr:  "list of stories",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			stories, err := LoadStories(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, stories)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadStories(filepath.Join(dir, "nope.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read batch file")
	})
}

func TestPreflight(t *testing.T) {
	stories := []Story{
		{UserStory: "a", Deliverables: "b"},
		{},
		{UserStory: "c"},
	}

	report := Preflight(stories)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Valid)
	require.Len(t, report.Problems, 2)
	assert.Equal(t, "entry 2 missing required fields: user_story, deliverables", report.Problems[0])
	assert.Equal(t, "entry 3 missing required fields: deliverables", report.Problems[1])
	assert.True(t, report.OK())

	empty := Preflight([]Story{{}})
	assert.False(t, empty.OK())
}
