package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yahsan2/jira-pm/pkg/issue"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult() *issue.BatchResult {
	return &issue.BatchResult{
		Created: []issue.CreatedEntry{
			{Index: 1, IssueKey: "PROJ-1", Summary: "First story"},
			{Index: 3, IssueKey: "PROJ-2", Summary: "Third story"},
		},
		Failed: []issue.FailedEntry{
			{Index: 4, Error: "Failed to create Jira issue after 4 attempts: boom", Summary: "Fourth story"},
		},
		Skipped: []issue.SkippedEntry{
			{Index: 2, Reason: issue.ReasonMissingUserStory},
		},
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	s := openTestStore(t)

	var version int
	require.NoError(t, s.db.Get(&version, "SELECT MAX(version) FROM schema_version"))
	assert.Equal(t, 1, version)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	var count int
	require.NoError(t, s2.db.Get(&count, "SELECT COUNT(*) FROM schema_version"))
	assert.Equal(t, 1, count)
}

func TestRecordRunAndListRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 8, 23, 14, 0, 0, 0, time.UTC)
	id, err := s.RecordRun(ctx, Run{
		Command:     "batch",
		ProjectKey:  "PROJ",
		StartedAt:   started,
		FinishedAt:  started.Add(12 * time.Second),
		ResultsPath: "jira-results-20260823-140012.json",
	}, sampleResult())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	runs, err := s.ListRuns(ctx, 0, time.Time{})
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, id, run.ID)
	assert.Equal(t, "batch", run.Command)
	assert.Equal(t, "PROJ", run.ProjectKey)
	assert.Equal(t, 4, run.Total)
	assert.Equal(t, 2, run.Created)
	assert.Equal(t, 1, run.Failed)
	assert.Equal(t, 1, run.Skipped)
	assert.Equal(t, "jira-results-20260823-140012.json", run.ResultsPath)
	assert.True(t, run.StartedAt.Equal(started))
}

func TestRunEntriesOrderedByBatchIndex(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.RecordRun(ctx, Run{Command: "batch", ProjectKey: "PROJ"}, sampleResult())
	require.NoError(t, err)

	entries, err := s.RunEntries(ctx, id)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, []int{1, 2, 3, 4}, []int{entries[0].Index, entries[1].Index, entries[2].Index, entries[3].Index})

	assert.Equal(t, StatusCreated, entries[0].Status)
	assert.Equal(t, "PROJ-1", entries[0].IssueKey)

	assert.Equal(t, StatusSkipped, entries[1].Status)
	assert.Equal(t, issue.ReasonMissingUserStory, entries[1].Detail)

	assert.Equal(t, StatusFailed, entries[3].Status)
	assert.Contains(t, entries[3].Detail, "after 4 attempts")
}

func TestListRunsLimitAndSince(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := s.RecordRun(ctx, Run{
			Command:    "create",
			ProjectKey: "PROJ",
			StartedAt:  base.AddDate(0, 0, i),
			FinishedAt: base.AddDate(0, 0, i),
		}, &issue.BatchResult{Created: []issue.CreatedEntry{{Index: 1, IssueKey: "PROJ-1"}}})
		require.NoError(t, err)
	}

	newest, err := s.ListRuns(ctx, 1, time.Time{})
	require.NoError(t, err)
	require.Len(t, newest, 1)
	assert.True(t, newest[0].StartedAt.Equal(base.AddDate(0, 0, 2)))

	recent, err := s.ListRuns(ctx, 0, base.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestListRunsEmpty(t *testing.T) {
	s := openTestStore(t)

	runs, err := s.ListRuns(context.Background(), 10, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}
