package issue

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Skip reasons recorded for entries that never reach the client.
const (
	ReasonMissingUserStory    = "missing user_story"
	ReasonMissingDeliverables = "missing deliverables"
)

// BatchResult represents the result of batch issue creation
type BatchResult struct {
	Created []CreatedEntry `json:"created_issues"`
	Failed  []FailedEntry  `json:"failed_issues"`
	Skipped []SkippedEntry `json:"skipped_issues"`
}

// CreatedEntry records a successfully created issue
type CreatedEntry struct {
	Index    int    `json:"entry"`
	IssueKey string `json:"issue_key"`
	Summary  string `json:"summary"`
}

// FailedEntry records an entry whose creation failed
type FailedEntry struct {
	Index   int    `json:"entry"`
	Error   string `json:"error"`
	Summary string `json:"summary"`
}

// SkippedEntry records an entry that was never submitted
type SkippedEntry struct {
	Index  int    `json:"entry"`
	Reason string `json:"reason"`
}

// Total returns the number of entries across all three buckets.
func (r *BatchResult) Total() int {
	return len(r.Created) + len(r.Failed) + len(r.Skipped)
}

// IssueCreator is the client surface the batch processor needs.
type IssueCreator interface {
	CreateIssue(ctx context.Context, req IssueRequest) (string, error)
}

// Processor runs a batch of stories against an issue creator, one
// entry at a time, and buckets every outcome.
type Processor struct {
	client IssueCreator
	logger *slog.Logger
}

// NewProcessor creates a new batch processor.
func NewProcessor(client IssueCreator, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Processor{
		client: client,
		logger: logger,
	}
}

// Process walks the stories in order, skipping entries with missing
// required fields and delegating the rest to the client. A failing
// entry never aborts the batch; the buckets always account for every
// entry attempted. A canceled context stops before the next entry and
// returns the partial result with the context error.
func (p *Processor) Process(ctx context.Context, stories []Story) (*BatchResult, error) {
	result := &BatchResult{
		Created: []CreatedEntry{},
		Failed:  []FailedEntry{},
		Skipped: []SkippedEntry{},
	}

	for i, story := range stories {
		index := i + 1

		if err := ctx.Err(); err != nil {
			return result, err
		}

		summary := strings.TrimSpace(story.UserStory)
		if summary == "" {
			p.logger.Warn("skipping story", "entry", index, "reason", ReasonMissingUserStory)
			result.Skipped = append(result.Skipped, SkippedEntry{Index: index, Reason: ReasonMissingUserStory})
			continue
		}

		if strings.TrimSpace(story.Deliverables) == "" {
			p.logger.Warn("skipping story", "entry", index, "reason", ReasonMissingDeliverables)
			result.Skipped = append(result.Skipped, SkippedEntry{Index: index, Reason: ReasonMissingDeliverables})
			continue
		}

		p.logger.Info("processing story", "entry", index, "summary", truncate(summary, 50))

		key, err := p.client.CreateIssue(ctx, story.ToRequest())
		if err != nil {
			p.logger.Error("story failed", "entry", index, "error", err)
			result.Failed = append(result.Failed, FailedEntry{Index: index, Error: err.Error(), Summary: summary})
			continue
		}

		p.logger.Info("story created", "entry", index, "key", key)
		result.Created = append(result.Created, CreatedEntry{Index: index, IssueKey: key, Summary: summary})
	}

	return result, nil
}

// LoadStories reads a batch file into stories. YAML files are chosen
// by extension; everything else is parsed as a JSON array.
func LoadStories(path string) ([]Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var stories []Story
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &stories); err != nil {
			return nil, fmt.Errorf("batch file must contain a list of stories: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &stories); err != nil {
			return nil, fmt.Errorf("batch file must contain a JSON list of stories: %w", err)
		}
	}

	return stories, nil
}

// PreflightReport summarizes the structure check run before a batch.
type PreflightReport struct {
	Total    int
	Valid    int
	Problems []string
}

// OK reports whether the batch is worth submitting at all.
func (r PreflightReport) OK() bool {
	return r.Valid > 0
}

// Preflight checks each story for the required fields without touching
// the network, mirroring the per-entry skip rules.
func Preflight(stories []Story) PreflightReport {
	report := PreflightReport{Total: len(stories)}

	for i, story := range stories {
		var missing []string
		if strings.TrimSpace(story.UserStory) == "" {
			missing = append(missing, "user_story")
		}
		if strings.TrimSpace(story.Deliverables) == "" {
			missing = append(missing, "deliverables")
		}

		if len(missing) > 0 {
			report.Problems = append(report.Problems,
				fmt.Sprintf("entry %d missing required fields: %s", i+1, strings.Join(missing, ", ")))
			continue
		}
		report.Valid++
	}

	return report
}
