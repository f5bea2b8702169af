package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yahsan2/jira-pm/pkg/issue"
)

const resultsTimeLayout = "20060102-150405"

// ResultsFileName returns the default results file name for a run started
// at the given time, e.g. "jira-results-20260823-141530.json".
func ResultsFileName(now time.Time) string {
	return "jira-results-" + now.Format(resultsTimeLayout) + ".json"
}

// WriteResults writes the batch result as indented JSON. An explicit path
// wins; otherwise a timestamped file is created under dir. Returns the
// path actually written.
func WriteResults(result *issue.BatchResult, dir, explicit string, now time.Time) (string, error) {
	path := explicit
	if path == "" {
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create results directory: %w", err)
		}
		path = filepath.Join(dir, ResultsFileName(now))
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write results file: %w", err)
	}

	return path, nil
}
