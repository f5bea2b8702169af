package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/yahsan2/jira-pm/pkg/issue"
)

// Entry statuses recorded per batch entry.
const (
	StatusCreated = "created"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Run is one recorded invocation that reached the Jira API.
type Run struct {
	ID          string    `db:"id" json:"id"`
	Command     string    `db:"command" json:"command"`
	ProjectKey  string    `db:"project_key" json:"project_key"`
	StartedAt   time.Time `db:"started_at" json:"started_at"`
	FinishedAt  time.Time `db:"finished_at" json:"finished_at"`
	Total       int       `db:"total" json:"total"`
	Created     int       `db:"created" json:"created"`
	Failed      int       `db:"failed" json:"failed"`
	Skipped     int       `db:"skipped" json:"skipped"`
	ResultsPath string    `db:"results_path" json:"results_path"`
}

// Entry is a single entry outcome within a run.
type Entry struct {
	ID       string `db:"id" json:"id"`
	RunID    string `db:"run_id" json:"run_id"`
	Index    int    `db:"entry" json:"entry"`
	Status   string `db:"status" json:"status"`
	IssueKey string `db:"issue_key" json:"issue_key"`
	Summary  string `db:"summary" json:"summary"`
	Detail   string `db:"detail" json:"detail"`
}

// Store keeps the run history in a local SQLite database.
type Store struct {
	db *sqlx.DB
}

// DefaultPath returns the standard location of the history database.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "jira-pm", "history.db"), nil
}

// Open opens (or creates) a SQLite database at dbPath, enables WAL mode,
// and runs any pending schema migrations.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *Store) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// RecordRun inserts the run and one row per batch entry in a single
// transaction. Counts are derived from the result. Returns the run ID.
func (s *Store) RecordRun(ctx context.Context, run Run, result *issue.BatchResult) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	run.Total = result.Total()
	run.Created = len(result.Created)
	run.Failed = len(result.Failed)
	run.Skipped = len(result.Skipped)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, command, project_key, started_at, finished_at,
			total, created, failed, skipped, results_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Command, run.ProjectKey, run.StartedAt.UTC(), run.FinishedAt.UTC(),
		run.Total, run.Created, run.Failed, run.Skipped, run.ResultsPath,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO run_entries (id, run_id, entry, status, issue_key, summary, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing entry statement: %w", err)
	}
	defer stmt.Close()

	for _, created := range result.Created {
		_, err = stmt.ExecContext(ctx,
			uuid.New().String(), run.ID, created.Index, StatusCreated, created.IssueKey, created.Summary, "")
		if err != nil {
			return "", fmt.Errorf("inserting entry %d: %w", created.Index, err)
		}
	}
	for _, failed := range result.Failed {
		_, err = stmt.ExecContext(ctx,
			uuid.New().String(), run.ID, failed.Index, StatusFailed, "", failed.Summary, failed.Error)
		if err != nil {
			return "", fmt.Errorf("inserting entry %d: %w", failed.Index, err)
		}
	}
	for _, skipped := range result.Skipped {
		_, err = stmt.ExecContext(ctx,
			uuid.New().String(), run.ID, skipped.Index, StatusSkipped, "", "", skipped.Reason)
		if err != nil {
			return "", fmt.Errorf("inserting entry %d: %w", skipped.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}

	return run.ID, nil
}

// ListRuns returns recorded runs, newest first. A zero since means no
// lower bound; limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, limit int, since time.Time) ([]Run, error) {
	var conditions []string
	var args []interface{}

	if !since.IsZero() {
		conditions = append(conditions, "started_at >= ?")
		args = append(args, since.UTC())
	}

	query := "SELECT * FROM runs"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY started_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	var runs []Run
	if err := s.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}

	return runs, nil
}

// RunEntries returns the per-entry outcomes of a run in batch order.
func (s *Store) RunEntries(ctx context.Context, runID string) ([]Entry, error) {
	var entries []Entry
	err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM run_entries WHERE run_id = ? ORDER BY entry", runID)
	if err != nil {
		return nil, fmt.Errorf("querying run entries: %w", err)
	}

	return entries, nil
}
