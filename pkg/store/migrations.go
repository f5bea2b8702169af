package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	command      TEXT NOT NULL,
	project_key  TEXT NOT NULL,
	started_at   DATETIME NOT NULL,
	finished_at  DATETIME NOT NULL,
	total        INTEGER NOT NULL DEFAULT 0,
	created      INTEGER NOT NULL DEFAULT 0,
	failed       INTEGER NOT NULL DEFAULT 0,
	skipped      INTEGER NOT NULL DEFAULT 0,
	results_path TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS run_entries (
	id        TEXT PRIMARY KEY,
	run_id    TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	entry     INTEGER NOT NULL,
	status    TEXT NOT NULL CHECK(status IN ('created', 'failed', 'skipped')),
	issue_key TEXT NOT NULL DEFAULT '',
	summary   TEXT NOT NULL DEFAULT '',
	detail    TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_runs_command ON runs(command);
CREATE INDEX IF NOT EXISTS idx_run_entries_run_id ON run_entries(run_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
