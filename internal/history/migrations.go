package history

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

CREATE TABLE IF NOT EXISTS submissions (
	id          TEXT PRIMARY KEY,
	document_id TEXT NOT NULL DEFAULT '',
	file_name   TEXT NOT NULL DEFAULT '',
	ticket_name TEXT NOT NULL,
	priority    INTEGER NOT NULL DEFAULT 3,
	status      TEXT NOT NULL DEFAULT 'To Do',
	success     INTEGER NOT NULL DEFAULT 0,
	task_id     TEXT NOT NULL DEFAULT '',
	task_url    TEXT NOT NULL DEFAULT '',
	message     TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_submissions_created_at
	ON submissions(created_at DESC);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
