package cache

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

CREATE TABLE IF NOT EXISTS snapshots (
	resource   TEXT NOT NULL,
	id         TEXT NOT NULL,
	pos        INTEGER NOT NULL,
	payload    TEXT NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (resource, id)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_resource_pos
	ON snapshots(resource, pos);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
