package sqlite

// schema is the trimmed, single-pass DDL for the issue tracker core: issues,
// the typed link graph, labels, comments, the audit event log, and a
// singleton meta table. Column widths and checks mirror the invariants
// Model enforces so a direct SQL write (migration, recovery script) cannot
// silently violate them.
const schema = `
CREATE TABLE IF NOT EXISTS issues (
	id            TEXT PRIMARY KEY,
	content_hash  TEXT NOT NULL DEFAULT '',
	title         TEXT NOT NULL CHECK(length(title) <= 200),
	description   TEXT NOT NULL DEFAULT '',
	issue_type    TEXT NOT NULL DEFAULT 'task',
	priority      INTEGER NOT NULL DEFAULT 2 CHECK(priority >= 0 AND priority <= 4),
	status        TEXT NOT NULL DEFAULT 'open',
	assignee      TEXT NOT NULL DEFAULT '',
	close_reason  TEXT NOT NULL DEFAULT '',
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	closed_at     TEXT,
	CHECK ((status = 'closed') = (closed_at IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS idx_issues_status ON issues(status);
CREATE INDEX IF NOT EXISTS idx_issues_priority ON issues(priority);
CREATE INDEX IF NOT EXISTS idx_issues_assignee ON issues(assignee);
CREATE INDEX IF NOT EXISTS idx_issues_updated_at ON issues(updated_at);

-- Links store every relationship in canonical (from, to, type) form; the
-- non-canonical spellings ("blocked_by", "depends_on", "required_by" and the
-- informational inverses) are rewritten on ingest by
-- types.Link.Canonicalize before a row ever reaches this table.
CREATE TABLE IF NOT EXISTS links (
	from_id    TEXT NOT NULL,
	to_id      TEXT NOT NULL,
	type       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (from_id, to_id, type),
	FOREIGN KEY (from_id) REFERENCES issues(id) ON DELETE CASCADE,
	FOREIGN KEY (to_id) REFERENCES issues(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_links_to ON links(to_id);
CREATE INDEX IF NOT EXISTS idx_links_from_type ON links(from_id, type);

CREATE TABLE IF NOT EXISTS labels (
	issue_id TEXT NOT NULL,
	label    TEXT NOT NULL,
	PRIMARY KEY (issue_id, label),
	FOREIGN KEY (issue_id) REFERENCES issues(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_labels_label ON labels(label);

CREATE TABLE IF NOT EXISTS comments (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	issue_id   TEXT NOT NULL,
	author     TEXT NOT NULL,
	body       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (issue_id) REFERENCES issues(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_comments_issue ON comments(issue_id);

-- Events are an append-only audit trail; nothing ever updates or deletes a
-- row here (spec.md's immutability invariant).
CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	issue_id   TEXT NOT NULL,
	kind       TEXT NOT NULL,
	field      TEXT NOT NULL DEFAULT '',
	before     TEXT NOT NULL DEFAULT '',
	after      TEXT NOT NULL DEFAULT '',
	actor      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (issue_id) REFERENCES issues(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_events_issue ON events(issue_id);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// SchemaVersion is the version this package's schema produces. Open and
// OpenReadOnly compare it against the meta "schema_version" key and return
// storage.ErrSchemaMismatch when an existing database carries any other
// version.
const SchemaVersion = "1"
