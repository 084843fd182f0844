package devbackend

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

CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS objectives (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	due_date    TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'NOT_STARTED'
		CHECK(status IN ('NOT_STARTED', 'IN_PROGRESS', 'COMPLETED')),
	priority    TEXT NOT NULL DEFAULT 'medium'
		CHECK(priority IN ('low', 'medium', 'high')),
	seq         INTEGER NOT NULL,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	due_date    TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'TODO'
		CHECK(status IN ('TODO', 'IN_PROGRESS', 'COMPLETED')),
	priority    TEXT NOT NULL DEFAULT 'MEDIUM'
		CHECK(priority IN ('LOW', 'MEDIUM', 'HIGH')),
	goal_id     TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '[]',
	seq         INTEGER NOT NULL,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS notes (
	id                 TEXT PRIMARY KEY,
	user_id            TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title              TEXT NOT NULL,
	content            TEXT NOT NULL DEFAULT '',
	has_ai_summary     INTEGER NOT NULL DEFAULT 0 CHECK(has_ai_summary IN (0, 1)),
	ai_summary         TEXT NOT NULL DEFAULT '',
	related_objective  TEXT NOT NULL DEFAULT '',
	related_task_id    TEXT NOT NULL DEFAULT '',
	related_task_title TEXT NOT NULL DEFAULT '',
	seq                INTEGER NOT NULL,
	created_at         DATETIME NOT NULL,
	updated_at         DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_objectives_user ON objectives(user_id, seq);
CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id, seq);
CREATE INDEX IF NOT EXISTS idx_tasks_goal ON tasks(user_id, goal_id);
CREATE INDEX IF NOT EXISTS idx_notes_user ON notes(user_id, seq);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS chat_sessions (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title      TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL REFERENCES chat_sessions(id) ON DELETE CASCADE,
	role       TEXT NOT NULL CHECK(role IN ('user', 'assistant')),
	content    TEXT NOT NULL,
	type       TEXT NOT NULL DEFAULT 'text',
	metadata   TEXT NOT NULL DEFAULT '',
	seq        INTEGER NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chat_sessions_user ON chat_sessions(user_id, seq);
CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id, seq);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
