package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. It runs on every boot, so every
// statement is idempotent. The two log tables are append-only by contract:
// no repository method updates or deletes their rows.
func (db *DB) RunMigrations() error {
	migration := `
-- Phases table
CREATE TABLE IF NOT EXISTS phases (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    theme TEXT NOT NULL DEFAULT '',
    success_criteria TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL CHECK(status IN ('active', 'planned', 'closing', 'archived')),
    start_date TIMESTAMP NOT NULL,
    progress INTEGER NOT NULL DEFAULT 0,
    description TEXT NOT NULL DEFAULT '',
    time_horizon TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_phase_status ON phases(status);

-- Projects table
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    phase_id TEXT NOT NULL,
    name TEXT NOT NULL,
    purpose TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL CHECK(status IN ('active', 'parked', 'blocked', 'complete', 'archived')),
    next_action TEXT NOT NULL DEFAULT '',
    stall_reason TEXT,
    blocked_at TIMESTAMP,
    area_of_life TEXT NOT NULL DEFAULT '',
    last_active TIMESTAMP NOT NULL,
    FOREIGN KEY (phase_id) REFERENCES phases(id)
);
CREATE INDEX IF NOT EXISTS idx_project_phase ON projects(phase_id);
CREATE INDEX IF NOT EXISTS idx_project_status ON projects(status);

-- Milestones, owned exclusively by their project
CREATE TABLE IF NOT EXISTS milestones (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    title TEXT NOT NULL,
    sequence INTEGER NOT NULL,
    is_completed INTEGER NOT NULL DEFAULT 0,
    completed_at TIMESTAMP,
    FOREIGN KEY (project_id) REFERENCES projects(id)
);
CREATE INDEX IF NOT EXISTS idx_milestone_project ON milestones(project_id);

-- Captures table
CREATE TABLE IF NOT EXISTS captures (
    id TEXT PRIMARY KEY,
    text TEXT NOT NULL,
    source TEXT NOT NULL CHECK(source IN ('text', 'voice', 'screenshot', 'forwarded')),
    captured_at TIMESTAMP NOT NULL,
    importance TEXT NOT NULL CHECK(importance IN ('unclassified', 'important', 'interesting')),
    status TEXT NOT NULL CHECK(status IN ('unprocessed', 'absorbed', 'parked')),
    associated_project_id TEXT,
    extracted_next_step TEXT,
    FOREIGN KEY (associated_project_id) REFERENCES projects(id)
);
CREATE INDEX IF NOT EXISTS idx_capture_status ON captures(status);

-- Activity log (append-only)
CREATE TABLE IF NOT EXISTS activity_log (
    id TEXT PRIMARY KEY,
    action_type TEXT NOT NULL,
    linked_phase_id TEXT,
    linked_project_id TEXT,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activity_created ON activity_log(created_at);
CREATE INDEX IF NOT EXISTS idx_activity_type ON activity_log(action_type);

-- Momentum log (append-only)
CREATE TABLE IF NOT EXISTS momentum_log (
    id TEXT PRIMARY KEY,
    action_type TEXT NOT NULL,
    points INTEGER NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_momentum_created ON momentum_log(created_at);

-- Decisions table
CREATE TABLE IF NOT EXISTS decisions (
    id TEXT PRIMARY KEY,
    statement TEXT NOT NULL,
    context TEXT NOT NULL DEFAULT '',
    tradeoffs TEXT NOT NULL DEFAULT '',
    project_id TEXT,
    phase_id TEXT NOT NULL,
    reversibility TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (phase_id) REFERENCES phases(id),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);
CREATE INDEX IF NOT EXISTS idx_decision_phase ON decisions(phase_id);

-- Insights table
CREATE TABLE IF NOT EXISTS insights (
    id TEXT PRIMARY KEY,
    statement TEXT NOT NULL,
    source TEXT NOT NULL CHECK(source IN ('reflection', 'ai', 'experience')),
    implication TEXT NOT NULL DEFAULT '',
    phase_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (phase_id) REFERENCES phases(id)
);
CREATE INDEX IF NOT EXISTS idx_insight_phase ON insights(phase_id);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
