package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent so the full
// list is replayed on every startup.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                   TEXT PRIMARY KEY,
		login                TEXT NOT NULL UNIQUE COLLATE NOCASE,
		password_hash        TEXT NOT NULL,
		recovery_question    TEXT NOT NULL,
		recovery_answer_hash TEXT NOT NULL,
		created_at           TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS plans (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		topic       TEXT NOT NULL,
		total_days  INTEGER NOT NULL CHECK(total_days > 0),
		skill_level TEXT NOT NULL
		            CHECK(skill_level IN ('beginner','intermediate','advanced')),
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plans_user ON plans(user_id)`,

	`CREATE TABLE IF NOT EXISTS days (
		id        TEXT PRIMARY KEY,
		plan_id   TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		day_index INTEGER NOT NULL CHECK(day_index > 0),
		title     TEXT NOT NULL,
		UNIQUE(plan_id, day_index)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_days_plan ON days(plan_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id            TEXT PRIMARY KEY,
		day_id        TEXT NOT NULL REFERENCES days(id) ON DELETE CASCADE,
		description   TEXT NOT NULL,
		resource_link TEXT NOT NULL DEFAULT '',
		completed     INTEGER NOT NULL DEFAULT 0,
		position      INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_day ON tasks(day_id)`,

	`CREATE TABLE IF NOT EXISTS feedback (
		id         TEXT PRIMARY KEY,
		plan_id    TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		helpful    INTEGER NOT NULL,
		comment    TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		UNIQUE(plan_id, user_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_feedback_plan ON feedback(plan_id)`,
}
