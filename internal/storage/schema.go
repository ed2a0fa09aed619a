package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,

			done INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			done_at DATETIME,

			priority TEXT NOT NULL DEFAULT 'MID',
			due_date TEXT,
			tags TEXT,
			estimate_minutes INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			owner_id TEXT PRIMARY KEY,
			daily_goal_xp INTEGER NOT NULL DEFAULT 60,
			bonus_xp INTEGER NOT NULL DEFAULT 0
		);`,
		// One row per claimed quest instance; the primary key is what makes a
		// second claim of the same key fail.
		`CREATE TABLE IF NOT EXISTS claims (
			owner_id TEXT NOT NULL,
			claim_key TEXT NOT NULL,
			base_reward_xp INTEGER NOT NULL,
			bonus_xp INTEGER NOT NULL,
			label TEXT NOT NULL,
			claimed_at DATETIME NOT NULL,
			PRIMARY KEY (owner_id, claim_key),
			FOREIGN KEY(owner_id) REFERENCES settings(owner_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_owner_id ON tasks(owner_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_done ON tasks(owner_id, done);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
