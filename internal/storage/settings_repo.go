package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type SettingsRepo struct {
	db execer
}

func NewSettingsRepo(db execer) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get returns the settings row without claims, or nil when absent.
func (r *SettingsRepo) Get(ctx context.Context, ownerID string) (*Settings, error) {
	row := r.db.QueryRowContext(ctx, `SELECT owner_id, daily_goal_xp, bonus_xp FROM settings WHERE owner_id = ?`, ownerID)

	var s Settings
	if err := row.Scan(&s.OwnerID, &s.DailyGoalXP, &s.BonusXP); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("settings get: %w", err)
	}
	return &s, nil
}

func (r *SettingsRepo) InsertIfAbsent(ctx context.Context, s Settings) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (owner_id, daily_goal_xp, bonus_xp) VALUES (?, ?, ?)
		ON CONFLICT(owner_id) DO NOTHING
	`, s.OwnerID, s.DailyGoalXP, s.BonusXP)
	if err != nil {
		return false, fmt.Errorf("settings insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("settings insert rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SettingsRepo) UpdateDailyGoal(ctx context.Context, ownerID string, goal int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE settings SET daily_goal_xp = ? WHERE owner_id = ?`, goal, ownerID)
	if err != nil {
		return fmt.Errorf("settings update goal: %w", err)
	}
	return requireRow(res, "settings "+ownerID)
}

func (r *SettingsRepo) UpdateBonus(ctx context.Context, ownerID string, bonus int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE settings SET bonus_xp = ? WHERE owner_id = ?`, bonus, ownerID)
	if err != nil {
		return fmt.Errorf("settings update bonus: %w", err)
	}
	return requireRow(res, "settings "+ownerID)
}

func (r *SettingsRepo) AddBonus(ctx context.Context, ownerID string, delta int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE settings SET bonus_xp = bonus_xp + ? WHERE owner_id = ?`, delta, ownerID)
	if err != nil {
		return fmt.Errorf("settings add bonus: %w", err)
	}
	return requireRow(res, "settings "+ownerID)
}
