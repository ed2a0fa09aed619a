package storage

import (
	"context"
	"fmt"
)

type ClaimRepo struct {
	db execer
}

func NewClaimRepo(db execer) *ClaimRepo {
	return &ClaimRepo{db: db}
}

// Insert stores rec under key. It reports false when key was already claimed.
func (r *ClaimRepo) Insert(ctx context.Context, ownerID, key string, rec ClaimRecord) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO claims (owner_id, claim_key, base_reward_xp, bonus_xp, label, claimed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, claim_key) DO NOTHING
	`, ownerID, key, rec.BaseRewardXP, rec.BonusXP, rec.Label, rec.ClaimedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("claim insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim insert rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *ClaimRepo) ListByOwner(ctx context.Context, ownerID string) (map[string]ClaimRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT claim_key, base_reward_xp, bonus_xp, label, claimed_at
		FROM claims
		WHERE owner_id = ?
		ORDER BY claim_key ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("claim list: %w", err)
	}
	defer rows.Close()

	out := map[string]ClaimRecord{}
	for rows.Next() {
		var (
			key string
			rec ClaimRecord
		)
		if err := rows.Scan(&key, &rec.BaseRewardXP, &rec.BonusXP, &rec.Label, &rec.ClaimedAt); err != nil {
			return nil, fmt.Errorf("claim scan: %w", err)
		}
		out[key] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("claim rows: %w", err)
	}
	return out, nil
}

// ReplaceAll overwrites every claim of ownerID with claimed.
func (r *ClaimRepo) ReplaceAll(ctx context.Context, ownerID string, claimed map[string]ClaimRecord) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM claims WHERE owner_id = ?`, ownerID); err != nil {
		return fmt.Errorf("claim clear: %w", err)
	}
	for key, rec := range claimed {
		if _, err := r.Insert(ctx, ownerID, key, rec); err != nil {
			return err
		}
	}
	return nil
}
