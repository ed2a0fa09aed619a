package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"questboard/internal/storage"
)

// Store is the Postgres Gateway. Claims live in a JSONB column on the
// settings row, keyed by claim key.
type Store struct {
	pool *pgxpool.Pool

	Now func() time.Time
}

var _ storage.Gateway = (*Store)(nil)

// Open migrates databaseURL and connects a pool to it.
func Open(ctx context.Context, databaseURL string, logger *slog.Logger) (*Store, error) {
	if err := RunMigrations(databaseURL, logger); err != nil {
		return nil, err
	}
	pool, err := NewPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return New(pool), nil
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, Now: time.Now}
}

const taskColumns = `id::text, owner_id, title, done, created_at, done_at, priority, due_date, tags, estimate_minutes`

func (s *Store) CreateTask(ctx context.Context, ownerID string, in storage.TaskInsert) (storage.Task, error) {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO tasks (id, owner_id, title, created_at, priority, due_date, tags, estimate_minutes)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+taskColumns,
		uuid.NewString(), ownerID, in.Title, s.Now().UTC(), in.Priority, in.DueDate, tags, in.EstimateMinutes,
	)
	t, err := scanTask(row)
	if err != nil {
		return storage.Task{}, fmt.Errorf("task insert: %w", err)
	}
	return t, nil
}

func (s *Store) ListTasks(ctx context.Context, ownerID string) ([]storage.Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	defer rows.Close()

	var out []storage.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("task scan: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task list rows: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateTask(ctx context.Context, id string, patch storage.TaskPatch) error {
	doneAt := patch.DoneAt
	if !patch.Done {
		doneAt = nil
	}
	tag, err := s.pool.Exec(ctx, `UPDATE tasks SET done = $2, done_at = $3 WHERE id = $1::uuid`, id, patch.Done, doneAt)
	if err != nil {
		return fmt.Errorf("task update done: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return s.DeleteTasks(ctx, []string{id})
}

func (s *Store) DeleteTasks(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = ANY($1::uuid[])`, ids); err != nil {
		return fmt.Errorf("task delete: %w", err)
	}
	return nil
}

func (s *Store) GetSettings(ctx context.Context, ownerID string) (storage.Settings, error) {
	st := storage.Settings{OwnerID: ownerID}
	var claimed []byte
	err := s.pool.QueryRow(ctx, `
		SELECT daily_goal_xp, bonus_xp, claimed FROM settings WHERE owner_id = $1
	`, ownerID).Scan(&st.DailyGoalXP, &st.BonusXP, &claimed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.Settings{}, fmt.Errorf("settings %s: %w", ownerID, storage.ErrNotFound)
		}
		return storage.Settings{}, fmt.Errorf("settings get: %w", err)
	}
	st.Claimed = map[string]storage.ClaimRecord{}
	if len(claimed) > 0 {
		if err := json.Unmarshal(claimed, &st.Claimed); err != nil {
			return storage.Settings{}, fmt.Errorf("unmarshal claimed: %w", err)
		}
	}
	return st, nil
}

func (s *Store) UpsertSettings(ctx context.Context, ownerID string, defaults storage.Settings) error {
	claimed, err := marshalClaimed(defaults.Claimed)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO settings (owner_id, daily_goal_xp, bonus_xp, claimed)
		VALUES ($1, $2, $3, $4::jsonb)
		ON CONFLICT (owner_id) DO NOTHING
	`, ownerID, defaults.DailyGoalXP, defaults.BonusXP, claimed)
	if err != nil {
		return fmt.Errorf("settings insert: %w", err)
	}
	return nil
}

func (s *Store) UpdateSettings(ctx context.Context, ownerID string, patch storage.SettingsPatch) error {
	var claimed *string
	if patch.Claimed != nil {
		v, err := marshalClaimed(patch.Claimed)
		if err != nil {
			return err
		}
		claimed = &v
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE settings SET
			daily_goal_xp = COALESCE($2, daily_goal_xp),
			bonus_xp      = COALESCE($3, bonus_xp),
			claimed       = COALESCE($4::jsonb, claimed)
		WHERE owner_id = $1
	`, ownerID, patch.DailyGoalXP, patch.BonusXP, claimed)
	if err != nil {
		return fmt.Errorf("settings update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("settings %s: %w", ownerID, storage.ErrNotFound)
	}
	return nil
}

// ClaimSettings adds key to claimed and award to bonus_xp only if key is not
// already present, in a single conditional UPDATE.
func (s *Store) ClaimSettings(ctx context.Context, ownerID string, key string, rec storage.ClaimRecord, award int) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal claim: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE settings SET
			claimed  = claimed || jsonb_build_object($2::text, $3::jsonb),
			bonus_xp = bonus_xp + $4
		WHERE owner_id = $1 AND NOT (claimed ? $2::text)
	`, ownerID, key, string(payload), award)
	if err != nil {
		return fmt.Errorf("settings claim: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM settings WHERE owner_id = $1)`, ownerID).Scan(&exists); err != nil {
			return fmt.Errorf("settings exists: %w", err)
		}
		if !exists {
			return fmt.Errorf("settings %s: %w", ownerID, storage.ErrNotFound)
		}
		return fmt.Errorf("claim %s: %w", key, storage.ErrAlreadyClaimed)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func marshalClaimed(claimed map[string]storage.ClaimRecord) (string, error) {
	if claimed == nil {
		claimed = map[string]storage.ClaimRecord{}
	}
	data, err := json.Marshal(claimed)
	if err != nil {
		return "", fmt.Errorf("marshal claimed: %w", err)
	}
	return string(data), nil
}

func scanTask(row pgx.Row) (storage.Task, error) {
	var (
		t        storage.Task
		doneAt   *time.Time
		due      *time.Time
		estimate *int32
	)
	if err := row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Done, &t.CreatedAt, &doneAt,
		&t.Priority, &due, &t.Tags, &estimate,
	); err != nil {
		return storage.Task{}, err
	}
	if t.Done {
		t.DoneAt = doneAt
	}
	if due != nil {
		d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
		t.DueDate = &d
	}
	if estimate != nil {
		v := int(*estimate)
		t.EstimateMinutes = &v
	}
	if len(t.Tags) == 0 {
		t.Tags = nil
	}
	return t, nil
}
