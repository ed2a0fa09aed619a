package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"questboard/internal/calendar"
)

type TaskRepo struct {
	db execer
}

func NewTaskRepo(db execer) *TaskRepo {
	return &TaskRepo{db: db}
}

const taskColumns = `id, owner_id, title, done, created_at, done_at, priority, due_date, tags, estimate_minutes`

func (r *TaskRepo) Insert(ctx context.Context, ownerID string, in TaskInsert, createdAt time.Time) (*Task, error) {
	tagsJSON, err := marshalTags(in.Tags)
	if err != nil {
		return nil, err
	}
	var due *string
	if in.DueDate != nil {
		v := calendar.DueKey(*in.DueDate)
		due = &v
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, owner_id, title,
			done, created_at,
			priority, due_date, tags, estimate_minutes
		) VALUES (?, ?, ?, 0, ?, ?, ?, ?, ?)
	`, id, ownerID, in.Title, createdAt, in.Priority, due, tagsJSON, in.EstimateMinutes)
	if err != nil {
		return nil, fmt.Errorf("task insert: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *TaskRepo) Get(ctx context.Context, id string) (*Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTaskRow(row)
}

func (r *TaskRepo) ListByOwner(ctx context.Context, ownerID string) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE owner_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task list rows: %w", err)
	}
	return out, nil
}

func (r *TaskRepo) UpdateDone(ctx context.Context, id string, done bool, doneAt *time.Time) error {
	if !done {
		doneAt = nil
	}
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET done = ?, done_at = ? WHERE id = ?`, boolToInt(done), doneAt, id)
	if err != nil {
		return fmt.Errorf("task update done: %w", err)
	}
	return requireRow(res, "task "+id)
}

func (r *TaskRepo) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("task delete: %w", err)
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func requireRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

func marshalTags(tags []string) (*string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	s := string(data)
	return &s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(row scanner) (*Task, error) {
	var (
		t        Task
		done     int
		doneAt   sql.NullTime
		dueDate  sql.NullString
		tagsRaw  sql.NullString
		estimate sql.NullInt64
	)

	if err := row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &done, &t.CreatedAt, &doneAt,
		&t.Priority, &dueDate, &tagsRaw, &estimate,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("task scan: %w", err)
	}

	t.Done = done != 0
	if doneAt.Valid && t.Done {
		v := doneAt.Time
		t.DoneAt = &v
	}
	if dueDate.Valid && dueDate.String != "" {
		d, err := calendar.ParseDate(dueDate.String)
		if err != nil {
			return nil, fmt.Errorf("task due date: %w", err)
		}
		t.DueDate = &d
	}
	if estimate.Valid {
		v := int(estimate.Int64)
		t.EstimateMinutes = &v
	}
	if tagsRaw.Valid && tagsRaw.String != "" {
		if err := json.Unmarshal([]byte(tagsRaw.String), &t.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	return &t, nil
}
