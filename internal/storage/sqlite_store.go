package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteStore is the local-file Gateway.
type SQLiteStore struct {
	db       *sql.DB
	tasks    *TaskRepo
	settings *SettingsRepo
	claims   *ClaimRepo

	Now func() time.Time
}

// OpenSQLiteStore opens the database at path (see ResolveDBPath) and migrates it.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	resolved, err := ResolveDBPath(path)
	if err != nil {
		return nil, err
	}
	db, err := Open(ctx, resolved)
	if err != nil {
		return nil, err
	}
	return NewSQLiteStore(db), nil
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db:       db,
		tasks:    NewTaskRepo(db),
		settings: NewSettingsRepo(db),
		claims:   NewClaimRepo(db),
		Now:      time.Now,
	}
}

func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) CreateTask(ctx context.Context, ownerID string, in TaskInsert) (Task, error) {
	t, err := s.tasks.Insert(ctx, ownerID, in, s.Now().UTC())
	if err != nil {
		return Task{}, err
	}
	if t == nil {
		return Task{}, fmt.Errorf("task insert: %w", ErrNotFound)
	}
	return *t, nil
}

func (s *SQLiteStore) ListTasks(ctx context.Context, ownerID string) ([]Task, error) {
	return s.tasks.ListByOwner(ctx, ownerID)
}

func (s *SQLiteStore) UpdateTask(ctx context.Context, id string, patch TaskPatch) error {
	return s.tasks.UpdateDone(ctx, id, patch.Done, patch.DoneAt)
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, []string{id})
}

func (s *SQLiteStore) DeleteTasks(ctx context.Context, ids []string) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return NewTaskRepo(tx).Delete(ctx, ids)
	})
}

func (s *SQLiteStore) GetSettings(ctx context.Context, ownerID string) (Settings, error) {
	st, err := s.settings.Get(ctx, ownerID)
	if err != nil {
		return Settings{}, err
	}
	if st == nil {
		return Settings{}, fmt.Errorf("settings %s: %w", ownerID, ErrNotFound)
	}
	claimed, err := s.claims.ListByOwner(ctx, ownerID)
	if err != nil {
		return Settings{}, err
	}
	st.Claimed = claimed
	return *st, nil
}

func (s *SQLiteStore) UpsertSettings(ctx context.Context, ownerID string, defaults Settings) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		row := defaults
		row.OwnerID = ownerID
		inserted, err := NewSettingsRepo(tx).InsertIfAbsent(ctx, row)
		if err != nil || !inserted {
			return err
		}
		claims := NewClaimRepo(tx)
		for key, rec := range defaults.Claimed {
			if _, err := claims.Insert(ctx, ownerID, key, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) UpdateSettings(ctx context.Context, ownerID string, patch SettingsPatch) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		settings := NewSettingsRepo(tx)
		if patch.DailyGoalXP != nil {
			if err := settings.UpdateDailyGoal(ctx, ownerID, *patch.DailyGoalXP); err != nil {
				return err
			}
		}
		if patch.BonusXP != nil {
			if err := settings.UpdateBonus(ctx, ownerID, *patch.BonusXP); err != nil {
				return err
			}
		}
		if patch.Claimed != nil {
			if err := NewClaimRepo(tx).ReplaceAll(ctx, ownerID, patch.Claimed); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) ClaimSettings(ctx context.Context, ownerID string, key string, rec ClaimRecord, award int) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := NewSettingsRepo(tx).AddBonus(ctx, ownerID, award); err != nil {
			return err
		}
		inserted, err := NewClaimRepo(tx).Insert(ctx, ownerID, key, rec)
		if err != nil {
			return err
		}
		if !inserted {
			return fmt.Errorf("claim %s: %w", key, ErrAlreadyClaimed)
		}
		return nil
	})
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
