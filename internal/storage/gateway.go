package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyClaimed = errors.New("reward already claimed")
)

// Gateway is the persistence boundary for one owner's tasks and settings.
// Implementations: MemoryStore, SQLiteStore and postgres.Store.
type Gateway interface {
	CreateTask(ctx context.Context, ownerID string, in TaskInsert) (Task, error)
	ListTasks(ctx context.Context, ownerID string) ([]Task, error)
	UpdateTask(ctx context.Context, id string, patch TaskPatch) error
	DeleteTask(ctx context.Context, id string) error
	DeleteTasks(ctx context.Context, ids []string) error

	GetSettings(ctx context.Context, ownerID string) (Settings, error)
	// UpsertSettings inserts defaults for ownerID when no row exists yet.
	// An existing row is left untouched.
	UpsertSettings(ctx context.Context, ownerID string, defaults Settings) error
	UpdateSettings(ctx context.Context, ownerID string, patch SettingsPatch) error
	// ClaimSettings records rec under key and adds award to the bonus XP in one
	// atomic step. It fails with ErrAlreadyClaimed when key is already present.
	ClaimSettings(ctx context.Context, ownerID string, key string, rec ClaimRecord, award int) error

	Close() error
}

var (
	_ Gateway = (*MemoryStore)(nil)
	_ Gateway = (*SQLiteStore)(nil)
)
