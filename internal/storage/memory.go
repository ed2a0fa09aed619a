package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps everything in process memory (tests, --store memory).
type MemoryStore struct {
	mu       sync.RWMutex
	tasks    map[string]Task
	order    []string
	settings map[string]Settings

	// Now stamps CreatedAt on inserted tasks. Defaults to time.Now.
	Now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:    make(map[string]Task),
		settings: make(map[string]Settings),
		Now:      time.Now,
	}
}

func (s *MemoryStore) CreateTask(ctx context.Context, ownerID string, in TaskInsert) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Task{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		Title:           in.Title,
		CreatedAt:       s.Now().UTC(),
		Priority:        in.Priority,
		DueDate:         in.DueDate,
		Tags:            in.Tags,
		EstimateMinutes: in.EstimateMinutes,
	}
	t = t.Clone()
	s.tasks[t.ID] = t
	s.order = append(s.order, t.ID)
	return t.Clone(), nil
}

func (s *MemoryStore) ListTasks(ctx context.Context, ownerID string) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Newest first, matching the SQL stores.
	out := make([]Task, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		t, ok := s.tasks[s.order[i]]
		if !ok || t.OwnerID != ownerID {
			continue
		}
		out = append(out, t.Clone())
	}
	return out, nil
}

func (s *MemoryStore) UpdateTask(ctx context.Context, id string, patch TaskPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	t.Done = patch.Done
	t.DoneAt = nil
	if patch.Done && patch.DoneAt != nil {
		v := *patch.DoneAt
		t.DoneAt = &v
	}
	s.tasks[id] = t
	return nil
}

func (s *MemoryStore) DeleteTask(ctx context.Context, id string) error {
	return s.DeleteTasks(ctx, []string{id})
}

func (s *MemoryStore) DeleteTasks(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
		delete(s.tasks, id)
	}
	kept := s.order[:0]
	for _, id := range s.order {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	s.order = kept
	return nil
}

func (s *MemoryStore) GetSettings(ctx context.Context, ownerID string) (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.settings[ownerID]
	if !ok {
		return Settings{}, fmt.Errorf("settings %s: %w", ownerID, ErrNotFound)
	}
	return st.Clone(), nil
}

func (s *MemoryStore) UpsertSettings(ctx context.Context, ownerID string, defaults Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.settings[ownerID]; ok {
		return nil
	}
	st := defaults.Clone()
	st.OwnerID = ownerID
	s.settings[ownerID] = st
	return nil
}

func (s *MemoryStore) UpdateSettings(ctx context.Context, ownerID string, patch SettingsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.settings[ownerID]
	if !ok {
		return fmt.Errorf("settings %s: %w", ownerID, ErrNotFound)
	}
	if patch.DailyGoalXP != nil {
		st.DailyGoalXP = *patch.DailyGoalXP
	}
	if patch.BonusXP != nil {
		st.BonusXP = *patch.BonusXP
	}
	if patch.Claimed != nil {
		st.Claimed = Settings{Claimed: patch.Claimed}.Clone().Claimed
	}
	s.settings[ownerID] = st
	return nil
}

func (s *MemoryStore) ClaimSettings(ctx context.Context, ownerID string, key string, rec ClaimRecord, award int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.settings[ownerID]
	if !ok {
		return fmt.Errorf("settings %s: %w", ownerID, ErrNotFound)
	}
	if _, dup := st.Claimed[key]; dup {
		return fmt.Errorf("claim %s: %w", key, ErrAlreadyClaimed)
	}
	st = st.Clone()
	st.Claimed[key] = rec
	st.BonusXP += award
	s.settings[ownerID] = st
	return nil
}

func (s *MemoryStore) Close() error { return nil }
