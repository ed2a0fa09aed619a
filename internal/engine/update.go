package engine

import (
	"context"

	"questboard/internal/storage"
)

// DeleteTask removes one task.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	idx, ok := s.current().findTask(id)
	if !ok {
		return NotFoundError{TaskID: id}
	}
	return s.attempt(ctx, "delete task", func(st State) (State, error) {
		st.Tasks = append(st.Tasks[:idx], st.Tasks[idx+1:]...)
		return st, nil
	}, func(ctx context.Context) error {
		return s.gw.DeleteTask(ctx, id)
	})
}

// ClearCompleted deletes every done task in one batch and returns how many
// were removed. With nothing done it does not touch the gateway.
func (s *Service) ClearCompleted(ctx context.Context) (int, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	var ids []string
	for _, t := range s.current().Tasks {
		if t.Done {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	err := s.attempt(ctx, "clear completed", func(st State) (State, error) {
		kept := st.Tasks[:0]
		for _, t := range st.Tasks {
			if !t.Done {
				kept = append(kept, t)
			}
		}
		st.Tasks = kept
		return st, nil
	}, func(ctx context.Context) error {
		return s.gw.DeleteTasks(ctx, ids)
	})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// SetDailyGoal stores a new daily XP goal after clamping it (0 means the
// default) and returns the value stored.
func (s *Service) SetDailyGoal(ctx context.Context, goal int) (int, error) {
	next := ClampDailyGoal(goal)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	err := s.attempt(ctx, "update daily goal", func(st State) (State, error) {
		st.Settings.DailyGoalXP = next
		return st, nil
	}, func(ctx context.Context) error {
		return s.gw.UpdateSettings(ctx, s.ownerID, storage.SettingsPatch{DailyGoalXP: &next})
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}
