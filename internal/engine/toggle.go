package engine

import (
	"context"

	"questboard/internal/storage"
)

type ToggleResult struct {
	TaskID      string
	Done        bool
	Changed     bool
	XPDelta     int // +base XP when completed, -base XP when reopened
	LevelBefore int
	LevelAfter  int
	LevelUp     bool
}

// ToggleDone flips a task between done and not done.
func (s *Service) ToggleDone(ctx context.Context, id string) (*ToggleResult, error) {
	t, err := s.FindTask(id)
	if err != nil {
		return nil, err
	}
	return s.SetDone(ctx, t.ID, !t.Done)
}

// SetDone marks a task done (stamping doneAt with now) or reopens it (clearing
// doneAt). Asking for the state the task is already in is a no-op.
func (s *Service) SetDone(ctx context.Context, id string, done bool) (*ToggleResult, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	now := s.now()
	before := s.current()
	idx, ok := before.findTask(id)
	if !ok {
		return nil, NotFoundError{TaskID: id}
	}
	task := before.Tasks[idx]
	levelBefore := ComputeLevel(TotalXP(before)).Level

	res := &ToggleResult{TaskID: id, Done: done, LevelBefore: levelBefore, LevelAfter: levelBefore}
	if task.Done == done {
		return res, nil
	}

	patch := storage.TaskPatch{Done: done}
	if done {
		at := now.UTC()
		patch.DoneAt = &at
	}

	var after State
	err := s.attempt(ctx, "update task", func(st State) (State, error) {
		st.Tasks[idx].Done = patch.Done
		st.Tasks[idx].DoneAt = patch.DoneAt
		after = st
		return st, nil
	}, func(ctx context.Context) error {
		return s.gw.UpdateTask(ctx, id, patch)
	})
	if err != nil {
		return nil, err
	}

	res.Changed = true
	res.XPDelta = BaseXPFor(task.Priority)
	if !done {
		res.XPDelta = -res.XPDelta
	}
	res.LevelAfter = ComputeLevel(TotalXP(after)).Level
	res.LevelUp = res.LevelAfter > res.LevelBefore
	if res.LevelUp {
		s.logger.Info("level up", "from", res.LevelBefore, "to", res.LevelAfter, "title", TitleForLevel(res.LevelAfter))
	}
	return res, nil
}
