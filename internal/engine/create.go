package engine

import (
	"context"
	"time"

	"questboard/internal/storage"
)

type CreateTaskInput struct {
	Title           string
	Priority        Priority // empty means DefaultPriority
	DueDate         *time.Time
	Tags            []string
	EstimateMinutes int
}

type CreateResult struct {
	Task storage.Task
}

func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (*CreateResult, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	prio := in.Priority
	if prio == "" {
		prio = DefaultPriority
	}
	if !prio.IsValid() {
		return nil, ValidationError{Field: "priority", Reason: "unknown priority " + string(prio)}
	}
	var due *time.Time
	if in.DueDate != nil {
		d := time.Date(in.DueDate.Year(), in.DueDate.Month(), in.DueDate.Day(), 0, 0, 0, 0, time.UTC)
		due = &d
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()
	if !s.isLoaded() {
		return nil, ValidationError{Field: "session", Reason: "not loaded"}
	}

	// The gateway assigns the id, so the task joins the session only after
	// the insert succeeds; a failed insert leaves nothing to roll back.
	task, err := s.gw.CreateTask(ctx, s.ownerID, storage.TaskInsert{
		Title:           title,
		Priority:        string(prio),
		DueDate:         due,
		Tags:            NormalizeTags(in.Tags),
		EstimateMinutes: ClampEstimate(in.EstimateMinutes),
	})
	if err != nil {
		s.logger.Warn("task insert failed", "error", err)
		return nil, &PersistenceError{Op: "create task", Err: err}
	}

	s.mu.Lock()
	next := s.state.Clone()
	next.Tasks = append([]storage.Task{task.Clone()}, next.Tasks...)
	s.state = next
	s.mu.Unlock()

	s.logger.Debug("task created", "task", task.ID, "priority", task.Priority)
	return &CreateResult{Task: task}, nil
}
