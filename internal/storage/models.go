package storage

import "time"

type Task struct {
	ID              string
	OwnerID         string
	Title           string
	Done            bool
	CreatedAt       time.Time
	DoneAt          *time.Time
	Priority        string
	DueDate         *time.Time // calendar date, midnight UTC
	Tags            []string
	EstimateMinutes *int
}

// TaskInsert is what the caller supplies; the gateway assigns ID and CreatedAt.
type TaskInsert struct {
	Title           string
	Priority        string
	DueDate         *time.Time
	Tags            []string
	EstimateMinutes *int
}

// TaskPatch carries the done-state update. DoneAt must be nil when Done is false.
type TaskPatch struct {
	Done   bool
	DoneAt *time.Time
}

type ClaimRecord struct {
	BaseRewardXP int       `json:"baseRewardXp"`
	BonusXP      int       `json:"bonusXp"`
	Label        string    `json:"label"`
	ClaimedAt    time.Time `json:"at"`
}

type Settings struct {
	OwnerID     string
	DailyGoalXP int
	BonusXP     int
	Claimed     map[string]ClaimRecord
}

// SettingsPatch updates only the non-nil fields.
type SettingsPatch struct {
	DailyGoalXP *int
	BonusXP     *int
	Claimed     map[string]ClaimRecord
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	out := t
	if t.DoneAt != nil {
		v := *t.DoneAt
		out.DoneAt = &v
	}
	if t.DueDate != nil {
		v := *t.DueDate
		out.DueDate = &v
	}
	if t.EstimateMinutes != nil {
		v := *t.EstimateMinutes
		out.EstimateMinutes = &v
	}
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	return out
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	out := s
	out.Claimed = make(map[string]ClaimRecord, len(s.Claimed))
	for k, v := range s.Claimed {
		out.Claimed[k] = v
	}
	return out
}
