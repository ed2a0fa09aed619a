package engine

import (
	"time"

	"questboard/internal/calendar"
	"questboard/internal/storage"
)

// State is everything the engine derives from: the owner's tasks and settings.
type State struct {
	Tasks    []storage.Task
	Settings storage.Settings
}

// Clone returns a deep copy so optimistic edits never alias a snapshot.
func (s State) Clone() State {
	out := State{Settings: s.Settings.Clone()}
	if s.Tasks != nil {
		out.Tasks = make([]storage.Task, len(s.Tasks))
		for i, t := range s.Tasks {
			out.Tasks[i] = t.Clone()
		}
	}
	return out
}

func (s State) findTask(id string) (int, bool) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Stats is the aggregate view quests, badges and dashboards read from.
type Stats struct {
	Now     time.Time
	DayKey  string
	WeekKey string

	TotalXP int
	Level   LevelState
	Title   string

	XPToday     int
	XPWeek      int
	MinutesWeek int

	DoneToday int
	HighToday int
	DoneWeek  int
	HighWeek  int

	DoneCount   int
	ActiveCount int
	Streak      int

	DailyGoalXP   int
	DailyProgress float64
}

// TotalXP is the base XP of every done task plus the claimed bonus pool.
func TotalXP(st State) int {
	sum := st.Settings.BonusXP
	for _, t := range st.Tasks {
		if t.Done {
			sum += BaseXPFor(t.Priority)
		}
	}
	return sum
}

// XPOnDate sums base XP of tasks completed on dayKey and the loot bonus of
// claims made that day.
func XPOnDate(st State, cal calendar.Calendar, dayKey string) int {
	return sumXP(st, func(t time.Time) bool { return cal.DayKey(t) == dayKey })
}

// XPInWeek is XPOnDate for a whole Monday-based week.
func XPInWeek(st State, cal calendar.Calendar, weekKey string) int {
	return sumXP(st, func(t time.Time) bool { return cal.WeekKey(t) == weekKey })
}

func sumXP(st State, in func(time.Time) bool) int {
	sum := 0
	for _, t := range st.Tasks {
		if t.Done && t.DoneAt != nil && in(*t.DoneAt) {
			sum += BaseXPFor(t.Priority)
		}
	}
	for _, c := range st.Settings.Claimed {
		if c.ClaimedAt.IsZero() {
			continue
		}
		if in(c.ClaimedAt) {
			sum += c.BonusXP
		}
	}
	return sum
}

// MinutesInWeek sums estimates of tasks completed in weekKey. Missing estimates count as 0.
func MinutesInWeek(tasks []storage.Task, cal calendar.Calendar, weekKey string) int {
	sum := 0
	for _, t := range tasks {
		if !t.Done || t.DoneAt == nil || t.EstimateMinutes == nil {
			continue
		}
		if cal.WeekKey(*t.DoneAt) == weekKey {
			sum += *t.EstimateMinutes
		}
	}
	return sum
}

// Aggregate computes every derived number for st at now.
func Aggregate(st State, cal calendar.Calendar, now time.Time) Stats {
	s := Stats{
		Now:     now,
		DayKey:  cal.DayKey(now),
		WeekKey: cal.WeekKey(now),
	}

	s.TotalXP = TotalXP(st)
	s.Level = ComputeLevel(s.TotalXP)
	s.Title = TitleForLevel(s.Level.Level)
	s.XPToday = XPOnDate(st, cal, s.DayKey)
	s.XPWeek = XPInWeek(st, cal, s.WeekKey)
	s.MinutesWeek = MinutesInWeek(st.Tasks, cal, s.WeekKey)
	s.Streak = Streak(st.Tasks, cal, now)

	for _, t := range st.Tasks {
		if !t.Done {
			s.ActiveCount++
			continue
		}
		s.DoneCount++
		if t.DoneAt == nil {
			continue
		}
		high := Priority(t.Priority) == PriorityHigh
		if cal.DayKey(*t.DoneAt) == s.DayKey {
			s.DoneToday++
			if high {
				s.HighToday++
			}
		}
		if cal.WeekKey(*t.DoneAt) == s.WeekKey {
			s.DoneWeek++
			if high {
				s.HighWeek++
			}
		}
	}

	s.DailyGoalXP = ClampDailyGoal(st.Settings.DailyGoalXP)
	s.DailyProgress = clampFloat(float64(s.XPToday)/float64(max(1, s.DailyGoalXP)), 0, 1)
	return s
}
