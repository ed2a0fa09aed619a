package engine

import (
	"time"

	"questboard/internal/calendar"
	"questboard/internal/storage"
)

// Streak counts consecutive days, ending today, with at least one completion.
// A day without completions today means a streak of 0, even if yesterday had some.
func Streak(tasks []storage.Task, cal calendar.Calendar, now time.Time) int {
	days := completionDays(tasks, cal)
	streak := 0
	day := cal.StartOfDay(now)
	for days[cal.DayKey(day)] {
		streak++
		day = cal.AddDays(day, -1)
	}
	return streak
}

func completionDays(tasks []storage.Task, cal calendar.Calendar) map[string]bool {
	days := make(map[string]bool)
	for _, t := range tasks {
		if t.Done && t.DoneAt != nil {
			days[cal.DayKey(*t.DoneAt)] = true
		}
	}
	return days
}
