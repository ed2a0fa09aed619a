package engine

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"questboard/internal/calendar"
	"questboard/internal/storage"
)

type DueFilter string

const (
	DueAll     DueFilter = ""
	DueOverdue DueFilter = "OVERDUE"
	DueToday   DueFilter = "TODAY"
	DueWeek    DueFilter = "WEEK"
)

// ParseDueFilter accepts all|overdue|today|week (any case). Empty means all.
func ParseDueFilter(input string) (DueFilter, error) {
	switch strings.ToUpper(strings.TrimSpace(input)) {
	case "", "ALL":
		return DueAll, nil
	case "OVERDUE":
		return DueOverdue, nil
	case "TODAY":
		return DueToday, nil
	case "WEEK":
		return DueWeek, nil
	default:
		return "", ValidationError{Field: "due", Reason: "expected all, overdue, today or week"}
	}
}

// Filter narrows a task list. Zero values match everything.
type Filter struct {
	Query    string
	Tag      string
	Priority Priority
	Due      DueFilter
}

// FilteredSortedView applies text, tag, priority and due filters in that
// order, then sorts: incomplete first, higher priority first, earlier due date
// first (no due date last), newest first. The input slice is not modified.
func FilteredSortedView(tasks []storage.Task, f Filter, cal calendar.Calendar, now time.Time) []storage.Task {
	today := cal.StartOfDay(now)
	weekEnd := cal.AddDays(today, 7)
	folder := cases.Fold()
	query := folder.String(strings.TrimSpace(f.Query))

	out := make([]storage.Task, 0, len(tasks))
	for _, t := range tasks {
		if query != "" {
			hay := folder.String(t.Title + " " + strings.Join(t.Tags, " "))
			if !strings.Contains(hay, query) {
				continue
			}
		}
		if f.Tag != "" && !hasTag(t.Tags, f.Tag) {
			continue
		}
		if f.Priority != "" && Priority(t.Priority) != f.Priority {
			continue
		}
		if !matchDue(t, f.Due, cal, today, weekEnd) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Done != b.Done {
			return !a.Done
		}
		if wa, wb := Priority(a.Priority).Weight(), Priority(b.Priority).Weight(); wa != wb {
			return wa > wb
		}
		if da, db := a.DueDate, b.DueDate; (da == nil) != (db == nil) {
			return da != nil
		} else if da != nil && !cal.DateOf(*da).Equal(cal.DateOf(*db)) {
			return cal.DateOf(*da).Before(cal.DateOf(*db))
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out
}

func matchDue(t storage.Task, due DueFilter, cal calendar.Calendar, today, weekEnd time.Time) bool {
	if due == DueAll {
		return true
	}
	if t.Done || t.DueDate == nil {
		return false
	}
	d := cal.DateOf(*t.DueDate)
	switch due {
	case DueOverdue:
		return d.Before(today)
	case DueToday:
		return d.Equal(today)
	case DueWeek:
		return !d.Before(today) && !d.After(weekEnd)
	default:
		return true
	}
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DistinctTags returns every tag in use, ordered by the collation rules of locale.
func DistinctTags(tasks []storage.Task, locale language.Tag) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range tasks {
		for _, tag := range t.Tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	collate.New(locale).SortStrings(out)
	return out
}
