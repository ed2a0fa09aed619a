// Package calendar buckets instants into local calendar days and Monday-based weeks.
//
// Every "today", "this week" and "overdue" comparison in questboard goes through a
// Calendar so that all of them agree on the same zone and the same week boundary.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the YYYY-MM-DD layout used for day keys, week keys and due dates.
const DateLayout = "2006-01-02"

// Calendar buckets times in a single location.
type Calendar struct {
	loc *time.Location
}

// New returns a Calendar bound to loc. A nil loc means time.Local.
func New(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{loc: loc}
}

// Local returns a Calendar for the process-local zone.
func Local() Calendar {
	return New(time.Local)
}

// Load returns a Calendar for an IANA zone name. "" and "Local" map to time.Local.
func Load(name string) (Calendar, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return Local(), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Calendar{}, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return New(loc), nil
}

func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// StartOfDay truncates t to local midnight.
func (c Calendar) StartOfDay(t time.Time) time.Time {
	lt := t.In(c.Location())
	y, m, d := lt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.Location())
}

// StartOfWeek returns local midnight of the Monday that starts t's week.
// Sunday belongs to the week that began the previous Monday.
func (c Calendar) StartOfWeek(t time.Time) time.Time {
	day := c.StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return c.AddDays(day, -offset)
}

// AddDays moves t by n calendar days, keeping the wall-clock time. It stays
// on local midnight across DST transitions when t is a local midnight.
func (c Calendar) AddDays(t time.Time, n int) time.Time {
	lt := t.In(c.Location())
	y, m, d := lt.Date()
	return time.Date(y, m, d+n, lt.Hour(), lt.Minute(), lt.Second(), lt.Nanosecond(), c.Location())
}

// DayKey formats t's local calendar date as YYYY-MM-DD.
func (c Calendar) DayKey(t time.Time) string {
	return t.In(c.Location()).Format(DateLayout)
}

// WeekKey is the DayKey of the Monday starting t's week.
func (c Calendar) WeekKey(t time.Time) string {
	return c.DayKey(c.StartOfWeek(t))
}

// DateOf places a stored calendar date (only its year, month and day are
// significant) at local midnight so it can be compared with StartOfDay values.
func (c Calendar) DateOf(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.Location())
}

// DueKey formats a stored calendar date as YYYY-MM-DD without zone conversion.
func DueKey(date time.Time) string {
	return date.Format(DateLayout)
}

// ParseDate parses YYYY-MM-DD into a zone-free calendar date (midnight UTC),
// the representation used for stored due dates.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// DayKey buckets t in the process-local zone.
func DayKey(t time.Time) string { return Local().DayKey(t) }

// WeekKey buckets t in the process-local zone.
func WeekKey(t time.Time) string { return Local().WeekKey(t) }

// StartOfDay truncates t to midnight in the process-local zone.
func StartOfDay(t time.Time) time.Time { return Local().StartOfDay(t) }
