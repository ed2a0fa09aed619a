package calendar

import (
	"testing"
	"time"
)

func mustLoad(t *testing.T, name string) Calendar {
	t.Helper()
	c, err := Load(name)
	if err != nil {
		t.Fatalf("Load(%q): %v", name, err)
	}
	return c
}

func TestDayKeyUsesCalendarZone(t *testing.T) {
	seoul := mustLoad(t, "Asia/Seoul")
	// 2024-03-10 20:00 UTC is already the 11th in Seoul.
	ts := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	if got := seoul.DayKey(ts); got != "2024-03-11" {
		t.Fatalf("DayKey=%q, want 2024-03-11", got)
	}
	utc := New(time.UTC)
	if got := utc.DayKey(ts); got != "2024-03-10" {
		t.Fatalf("DayKey(UTC)=%q, want 2024-03-10", got)
	}
}

func TestWeekKeyMondayBoundary(t *testing.T) {
	c := New(time.UTC)
	// 2024-05-13 is a Monday.
	monday := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		day := c.AddDays(monday, i).Add(13 * time.Hour)
		if got := c.WeekKey(day); got != "2024-05-13" {
			t.Fatalf("WeekKey(%s)=%q, want 2024-05-13", day.Weekday(), got)
		}
	}

	sundayLate := time.Date(2024, 5, 19, 23, 59, 59, 0, time.UTC)
	if got := c.WeekKey(sundayLate); got != "2024-05-13" {
		t.Fatalf("WeekKey(sunday)=%q, want 2024-05-13", got)
	}
	nextMonday := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	if got := c.WeekKey(nextMonday); got != "2024-05-20" {
		t.Fatalf("WeekKey(next monday)=%q, want 2024-05-20", got)
	}
}

func TestStartOfDayAcrossDST(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	// DST starts 2024-03-10 02:00 local.
	noon := time.Date(2024, 3, 10, 12, 0, 0, 0, ny.Location())
	start := ny.StartOfDay(noon)
	if start.Hour() != 0 || start.Day() != 10 {
		t.Fatalf("StartOfDay=%s, want 2024-03-10 00:00", start)
	}
	next := ny.AddDays(start, 1)
	if next.Hour() != 0 || next.Day() != 11 {
		t.Fatalf("AddDays=%s, want 2024-03-11 00:00", next)
	}
	if got := next.Sub(start); got != 23*time.Hour {
		t.Fatalf("day length=%s, want 23h", got)
	}
}

func TestDateOfKeepsCalendarDate(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")
	due, err := ParseDate("2024-07-04")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	local := la.DateOf(due)
	if got := la.DayKey(local); got != "2024-07-04" {
		t.Fatalf("DayKey(DateOf)=%q, want 2024-07-04", got)
	}
	if got := DueKey(due); got != "2024-07-04" {
		t.Fatalf("DueKey=%q, want 2024-07-04", got)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, err := ParseDate("07/04/2024"); err == nil {
		t.Fatalf("expected error for non ISO date")
	}
}

func TestLoadUnknownZone(t *testing.T) {
	if _, err := Load("Mars/Olympus"); err == nil {
		t.Fatalf("expected error for unknown zone")
	}
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if c.Location() != time.Local {
		t.Fatalf("Load(\"\") location=%v, want Local", c.Location())
	}
}
