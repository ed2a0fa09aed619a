package engine

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"golang.org/x/text/language"

	"questboard/internal/storage"
)

func TestXPBoundaries(t *testing.T) {
	if got := XPRequiredForLevel(1); got != 102 {
		t.Fatalf("XPRequiredForLevel(1)=%d, want 102", got)
	}
	if got := ComputeLevel(101).Level; got != 1 {
		t.Fatalf("ComputeLevel(101)=%d, want 1", got)
	}
	if got := ComputeLevel(102); got.Level != 2 || got.XPIntoLevel != 0 || got.XPNeeded != 124 {
		t.Fatalf("ComputeLevel(102)=%+v", got)
	}
	if got := ComputeLevel(-50).Level; got != 1 {
		t.Fatalf("negative XP level=%d, want 1", got)
	}

	for level := 2; level <= 25; level++ {
		at := TotalXPForLevel(level)
		if got := ComputeLevel(at).Level; got != level {
			t.Fatalf("ComputeLevel(TotalXPForLevel(%d))=%d", level, got)
		}
		if got := ComputeLevel(at - 1).Level; got != level-1 {
			t.Fatalf("ComputeLevel(TotalXPForLevel(%d)-1)=%d", level, got)
		}
	}

	p := ComputeLevel(102 + 62).Progress
	if math.Abs(p-0.5) > 1e-9 {
		t.Fatalf("progress=%v, want 0.5", p)
	}
}

func TestLevelLawsHoldForEveryTotal(t *testing.T) {
	for x := 0; x <= 20000; x++ {
		ls := ComputeLevel(x)
		if ls.XPIntoLevel < 0 || ls.XPIntoLevel >= XPRequiredForLevel(ls.Level) {
			t.Fatalf("ComputeLevel(%d)=%+v: xp into level out of range", x, ls)
		}
		if ls.XPNeeded != XPRequiredForLevel(ls.Level) {
			t.Fatalf("ComputeLevel(%d)=%+v: XPNeeded mismatch", x, ls)
		}
		if got := TotalXPForLevel(ls.Level) + ls.XPIntoLevel; got != x {
			t.Fatalf("ComputeLevel(%d): TotalXPForLevel(%d)+%d=%d", x, ls.Level, ls.XPIntoLevel, got)
		}
		if ls.Progress < 0 || ls.Progress >= 1 {
			t.Fatalf("ComputeLevel(%d).Progress=%v", x, ls.Progress)
		}
	}
}

func TestTitleForLevel(t *testing.T) {
	cases := map[int]string{1: "Sprout", 5: "Sprout", 6: "Adventurer", 10: "Strategist", 15: "Master", 19: "Master", 20: "Legend", 40: "Legend"}
	for level, want := range cases {
		if got := TitleForLevel(level); got != want {
			t.Fatalf("TitleForLevel(%d)=%q, want %q", level, got, want)
		}
	}
}

func TestRollLootBoundaries(t *testing.T) {
	cases := []struct {
		r    float64
		want string
	}{
		{0, "Empty chest"},
		{0.25, "Empty chest"},
		{0.2501, "Small gem"},
		{0.60, "Small gem"},
		{0.85, "Shiny shard"},
		{0.97, "Rare stone"},
		{0.999, "Epic orb"},
	}
	for _, tc := range cases {
		if got := RollLoot(fixedRand(tc.r)).Label; got != tc.want {
			t.Fatalf("RollLoot(%v)=%q, want %q", tc.r, got, tc.want)
		}
	}
}

func TestRollLootDistribution(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	const n = 100000
	counts := map[string]int{}
	for i := 0; i < n; i++ {
		counts[RollLoot(rng).Label]++
	}
	for _, e := range LootTable {
		got := float64(counts[e.Label]) / n
		want := float64(e.Weight) / 100
		if math.Abs(got-want) > 0.01 {
			t.Fatalf("%s frequency=%.4f, want %.2f", e.Label, got, want)
		}
	}
}

func doneTask(prio Priority, at time.Time) storage.Task {
	at = at.UTC()
	return storage.Task{ID: at.String(), Title: "t", Priority: string(prio), Done: true, DoneAt: &at, CreatedAt: at}
}

func TestStreak(t *testing.T) {
	day := func(n int) time.Time { return testNow.AddDate(0, 0, -n) }

	cases := []struct {
		name  string
		tasks []storage.Task
		want  int
	}{
		{"none", nil, 0},
		{"today only", []storage.Task{doneTask(PriorityLow, day(0))}, 1},
		{"three days", []storage.Task{doneTask(PriorityLow, day(0)), doneTask(PriorityLow, day(1)), doneTask(PriorityLow, day(2))}, 3},
		{"gap", []storage.Task{doneTask(PriorityLow, day(0)), doneTask(PriorityLow, day(2))}, 1},
		{"yesterday only", []storage.Task{doneTask(PriorityLow, day(1)), doneTask(PriorityLow, day(2))}, 0},
		{"reopened", []storage.Task{{ID: "x", Priority: "LOW"}}, 0},
	}
	for _, tc := range cases {
		if got := Streak(tc.tasks, testCal, testNow); got != tc.want {
			t.Fatalf("%s: Streak=%d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestAggregateBuckets(t *testing.T) {
	est := 120
	lastWeek := doneTask(PriorityHigh, time.Date(2024, 5, 12, 23, 0, 0, 0, time.UTC)) // Sunday
	monday := doneTask(PriorityHigh, time.Date(2024, 5, 13, 8, 0, 0, 0, time.UTC))
	monday.EstimateMinutes = &est
	today := doneTask(PriorityLow, testNow)
	today.EstimateMinutes = &est
	open := storage.Task{ID: "open", Priority: "MID"}

	st := State{
		Tasks: []storage.Task{lastWeek, monday, today, open},
		Settings: storage.Settings{
			DailyGoalXP: 0,
			BonusXP:     50,
			Claimed: map[string]storage.ClaimRecord{
				"daily_3_done:2024-05-15": {BaseRewardXP: 20, BonusXP: 30, ClaimedAt: testNow},
			},
		},
	}
	s := Aggregate(st, testCal, testNow)

	if s.TotalXP != 40+40+10+50 {
		t.Fatalf("TotalXP=%d", s.TotalXP)
	}
	if s.XPToday != 10+30 {
		t.Fatalf("XPToday=%d, want 40", s.XPToday)
	}
	if s.XPWeek != 40+10+30 {
		t.Fatalf("XPWeek=%d, want 80", s.XPWeek)
	}
	if s.MinutesWeek != 240 {
		t.Fatalf("MinutesWeek=%d, want 240", s.MinutesWeek)
	}
	if s.DoneToday != 1 || s.HighToday != 0 || s.DoneWeek != 2 || s.HighWeek != 1 {
		t.Fatalf("counts=%+v", s)
	}
	if s.DoneCount != 3 || s.ActiveCount != 1 {
		t.Fatalf("done=%d active=%d", s.DoneCount, s.ActiveCount)
	}
	if s.DailyGoalXP != DefaultDailyGoalXP {
		t.Fatalf("DailyGoalXP=%d, want default", s.DailyGoalXP)
	}
	if math.Abs(s.DailyProgress-40.0/60.0) > 1e-9 {
		t.Fatalf("DailyProgress=%v", s.DailyProgress)
	}
	if s.WeekKey != "2024-05-13" || s.DayKey != "2024-05-15" {
		t.Fatalf("keys=%s %s", s.DayKey, s.WeekKey)
	}
}

func TestApplyClaimIsIdempotent(t *testing.T) {
	st := State{Settings: storage.Settings{Claimed: map[string]storage.ClaimRecord{}}}

	next, out := ApplyClaim(st, "total_30", 150, "", fixedRand(0.999), testNow)
	if out == nil || out.Award != 230 || out.Loot.Label != "Epic orb" {
		t.Fatalf("outcome=%+v", out)
	}
	if len(st.Settings.Claimed) != 0 {
		t.Fatalf("input state was modified")
	}

	again, out := ApplyClaim(next, "total_30", 150, "", panicRand{}, testNow)
	if out != nil {
		t.Fatalf("second claim returned outcome %+v", out)
	}
	if again.Settings.BonusXP != 230 || len(again.Settings.Claimed) != 1 {
		t.Fatalf("settings=%+v", again.Settings)
	}
}

type panicRand struct{}

func (panicRand) Float64() float64 { panic("rolled loot for an existing claim") }

func TestParsePriority(t *testing.T) {
	cases := map[string]Priority{"": PriorityMid, "h": PriorityHigh, "HIGH": PriorityHigh, " medium ": PriorityMid, "m": PriorityMid, "l": PriorityLow, "Low": PriorityLow}
	for in, want := range cases {
		got, err := ParsePriority(in)
		if err != nil || got != want {
			t.Fatalf("ParsePriority(%q)=%q,%v want %q", in, got, err, want)
		}
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatalf("expected error for unknown priority")
	}
	if Priority("BOGUS").Weight() != PriorityMid.Weight() {
		t.Fatalf("unknown priority should sort as MID")
	}
}

func TestParseHelpers(t *testing.T) {
	tags := ParseTags(" a, b ,,c,d,e,f,g,h,i,j")
	if len(tags) != MaxTags || tags[0] != "a" || tags[1] != "b" || tags[7] != "h" {
		t.Fatalf("ParseTags=%v", tags)
	}
	if got := ParseTags(" , "); len(got) != 0 {
		t.Fatalf("ParseTags blanks=%v", got)
	}

	if got := NormalizeTags([]string{"a,b", " c ", "", "  "}); !slices.Equal(got, []string{"a,b", "c"}) {
		t.Fatalf("NormalizeTags=%q, want [a,b c]", got)
	}
	many := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}
	if got := NormalizeTags(many); !slices.Equal(got, many[:MaxTags]) {
		t.Fatalf("NormalizeTags cap=%q", got)
	}

	if ClampEstimate(0) != nil || ClampEstimate(-3) != nil {
		t.Fatalf("zero estimate should be absent")
	}
	if got := ClampEstimate(45); got == nil || *got != 45 {
		t.Fatalf("ClampEstimate(45)=%v", got)
	}

	goals := map[string]int{"abc": 60, "0": 60, "5": 10, "900": 500, " 120 ": 120, "": 60}
	for in, want := range goals {
		if got := ParseDailyGoal(in); got != want {
			t.Fatalf("ParseDailyGoal(%q)=%d, want %d", in, got, want)
		}
	}

	if _, err := ParseDueFilter("soon"); err == nil {
		t.Fatalf("expected error for unknown due filter")
	}
	if f, err := ParseDueFilter("Overdue"); err != nil || f != DueOverdue {
		t.Fatalf("ParseDueFilter(Overdue)=%q,%v", f, err)
	}
}

func TestFilteredSortedView(t *testing.T) {
	date := func(y int, m time.Month, d int) *time.Time {
		v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &v
	}
	created := func(n int) time.Time { return testNow.Add(time.Duration(n) * time.Minute) }

	tasks := []storage.Task{
		{ID: "1", Title: "Pay rent", Priority: "HIGH", DueDate: date(2024, 5, 10), Tags: []string{"home"}, CreatedAt: created(1)},
		{ID: "2", Title: "Call mom", Priority: "MID", DueDate: date(2024, 5, 15), CreatedAt: created(2)},
		{ID: "3", Title: "Write REPORT", Priority: "HIGH", DueDate: date(2024, 5, 20), Tags: []string{"work"}, CreatedAt: created(3)},
		{ID: "4", Title: "Read", Priority: "LOW", CreatedAt: created(4)},
		{ID: "5", Title: "Old report", Priority: "HIGH", Done: true, DueDate: date(2024, 5, 1), Tags: []string{"work"}, CreatedAt: created(5)},
		{ID: "6", Title: "Plan trip", Priority: "HIGH", CreatedAt: created(6)},
	}

	ids := func(f Filter) string {
		out := ""
		for _, task := range FilteredSortedView(tasks, f, testCal, testNow) {
			out += task.ID
		}
		return out
	}

	cases := []struct {
		name string
		f    Filter
		want string
	}{
		{"all", Filter{}, "136245"},
		{"query folds case", Filter{Query: "report"}, "35"},
		{"query matches tags", Filter{Query: "HOME"}, "1"},
		{"tag", Filter{Tag: "work"}, "35"},
		{"priority", Filter{Priority: PriorityHigh}, "1365"},
		{"overdue", Filter{Due: DueOverdue}, "1"},
		{"today", Filter{Due: DueToday}, "2"},
		{"week", Filter{Due: DueWeek}, "32"},
	}
	for _, tc := range cases {
		if got := ids(tc.f); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
	if tasks[0].ID != "1" || tasks[5].ID != "6" {
		t.Fatalf("input slice was reordered")
	}
}

func TestDistinctTags(t *testing.T) {
	tasks := []storage.Task{
		{Tags: []string{"zeta", "Alpha"}},
		{Tags: []string{"beta", "zeta"}},
	}
	got := DistinctTags(tasks, language.English)
	want := []string{"Alpha", "beta", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("DistinctTags=%v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DistinctTags=%v, want %v", got, want)
		}
	}
}

func TestBadges(t *testing.T) {
	none := NewBadgeChecker(Stats{DailyGoalXP: 60}).Earned()
	if len(none) != 0 {
		t.Fatalf("fresh stats earned %v", none)
	}

	all := NewBadgeChecker(Stats{DoneCount: 30, Streak: 7, XPToday: 60, DailyGoalXP: 60, MinutesWeek: 300}).Earned()
	if len(all) != 7 || len(all) > MaxBadges {
		t.Fatalf("earned %d badges, want 7", len(all))
	}
	if all[0].ID != "first_clear" {
		t.Fatalf("first badge=%s", all[0].ID)
	}
}

func TestEvaluateQuestsMarksClaimed(t *testing.T) {
	st := State{Settings: storage.Settings{Claimed: map[string]storage.ClaimRecord{
		"daily_3_done:2024-05-15": {BaseRewardXP: 20, BonusXP: 10, Label: "Small gem"},
	}}}
	stats := Aggregate(st, testCal, testNow)

	qs := EvaluateQuests(st, stats)
	if len(qs) != len(Quests()) {
		t.Fatalf("got %d quests", len(qs))
	}
	for _, q := range qs {
		switch q.Def.ID {
		case "daily_3_done":
			if q.Status != QuestClaimed || q.Claim == nil || q.Claim.Label != "Small gem" {
				t.Fatalf("daily_3_done=%+v", q)
			}
		case "total_30":
			if q.ClaimKey != "total_30" || q.Status != QuestLocked {
				t.Fatalf("total_30=%+v", q)
			}
		}
	}
}
