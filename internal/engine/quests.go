package engine

import "strings"

type QuestScope string

const (
	ScopeDay      QuestScope = "day"
	ScopeWeek     QuestScope = "week"
	ScopeLifetime QuestScope = "lifetime"
)

type QuestStatus string

const (
	QuestLocked   QuestStatus = "locked"
	QuestUnlocked QuestStatus = "unlocked"
	QuestClaimed  QuestStatus = "claimed"
)

type QuestDef struct {
	ID          string
	Title       string
	RewardBase  int
	Scope       QuestScope
	Unlock      func(s Stats) bool
	Description string
}

func builtinQuests() []QuestDef {
	return []QuestDef{
		{
			ID:          "daily_3_done",
			Title:       "Three today",
			Description: "Complete 3 tasks today",
			RewardBase:  20,
			Scope:       ScopeDay,
			Unlock:      func(s Stats) bool { return s.DoneToday >= 3 },
		},
		{
			ID:          "daily_1_high",
			Title:       "One high today",
			Description: "Complete 1 high priority task today",
			RewardBase:  20,
			Scope:       ScopeDay,
			Unlock:      func(s Stats) bool { return s.HighToday >= 1 },
		},
		{
			ID:          "weekly_10_done",
			Title:       "Ten this week",
			Description: "Complete 10 tasks this week",
			RewardBase:  60,
			Scope:       ScopeWeek,
			Unlock:      func(s Stats) bool { return s.DoneWeek >= 10 },
		},
		{
			ID:          "weekly_3_high",
			Title:       "Three high this week",
			Description: "Complete 3 high priority tasks this week",
			RewardBase:  80,
			Scope:       ScopeWeek,
			Unlock:      func(s Stats) bool { return s.HighWeek >= 3 },
		},
		{
			ID:          "weekly_300min",
			Title:       "300 minutes this week",
			Description: "Finish 300 estimated minutes of work this week",
			RewardBase:  90,
			Scope:       ScopeWeek,
			Unlock:      func(s Stats) bool { return s.MinutesWeek >= 300 },
		},
		{
			ID:          "streak_7",
			Title:       "Seven day streak",
			Description: "Complete something 7 days in a row",
			RewardBase:  120,
			Scope:       ScopeLifetime,
			Unlock:      func(s Stats) bool { return s.Streak >= 7 },
		},
		{
			ID:          "total_30",
			Title:       "Thirty done",
			Description: "Have 30 completed tasks",
			RewardBase:  150,
			Scope:       ScopeLifetime,
			Unlock:      func(s Stats) bool { return s.DoneCount >= 30 },
		},
	}
}

// Quests returns the quest catalog in display order.
func Quests() []QuestDef {
	return builtinQuests()
}

// GetQuestDef returns the catalog entry for id, or nil.
func GetQuestDef(id string) *QuestDef {
	id = strings.TrimSpace(strings.ToLower(id))
	defs := builtinQuests()
	for i := range defs {
		if defs[i].ID == id {
			return &defs[i]
		}
	}
	return nil
}

// ScopeKey is the bucket a quest instance belongs to right now: today's key,
// this week's key, or "" for lifetime quests.
func (d QuestDef) ScopeKey(s Stats) string {
	switch d.Scope {
	case ScopeDay:
		return s.DayKey
	case ScopeWeek:
		return s.WeekKey
	default:
		return ""
	}
}

// ClaimKey identifies one claimable instance of a quest.
func ClaimKey(questID, scopeKey string) string {
	if scopeKey == "" {
		return questID
	}
	return questID + ":" + scopeKey
}

type QuestState struct {
	Def      QuestDef
	ScopeKey string
	ClaimKey string
	Status   QuestStatus
	Claim    *ClaimInfo
}

type ClaimInfo struct {
	BaseRewardXP int
	BonusXP      int
	Label        string
}

// EvaluateQuests recomputes every quest's state from the current aggregates.
// Unlocking is never remembered: a quest whose goal stops holding goes back to
// locked unless it has already been claimed.
func EvaluateQuests(st State, stats Stats) []QuestState {
	defs := builtinQuests()
	out := make([]QuestState, 0, len(defs))
	for _, def := range defs {
		scope := def.ScopeKey(stats)
		key := ClaimKey(def.ID, scope)
		qs := QuestState{Def: def, ScopeKey: scope, ClaimKey: key, Status: QuestLocked}
		if rec, ok := st.Settings.Claimed[key]; ok {
			qs.Status = QuestClaimed
			qs.Claim = &ClaimInfo{BaseRewardXP: rec.BaseRewardXP, BonusXP: rec.BonusXP, Label: rec.Label}
		} else if def.Unlock(stats) {
			qs.Status = QuestUnlocked
		}
		out = append(out, qs)
	}
	return out
}
