package engine

// MaxBadges caps how many badges are shown at once.
const MaxBadges = 10

// Badge is a cosmetic marker derived from the current stats.
type Badge struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Earned      bool
}

// BadgeChecker calculates which badges the current stats earn.
type BadgeChecker struct {
	stats Stats
}

func NewBadgeChecker(stats Stats) *BadgeChecker {
	return &BadgeChecker{stats: stats}
}

// GetBadges returns every badge with its earned status, in display order.
func (c *BadgeChecker) GetBadges() []Badge {
	return []Badge{
		c.doneCountBadge("first_clear", "First Clear", "Complete 1 task", "✓", 1),
		c.doneCountBadge("clear_10", "Clear 10", "Complete 10 tasks", "📋", 10),
		c.doneCountBadge("clear_30", "Clear 30", "Complete 30 tasks", "🏅", 30),

		c.streakBadge("streak_3", "3-Day Streak", "Complete something 3 days in a row", "🔥", 3),
		c.streakBadge("streak_7", "7-Day Streak", "Complete something 7 days in a row", "🌟", 7),

		{
			ID:          "daily_goal",
			Name:        "Goal Met",
			Description: "Reach today's XP goal",
			Icon:        "🎯",
			Earned:      c.stats.XPToday >= c.stats.DailyGoalXP,
		},
		{
			ID:          "week_300min",
			Name:        "300 Minutes",
			Description: "Finish 300 estimated minutes this week",
			Icon:        "⏱️",
			Earned:      c.stats.MinutesWeek >= 300,
		},
	}
}

// Earned returns the earned badges, at most MaxBadges.
func (c *BadgeChecker) Earned() []Badge {
	var out []Badge
	for _, b := range c.GetBadges() {
		if b.Earned {
			out = append(out, b)
		}
	}
	if len(out) > MaxBadges {
		out = out[:MaxBadges]
	}
	return out
}

func (c *BadgeChecker) doneCountBadge(id, name, desc, icon string, count int) Badge {
	return Badge{ID: id, Name: name, Description: desc, Icon: icon, Earned: c.stats.DoneCount >= count}
}

func (c *BadgeChecker) streakBadge(id, name, desc, icon string, days int) Badge {
	return Badge{ID: id, Name: name, Description: desc, Icon: icon, Earned: c.stats.Streak >= days}
}
