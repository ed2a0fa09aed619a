package engine

import (
	"strconv"
	"strings"
)

const (
	MaxTags            = 8
	MaxEstimate        = 9999
	MinDailyGoalXP     = 10
	MaxDailyGoalXP     = 500
	DefaultDailyGoalXP = 60
)

// ParsePriority parses user input to a Priority.
// Supported: high|h, mid|m|medium, low|l (any case). Empty input returns DefaultPriority.
func ParsePriority(input string) (Priority, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "":
		return DefaultPriority, nil
	case "high", "h":
		return PriorityHigh, nil
	case "mid", "m", "medium":
		return PriorityMid, nil
	case "low", "l":
		return PriorityLow, nil
	default:
		return "", ValidationError{Field: "priority", Reason: "unknown priority " + strconv.Quote(input)}
	}
}

// ParseTags splits comma separated input, trims each tag, drops empties and
// keeps at most MaxTags in input order.
func ParseTags(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		out = append(out, tag)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}

// NormalizeTags trims an already split list, drops empties and keeps at most
// MaxTags. Elements are never split further.
func NormalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		tag := strings.TrimSpace(t)
		if tag == "" {
			continue
		}
		out = append(out, tag)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}

// ClampEstimate clamps minutes to [0, MaxEstimate]. A result of 0 means no
// estimate and is returned as nil.
func ClampEstimate(minutes int) *int {
	v := clampInt(minutes, 0, MaxEstimate)
	if v == 0 {
		return nil
	}
	return &v
}

// ParseDailyGoal parses a goal from user input. Malformed input and 0 fall
// back to DefaultDailyGoalXP; everything else is clamped to the allowed range.
func ParseDailyGoal(input string) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return DefaultDailyGoalXP
	}
	return ClampDailyGoal(n)
}

func ClampDailyGoal(goal int) int {
	if goal == 0 {
		return DefaultDailyGoalXP
	}
	return clampInt(goal, MinDailyGoalXP, MaxDailyGoalXP)
}

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", ValidationError{Field: "title", Reason: "title is required"}
	}
	return t, nil
}

func clampInt(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

func clampFloat(f, min, max float64) float64 {
	if f < min {
		return min
	}
	if f > max {
		return max
	}
	return f
}
