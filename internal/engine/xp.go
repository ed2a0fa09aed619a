package engine

import "math"

const (
	// LevelBaseXP and LevelStepXP define the per-level cost: base + level*step.
	LevelBaseXP = 80.0
	LevelStepXP = 22.0
)

// XPRequiredForLevel returns the XP needed to go from level to level+1.
// Levels start at 1.
func XPRequiredForLevel(level int) int {
	return int(math.Round(LevelBaseXP + float64(level)*LevelStepXP))
}

type LevelState struct {
	Level       int
	XPIntoLevel int
	XPNeeded    int
	Progress    float64 // XPIntoLevel / XPNeeded, in [0, 1)
}

// ComputeLevel walks the curve from level 1, spending totalXP on each level
// while enough remains.
func ComputeLevel(totalXP int) LevelState {
	level := 1
	into := totalXP
	if into < 0 {
		into = 0
	}
	for into >= XPRequiredForLevel(level) {
		into -= XPRequiredForLevel(level)
		level++
	}
	need := XPRequiredForLevel(level)
	progress := 0.0
	if need != 0 {
		progress = float64(into) / float64(need)
	}
	return LevelState{Level: level, XPIntoLevel: into, XPNeeded: need, Progress: progress}
}

// TotalXPForLevel is the cumulative XP at which level is reached.
func TotalXPForLevel(level int) int {
	total := 0
	for l := 1; l < level; l++ {
		total += XPRequiredForLevel(l)
	}
	return total
}

// TitleForLevel names the band a level falls in.
func TitleForLevel(level int) string {
	switch {
	case level >= 20:
		return "Legend"
	case level >= 15:
		return "Master"
	case level >= 10:
		return "Strategist"
	case level >= 6:
		return "Adventurer"
	default:
		return "Sprout"
	}
}
