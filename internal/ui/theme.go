package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"questboard/internal/engine"
)

// Questboard theme (CLI + TUI).

const (
	IconQuest   = "🗺️"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconOpen    = "⬜"
	IconTrophy  = "🏆"
	IconBolt    = "⚡"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconChest   = "🎁"
	IconLock    = "🔒"
	IconFire    = "🔥"
	IconTrash   = "🗑️"
	IconUndo    = "↩️"
	IconTag     = "🏷️"
	IconCal     = "📅"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Dim   = lipgloss.NewStyle().Foreground(cMuted).Strikethrough(true)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// PriorityText renders a stored priority as a colored label.
func PriorityText(stored string) string {
	p := engine.Priority(stored)
	switch p {
	case engine.PriorityHigh:
		return Bad.Render(p.Label())
	case engine.PriorityLow:
		return Muted.Render(p.Label())
	default:
		return Warn.Render(p.Label())
	}
}

func QuestStatusText(status engine.QuestStatus) string {
	switch status {
	case engine.QuestClaimed:
		return Gold.Render("claimed")
	case engine.QuestUnlocked:
		return Good.Render("ready")
	default:
		return Muted.Render("locked")
	}
}

func QuestIcon(status engine.QuestStatus) string {
	switch status {
	case engine.QuestClaimed:
		return IconTrophy
	case engine.QuestUnlocked:
		return IconChest
	default:
		return IconLock
	}
}

func DoneIcon(done bool) string {
	if done {
		return IconDone
	}
	return IconOpen
}

// ProgressBar draws a fixed-width text bar for p in [0, 1].
func ProgressBar(p float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(p*float64(width) + 0.5)
	filled = max(0, min(width, filled))
	return Good.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}
