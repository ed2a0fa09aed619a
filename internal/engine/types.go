package engine

type Priority string

const (
	PriorityHigh Priority = "HIGH"
	PriorityMid  Priority = "MID"
	PriorityLow  Priority = "LOW"
)

// DefaultPriority is used when user input is missing.
const DefaultPriority Priority = PriorityMid

// Priorities lists every priority, highest first.
var Priorities = []Priority{PriorityHigh, PriorityMid, PriorityLow}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMid, PriorityLow:
		return true
	default:
		return false
	}
}

// BaseXP is the XP a completed task of this priority is worth.
func (p Priority) BaseXP() int {
	switch p {
	case PriorityHigh:
		return 40
	case PriorityMid:
		return 20
	case PriorityLow:
		return 10
	default:
		return 0
	}
}

// Weight orders priorities for sorting (higher first). Unknown values sort as MID.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityLow:
		return "Low"
	default:
		return "Mid"
	}
}

// BaseXPFor returns the base XP for a stored priority string.
func BaseXPFor(stored string) int {
	return Priority(stored).BaseXP()
}
