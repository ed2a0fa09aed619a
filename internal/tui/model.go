package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"questboard/internal/calendar"
	"questboard/internal/engine"
	"questboard/internal/storage"
	"questboard/internal/ui"
)

var dueCycle = []engine.DueFilter{engine.DueAll, engine.DueOverdue, engine.DueToday, engine.DueWeek}

var priorityCycle = []engine.Priority{"", engine.PriorityHigh, engine.PriorityMid, engine.PriorityLow}

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	dash  engine.Dashboard
	tasks []storage.Task

	filter    engine.Filter
	search    textinput.Model
	searching bool
	bar       progress.Model

	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	err error
}

// opMsg reports the outcome of a toggle, delete or claim.
type opMsg struct {
	log string
	err error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	si := textinput.New()
	si.Placeholder = "Search..."
	si.Width = 30

	m := boardModel{
		ctx:     ctx,
		svc:     svc,
		search:  si,
		bar:     progress.New(progress.WithDefaultGradient()),
		loading: true,
		lastLog: "Loaded.",
	}
	m.bar.Width = 30
	return m
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.svc.Load(m.ctx)}
	}
}

func (m boardModel) toggleCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.ToggleDone(m.ctx, id)
		if err != nil {
			return opMsg{err: err}
		}
		verb := "Completed"
		if !res.Done {
			verb = "Reopened"
		}
		log := fmt.Sprintf("%s %s: %+d XP", verb, shortID(id), res.XPDelta)
		if res.LevelUp {
			log += fmt.Sprintf(" %s level %d!", ui.BadgeLevelUp, res.LevelAfter)
		}
		return opMsg{log: log}
	}
}

func (m boardModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.DeleteTask(m.ctx, id); err != nil {
			return opMsg{err: err}
		}
		return opMsg{log: "Deleted " + shortID(id) + "."}
	}
}

func (m boardModel) claimCmd(questID string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.ClaimQuest(m.ctx, questID)
		if err != nil {
			return opMsg{err: err}
		}
		if !res.Claimed {
			return opMsg{log: "Already claimed."}
		}
		log := fmt.Sprintf("%s %s: +%d XP (%s)", ui.IconChest, questID, res.Award, res.Loot.Label)
		if res.LevelUp {
			log += fmt.Sprintf(" %s level %d!", ui.BadgeLevelUp, res.LevelAfter)
		}
		return opMsg{log: log}
	}
}

// refresh re-reads the session snapshot the board renders from.
func (m *boardModel) refresh() {
	m.dash = m.svc.Dashboard()
	m.tasks = m.svc.View(m.filter)
	if m.selected >= len(m.tasks) {
		m.selected = len(m.tasks) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(40, msg.Width/3))
		return m, nil
	case progress.FrameMsg:
		newBar, cmd := m.bar.Update(msg)
		m.bar = newBar.(progress.Model)
		return m, cmd
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = ui.IconWarn + " Load failed: " + msg.err.Error()
			return m, nil
		}
		m.refresh()
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case opMsg:
		if msg.err != nil {
			m.lastLog = ui.IconError + " " + msg.err.Error()
		} else {
			m.lastLog = msg.log
		}
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m boardModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.Reset()
		m.filter.Query = ""
		m.refresh()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filter.Query = m.search.Value()
	m.refresh()
	return m, cmd
}

func (m boardModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r":
		m.loading = true
		m.lastLog = "Refreshing…"
		return m, m.loadCmd()
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "j":
		if m.selected < len(m.tasks)-1 {
			m.selected++
		}
		return m, nil
	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink
	case "d":
		m.filter.Due = nextDue(m.filter.Due)
		m.refresh()
		m.lastLog = "Due filter: " + dueLabel(m.filter.Due)
		return m, nil
	case "p":
		m.filter.Priority = nextPriority(m.filter.Priority)
		m.refresh()
		m.lastLog = "Priority filter: " + priorityLabel(m.filter.Priority)
		return m, nil
	case "c", " ", "space":
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		return m, m.toggleCmd(t.ID)
	case "x":
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		return m, m.deleteCmd(t.ID)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(key[0] - '1')
		if idx >= len(m.dash.Quests) {
			return m, nil
		}
		q := m.dash.Quests[idx]
		if q.Status == engine.QuestLocked {
			m.lastLog = fmt.Sprintf("%s %s is not complete yet.", ui.IconLock, q.Def.Title)
			return m, nil
		}
		return m, m.claimCmd(q.Def.ID)
	}
	return m, nil
}

func (m boardModel) current() (storage.Task, bool) {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return storage.Task{}, false
	}
	return m.tasks[m.selected], true
}

func (m boardModel) View() string {
	if m.err != nil {
		return ui.IconWarn + " " + ui.Bad.Render("Error: "+m.err.Error()) + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := ui.Panel.Render(m.renderSidebar())
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 38
	if m.width > 0 {
		leftW = max(22, min(leftW, m.width/2))
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := max(len(linesLeft), len(linesRight))

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.loading && m.dash.Stats.Level.Level == 0 {
		return "Questboard — loading…"
	}
	s := m.dash.Stats
	return fmt.Sprintf("%s | Level %d %s | XP %d %s %d/%d",
		ui.Title.Render("Questboard"), s.Level.Level, s.Title, s.TotalXP,
		m.bar.ViewAs(s.Level.Progress), s.Level.XPIntoLevel, s.Level.XPNeeded)
}

func (m boardModel) renderSidebar() string {
	s := m.dash.Stats
	lines := []string{
		ui.PanelTitle.Render("Today"),
		fmt.Sprintf("XP %d/%d %s", s.XPToday, s.DailyGoalXP, ui.ProgressBar(s.DailyProgress, 12)),
		fmt.Sprintf("Done %d (high %d)", s.DoneToday, s.HighToday),
		fmt.Sprintf("%s Streak %d", ui.IconFire, s.Streak),
		fmt.Sprintf("Week %d XP, %d min", s.XPWeek, s.MinutesWeek),
		"",
		ui.PanelTitle.Render("Quests"),
	}
	for i, q := range m.dash.Quests {
		lines = append(lines, fmt.Sprintf("%d %s %s +%d", i+1, ui.QuestIcon(q.Status), q.Def.Title, q.Def.RewardBase))
	}
	if len(m.dash.Badges) > 0 {
		var icons []string
		for _, b := range m.dash.Badges {
			icons = append(icons, b.Icon)
		}
		lines = append(lines, "", ui.PanelTitle.Render("Badges"), strings.Join(icons, " "))
	}
	lines = append(lines,
		"",
		ui.PanelTitle.Render("Keys"),
		"- ↑/↓ or j/k: move",
		"- c/space: toggle done",
		"- x: delete",
		"- 1-7: claim quest",
		"- /: search, d: due, p: priority",
		"- r: refresh, q: quit",
	)
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	var out []string
	if m.searching || m.filter.Query != "" {
		out = append(out, ui.Key.Render("/ ")+m.search.View())
	}
	out = append(out, fmt.Sprintf("%s %s  %s", ui.PanelTitle.Render("Tasks"),
		ui.Muted.Render("due:"+dueLabel(m.filter.Due)),
		ui.Muted.Render("priority:"+priorityLabel(m.filter.Priority))))

	if len(m.tasks) == 0 {
		out = append(out, "(empty)")
		return strings.Join(out, "\n")
	}
	for i, t := range m.tasks {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		title := t.Title
		if t.Done {
			title = ui.Dim.Render(title)
		}
		line := fmt.Sprintf("%s%s %s %s %s", cursor, ui.DoneIcon(t.Done), shortID(t.ID), ui.PriorityText(t.Priority), title)
		if t.DueDate != nil {
			line += " " + ui.Muted.Render(ui.IconCal+" "+calendar.DueKey(*t.DueDate))
		}
		if len(t.Tags) > 0 {
			line += " " + ui.Muted.Render("#"+strings.Join(t.Tags, " #"))
		}
		if i == m.selected {
			line = ui.SelectedRow.Render(line)
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func nextDue(cur engine.DueFilter) engine.DueFilter {
	for i, d := range dueCycle {
		if d == cur {
			return dueCycle[(i+1)%len(dueCycle)]
		}
	}
	return engine.DueAll
}

func nextPriority(cur engine.Priority) engine.Priority {
	for i, p := range priorityCycle {
		if p == cur {
			return priorityCycle[(i+1)%len(priorityCycle)]
		}
	}
	return ""
}

func dueLabel(d engine.DueFilter) string {
	if d == engine.DueAll {
		return "all"
	}
	return strings.ToLower(string(d))
}

func priorityLabel(p engine.Priority) string {
	if p == "" {
		return "all"
	}
	return p.Label()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
