package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"questboard/internal/engine"
)

// RunBoard opens the interactive board on out until the user quits.
func RunBoard(ctx context.Context, svc *engine.Service, out io.Writer) error {
	m := newBoardModel(ctx, svc)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
