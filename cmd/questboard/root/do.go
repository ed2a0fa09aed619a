package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"questboard/internal/engine"
	"questboard/internal/ui"
)

func newDoCmd(opts *sessionOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <id>",
		Short: "Mark a task done (id or unique prefix)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return setDone(cmd, opts, args[0], true)
		},
	}

	return cmd
}

// setDone backs both do and restore.
func setDone(cmd *cobra.Command, opts *sessionOptions, idOrPrefix string, done bool) error {
	ctx := context.Background()
	svc, cleanup, err := openService(ctx, cmd, opts)
	if err != nil {
		return err
	}
	defer cleanup()

	t, err := svc.FindTask(idOrPrefix)
	if err != nil {
		return err
	}
	res, err := svc.SetDone(ctx, t.ID, done)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !res.Changed {
		state := "open"
		if done {
			state = "done"
		}
		fmt.Fprintf(out, "%s %s is already %s\n", ui.Muted.Render(ui.IconInfo), t.Title, state)
		return nil
	}
	if done {
		fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(ui.IconDone+" Done"), t.Title, ui.Gold.Render(fmt.Sprintf("(+%d XP)", res.XPDelta)))
	} else {
		fmt.Fprintf(out, "%s %s %s\n", ui.Warn.Render(ui.IconUndo+" Restored"), t.Title, ui.Muted.Render(fmt.Sprintf("(%d XP)", res.XPDelta)))
	}
	if res.LevelAfter != res.LevelBefore {
		fmt.Fprintln(out, ui.LabelValue("Level", fmt.Sprintf("%d → %d", res.LevelBefore, res.LevelAfter)))
	}
	if res.LevelUp {
		fmt.Fprintf(out, "%s %s\n", ui.BadgeLevelUp, engine.TitleForLevel(res.LevelAfter))
	}
	return nil
}
