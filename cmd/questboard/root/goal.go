package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"questboard/internal/engine"
	"questboard/internal/ui"
)

func newGoalCmd(opts *sessionOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal [xp]",
		Short: "Show or set the daily XP goal (10-500)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.New("at most one goal value")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Daily goal", fmt.Sprintf("%d XP", svc.Stats().DailyGoalXP)))
				return nil
			}
			goal, err := svc.SetDailyGoal(ctx, engine.ParseDailyGoal(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d XP\n", ui.Good.Render(ui.IconBolt+" Daily goal set to"), goal)
			return nil
		},
	}

	return cmd
}
