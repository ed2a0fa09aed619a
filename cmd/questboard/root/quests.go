package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"questboard/internal/ui"
)

func newQuestsCmd(opts *sessionOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quests",
		Short: "Show daily, weekly and lifetime quests",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconQuest, "Quests"))
			for _, q := range svc.Dashboard().Quests {
				line := fmt.Sprintf("%s %-15s %-24s %s %s", ui.QuestIcon(q.Status), q.Def.ID, q.Def.Title,
					ui.QuestStatusText(q.Status), ui.Muted.Render(fmt.Sprintf("+%d XP, %s", q.Def.RewardBase, q.Def.Scope)))
				if q.Claim != nil {
					line += " " + ui.Gold.Render(fmt.Sprintf("[%s +%d]", q.Claim.Label, q.Claim.BonusXP))
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	return cmd
}
