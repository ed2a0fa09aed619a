package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"questboard/internal/engine"
	"questboard/internal/ui"
)

func newClaimCmd(opts *sessionOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim <quest_id>",
		Short: "Claim a completed quest and open its loot chest",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("quest_id is required")
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

			res, err := svc.ClaimQuest(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !res.Claimed {
				fmt.Fprintf(out, "%s %s was already claimed\n", ui.Muted.Render(ui.IconInfo), res.QuestID)
				return nil
			}
			fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(ui.IconChest+" Claimed"), res.QuestID, ui.Muted.Render(res.Key))
			fmt.Fprintf(out, "%s %s %s\n", ui.LabelValue("Loot", res.Loot.Label), ui.Gold.Render(fmt.Sprintf("+%d", res.Loot.Bonus)),
				ui.Muted.Render(fmt.Sprintf("(%d base + %d bonus = %d XP)", res.BaseXP, res.Loot.Bonus, res.Award)))
			if res.LevelUp {
				fmt.Fprintf(out, "%s %d %s\n", ui.BadgeLevelUp, res.LevelAfter, engine.TitleForLevel(res.LevelAfter))
			}
			return nil
		},
	}

	return cmd
}
