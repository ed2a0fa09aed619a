package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"questboard/internal/ui"
)

func newStatusCmd(opts *sessionOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, daily progress, streak and badges",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			d := svc.Dashboard()
			s := d.Stats
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Status"))
			fmt.Fprintln(out, ui.LabelValue("Level", fmt.Sprintf("%d %s", s.Level.Level, ui.Gold.Render(s.Title))))
			fmt.Fprintln(out, ui.LabelValue("Total XP", fmt.Sprintf("%d %s %d/%d", s.TotalXP, ui.ProgressBar(s.Level.Progress, 20), s.Level.XPIntoLevel, s.Level.XPNeeded)))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("📊 Today"))
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d / %d %s", s.XPToday, s.DailyGoalXP, ui.ProgressBar(s.DailyProgress, 20))))
			fmt.Fprintln(out, ui.LabelValue("Done", fmt.Sprintf("%d (%d high)", s.DoneToday, s.HighToday)))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d day(s)", ui.IconFire, s.Streak)))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("📅 This week"))
			fmt.Fprintln(out, ui.LabelValue("XP", s.XPWeek))
			fmt.Fprintln(out, ui.LabelValue("Done", fmt.Sprintf("%d (%d high)", s.DoneWeek, s.HighWeek)))
			fmt.Fprintln(out, ui.LabelValue("Minutes", s.MinutesWeek))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.LabelValue("Tasks", fmt.Sprintf("%d open, %d done", s.ActiveCount, s.DoneCount)))

			if len(d.Badges) > 0 {
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, ui.H2.Render(ui.IconTrophy+" Badges"))
				for _, b := range d.Badges {
					fmt.Fprintf(out, "- %s %s %s\n", b.Icon, b.Name, ui.Muted.Render(b.Description))
				}
			}
			return nil
		},
	}

	return cmd
}
