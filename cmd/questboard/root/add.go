package root

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"questboard/internal/calendar"
	"questboard/internal/engine"
	"questboard/internal/ui"
)

func newAddCmd(opts *sessionOptions) *cobra.Command {
	var prio string
	var due string
	var tags string
	var estimate int

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := engine.ParsePriority(prio)
			if err != nil {
				return err
			}
			var dueDate *time.Time
			if strings.TrimSpace(due) != "" {
				d, err := calendar.ParseDate(due)
				if err != nil {
					return err
				}
				dueDate = &d
			}

			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.CreateTask(ctx, engine.CreateTaskInput{
				Title:           strings.Join(args, " "),
				Priority:        p,
				DueDate:         dueDate,
				Tags:            engine.ParseTags(tags),
				EstimateMinutes: estimate,
			})
			if err != nil {
				return err
			}
			t := res.Task
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.Good.Render(ui.IconPlus+" Added"), ui.Muted.Render(shortID(t.ID)), ui.PriorityText(t.Priority), t.Title)
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(fmt.Sprintf("worth %d XP when done", engine.BaseXPFor(t.Priority))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&prio, "priority", "p", "mid", "Priority (high|mid|low)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "Comma separated tags (max 8)")
	cmd.Flags().IntVarP(&estimate, "estimate", "e", 0, "Estimated minutes (0-9999)")

	return cmd
}
