package root

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"questboard/internal/calendar"
	"questboard/internal/engine"
	"questboard/internal/storage"
	"questboard/internal/ui"
)

func newListCmd(opts *sessionOptions) *cobra.Command {
	var query string
	var tag string
	var prio string
	var due string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks (open first, by priority and due date)",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := engine.Filter{Query: query, Tag: strings.TrimSpace(tag)}
			if strings.TrimSpace(prio) != "" {
				p, err := engine.ParsePriority(prio)
				if err != nil {
					return err
				}
				f.Priority = p
			}
			d, err := engine.ParseDueFilter(due)
			if err != nil {
				return err
			}
			f.Due = d

			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			tasks := svc.View(f)
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(no tasks)"))
				return nil
			}
			for _, t := range tasks {
				printTask(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "q", "q", "", "Search title and tags")
	cmd.Flags().StringVar(&tag, "tag", "", "Only tasks with this tag")
	cmd.Flags().StringVarP(&prio, "priority", "p", "", "Only this priority (high|mid|low)")
	cmd.Flags().StringVar(&due, "due", "", "Due filter (all|overdue|today|week)")

	return cmd
}

func printTask(w io.Writer, t storage.Task) {
	title := t.Title
	if t.Done {
		title = ui.Dim.Render(title)
	}
	line := fmt.Sprintf("%s %s %s %s", ui.DoneIcon(t.Done), ui.Muted.Render(shortID(t.ID)), ui.PriorityText(t.Priority), title)
	if t.DueDate != nil {
		line += " " + ui.Muted.Render(ui.IconCal+" "+calendar.DueKey(*t.DueDate))
	}
	if t.EstimateMinutes != nil {
		line += " " + ui.Muted.Render(fmt.Sprintf("%dm", *t.EstimateMinutes))
	}
	if len(t.Tags) > 0 {
		line += " " + ui.Muted.Render("#"+strings.Join(t.Tags, " #"))
	}
	fmt.Fprintln(w, line)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
