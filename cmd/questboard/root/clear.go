package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"questboard/internal/ui"
)

func newClearCmd(opts *sessionOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every completed task",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := svc.ClearCompleted(ctx)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Nothing to clear."))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d completed task(s)\n", ui.Warn.Render(ui.IconTrash+" Cleared"), n)
			return nil
		},
	}

	return cmd
}
