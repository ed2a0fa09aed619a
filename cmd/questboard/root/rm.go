package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"questboard/internal/ui"
)

func newRmCmd(opts *sessionOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
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

			t, err := svc.FindTask(args[0])
			if err != nil {
				return err
			}
			if err := svc.DeleteTask(ctx, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Warn.Render(ui.IconTrash+" Deleted"), t.Title)
			return nil
		},
	}

	return cmd
}
