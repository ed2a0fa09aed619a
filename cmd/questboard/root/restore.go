package root

import (
	"errors"

	"github.com/spf13/cobra"
)

func newRestoreCmd(opts *sessionOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Reopen a completed task (undo completion)",
		Long: `Reopen a completed task.

This will:
- Clear the completion time
- Remove the task's XP from today's and the lifetime total

Claimed quest rewards are kept even if the quest goal no longer holds.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return setDone(cmd, opts, args[0], false)
		},
	}

	return cmd
}
