package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"questboard/internal/ui"
)

func newTagsCmd(opts *sessionOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List the tags in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			tags := svc.Tags()
			if len(tags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(no tags)"))
				return nil
			}
			for _, tag := range tags {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.IconTag, tag)
			}
			return nil
		},
	}

	return cmd
}
