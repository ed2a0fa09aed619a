package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"questboard/internal/ui"
)

const Version = "0.1.0"

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "questboard",
		Short:         "Questboard: a task list that pays out XP, quests and loot",
		Long:          "Questboard is a CLI/TUI task list with levels, daily and weekly quests, streaks and loot chests.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $QUESTBOARD_CONFIG)")

	opts := &sessionOptions{configPath: &configPath}
	rootCmd.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newDoCmd(opts),
		newRestoreCmd(opts),
		newRmCmd(opts),
		newClearCmd(opts),
		newGoalCmd(opts),
		newStatusCmd(opts),
		newQuestsCmd(opts),
		newClaimCmd(opts),
		newTagsCmd(opts),
		newBoardCmd(opts),
	)
	return rootCmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
