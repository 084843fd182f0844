package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/study-dashboard/internal/theme"
)

func init() {
	rootCmd.AddCommand(achievementsCmd)
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Show achievement progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		if err := set.Achievements.Fetch(ctx); err != nil {
			return err
		}

		achievements := set.Achievements.Items()
		if len(achievements) == 0 {
			printEmpty(cmd, "achievements", "Complete some tasks to get started.")
			return nil
		}
		rows := make([][]string, len(achievements))
		for i, a := range achievements {
			state := theme.DimmedStyle.Render("locked")
			if a.Unlocked {
				state = theme.SuccessStyle.Render("unlocked")
			}
			percent := 0
			if a.Total > 0 {
				percent = a.Progress * 100 / a.Total
			}
			rows[i] = []string{a.Icon + " " + a.Title, a.Description, state, theme.ProgressBar(percent, 10)}
		}
		printTable(cmd, []string{"Achievement", "Description", "State", "Progress"}, rows)
		fmt.Fprintf(cmd.OutOrStdout(), "%d unlocked (%d%%)\n", set.Achievements.UnlockedCount(), set.Achievements.Completion())
		return nil
	},
}
