package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/okaneo/handprint/internal/achievement"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and their unlock state",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}

		// Evaluate on demand so a freshly crossed threshold shows up without
		// a running tracker.
		now := time.Now()
		if unlocked := achievement.Evaluate(st.Achievements(), st.Today(now), now); len(unlocked) > 0 {
			if err := st.SaveAchievements(); err != nil {
				cmd.PrintErrf("warning: %v\n", err)
			}
		}

		for _, a := range st.Achievements() {
			if a.Unlocked {
				when := ""
				if a.UnlockedAt != nil {
					when = " (" + a.UnlockedAt.Format("2006-01-02") + ")"
				}
				cmd.Printf("%s %s: %s%s\n", a.Icon, a.Name, a.Description, when)
			} else {
				cmd.Printf("🔒 %s: %s\n", a.Name, a.Description)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(achievementsCmd)
}
