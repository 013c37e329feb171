package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/okaneo/handprint/internal/tui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's attribution and goal progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}

		today := st.Today(time.Now())
		coding := today.HumanTime + today.AITime
		goalSeconds := st.Goal() * 60
		progress := 0
		if goalSeconds > 0 {
			progress = coding * 100 / goalSeconds
			if progress > 100 {
				progress = 100
			}
		}

		cmd.Printf("Human: %s\n", tui.FormatDuration(today.HumanTime))
		cmd.Printf("AI:    %s\n", tui.FormatDuration(today.AITime))
		cmd.Printf("Total: %s\n", tui.FormatDuration(int(today.TotalTime)))
		cmd.Printf("Score: %d\n", today.Productivity)
		cmd.Printf("Goal:  %d%% of %dm\n", progress, st.Goal())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
