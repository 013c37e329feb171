package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var goalCmd = &cobra.Command{
	Use:   "goal <minutes>",
	Short: "Set the daily coding goal in minutes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, err := strconv.Atoi(args[0])
		if err != nil || minutes <= 0 {
			return fmt.Errorf("invalid goal %q: want a positive number of minutes", args[0])
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		if err := st.SetGoal(minutes); err != nil {
			return err
		}
		cmd.Printf("Daily goal set to %d minutes.\n", minutes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(goalCmd)
}
