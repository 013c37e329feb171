package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okaneo/handprint/internal/stats"
	"github.com/okaneo/handprint/internal/tui"
)

var statsPeriod string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated time for a calendar window",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}

		now := time.Now()
		var agg stats.Aggregate
		switch statsPeriod {
		case "today":
			agg = st.Today(now)
		case "week":
			agg = st.Week(now)
		case "month":
			agg = st.Month(now)
		default:
			return fmt.Errorf("unknown period %q (want today, week, or month)", statsPeriod)
		}

		cmd.Printf("Period:       %s\n", statsPeriod)
		cmd.Printf("Human time:   %s\n", tui.FormatDuration(agg.HumanTime))
		cmd.Printf("AI time:      %s\n", tui.FormatDuration(agg.AITime))
		cmd.Printf("Total time:   %s\n", tui.FormatDuration(int(agg.TotalTime)))
		cmd.Printf("Productivity: %d\n", agg.Productivity)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsPeriod, "period", "p", "today", "today, week, or month")
	rootCmd.AddCommand(statsCmd)
}
