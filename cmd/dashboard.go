package cmd

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/okaneo/handprint/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the live stats dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(os.Stdout.Fd()) {
			return fmt.Errorf("dashboard requires an interactive terminal")
		}

		refresh := func() tui.Data {
			// Re-open on every tick so records flushed by a concurrently
			// running tracker show up.
			st, err := openStore()
			if err != nil {
				return tui.Data{}
			}
			now := time.Now()
			return tui.Data{
				Today:        st.Today(now),
				Week:         st.Week(now),
				Month:        st.Month(now),
				GoalMinutes:  st.Goal(),
				Achievements: st.Achievements(),
			}
		}

		_, err := tea.NewProgram(tui.New(refresh), tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
