package cmd

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove all of today's session records (irreversible)",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Unlocked achievements survive a reset on purpose.
		if !resetForce && term.IsTerminal(os.Stdin.Fd()) {
			cmd.Print("Remove all of today's records? This cannot be undone. [y/N] ")
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
				cmd.Println("aborted")
				return nil
			}
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		if err := st.ResetToday(time.Now()); err != nil {
			return err
		}
		cmd.Println("Today's records removed.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}
