package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/okaneo/handprint/internal/achievement"
	"github.com/okaneo/handprint/internal/classify"
	"github.com/okaneo/handprint/internal/event"
	sig "github.com/okaneo/handprint/internal/signal"
	"github.com/okaneo/handprint/internal/stats"
	"github.com/okaneo/handprint/internal/tracker"
	"github.com/okaneo/handprint/internal/tui"
	"github.com/okaneo/handprint/internal/watch"
)

var (
	modeStyle = map[string]lipgloss.Style{
		"human": lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true),
		"ai":    lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		"idle":  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
	unlockStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("178")).Bold(true)
	quietTrack  bool
)

// assistantScanInterval is how often the process-based assistant probe runs.
const assistantScanInterval = 30 * time.Second

var trackCmd = &cobra.Command{
	Use:   "track [dir]",
	Short: "Watch a workspace directory and attribute editing time",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("not a directory: %s", dir)
		}

		st, err := openStore()
		if err != nil {
			return err
		}

		signals := sig.NewState()
		cls := classify.New()
		cls.MinInsertionSize = cfg.MinAIInsertionSize
		cls.AIPatterns = cfg.AIPatterns
		if cfg.DetectLargePastes != nil {
			cls.DetectLargePastes = *cfg.DetectLargePastes
		}

		hooks := tracker.Hooks{
			ModeChanged: func(m tracker.Mode) {
				if quietTrack {
					return
				}
				fmt.Printf("%s mode: %s\n", time.Now().Format("15:04:05"),
					modeStyle[m.String()].Render(m.String()))
			},
			Flushed: func(rec stats.Record, err error) {
				if err != nil {
					// Never fatal: the in-memory session already moved on.
					fmt.Fprintf(os.Stderr, "warning: %v\n", err)
				}
			},
			Unlocked: func(a achievement.Achievement) {
				fmt.Printf("%s %s\n", a.Icon,
					unlockStyle.Render("Achievement unlocked: "+a.Name))
			},
		}

		trk := tracker.New(cls, signals, st,
			tracker.WithIdleTimeout(time.Duration(cfg.IdleTimeout)*time.Second),
			tracker.WithHooks(hooks),
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Collectors: clipboard poller and assistant-process probe.
		clip := sig.NewClipboardWatcher(signals)
		go clip.Run(ctx)

		assistant := sig.NewAssistantWatcher(signals)
		assistant.ScanProcesses()
		go func() {
			ticker := time.NewTicker(assistantScanInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					assistant.ScanProcesses()
				}
			}
		}()

		// Host adapter: filesystem writes become edit events.
		watcher := watch.New(dir, cfg.IgnorePatterns)
		go func() {
			if err := watcher.Run(ctx, func(ev event.Event) {
				trk.HandleEdit(ev)
			}); err != nil {
				fmt.Fprintf(os.Stderr, "warning: watcher stopped: %v\n", err)
			}
		}()

		fmt.Printf("tracking %s (goal %dm, idle timeout %ds), ctrl-c to stop\n",
			dir, st.Goal(), cfg.IdleTimeout)

		// Blocks until interrupted; flushes the session on the way out.
		trk.Run(ctx)

		today := st.Today(time.Now())
		fmt.Printf("\nstopped. today: human %s, ai %s, score %d\n",
			tui.FormatDuration(today.HumanTime), tui.FormatDuration(today.AITime),
			today.Productivity)
		return nil
	},
}

func init() {
	trackCmd.Flags().BoolVarP(&quietTrack, "quiet", "q", false, "suppress mode-change output")
	rootCmd.AddCommand(trackCmd)
}
