package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/pomotask/internal/core"
)

var (
	timerFocusMinutes int
	timerBreakMinutes int
	timerIntervals    int
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Run the Pomodoro timer in the terminal without the interface",
	Long: `Run the focus/break timer headless, printing the remaining time once per
second. The timer alternates between focus and break until interrupted or
until --intervals intervals have completed.

Durations default to timer.focus_minutes and timer.break_minutes from
.pomotask.yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := timerConfig()
		if cmd.Flags().Changed("focus") {
			cfg.FocusMinutes = timerFocusMinutes
		}
		if cmd.Flags().Changed("break") {
			cfg.BreakMinutes = timerBreakMinutes
		}
		if err := core.ValidateMinutes("--focus", cfg.FocusMinutes); err != nil {
			return err
		}
		if err := core.ValidateMinutes("--break", cfg.BreakMinutes); err != nil {
			return err
		}
		if timerIntervals < 0 {
			return fmt.Errorf("--intervals must not be negative")
		}

		state := core.NewTimerState(cfg.FocusMinutes*60, cfg.BreakMinutes*60)
		timer := core.NewPomodoroTimer(state, core.NewRealClock(), Events)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		return runHeadlessTimer(ctx, cmd.OutOrStdout(), timer, timerIntervals)
	},
}

// runHeadlessTimer starts timer and services its tick channel until ctx is
// cancelled or intervals mode switches have happened (0 means no limit). The
// tick source is released on return.
func runHeadlessTimer(ctx context.Context, w io.Writer, timer *core.PomodoroTimer, intervals int) error {
	defer timer.Close()

	timer.StartPause()
	printTimerLine(w, timer.State())

	completed := 0
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(w)
			return nil
		case <-timer.Ticks():
			prev := timer.Mode()
			if timer.Tick() {
				completed++
				fmt.Fprintf(w, "\n%s complete. Starting %s.\n", prev.Label(), timer.Mode().Label())
				if intervals > 0 && completed >= intervals {
					return nil
				}
			}
			printTimerLine(w, timer.State())
		}
	}
}

func printTimerLine(w io.Writer, st core.TimerState) {
	fmt.Fprintf(w, "\r%-5s %s  %s", st.Mode.Label(), st.FormattedTime(), st.Encouragement())
}

func init() {
	timerCmd.Flags().IntVar(&timerFocusMinutes, "focus", 0, "Focus interval in minutes (overrides config)")
	timerCmd.Flags().IntVar(&timerBreakMinutes, "break", 0, "Break interval in minutes (overrides config)")
	timerCmd.Flags().IntVar(&timerIntervals, "intervals", 0, "Stop after this many completed intervals (0 runs until interrupted)")
	rootCmd.AddCommand(timerCmd)
}
