package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/pomotask/internal/observability"
)

var (
	statsJSON  bool
	statsSince string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display focus and task statistics",
	Long: `Display statistics derived from the event log: completed focus and break
intervals, total focus time, and tasks added, completed and deleted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("stats not available (event log may be disabled)")
		}

		sinceTime, err := observability.ParseSince(statsSince, time.Now())
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		m, err := MetricsCalc.Calculate(sinceTime)
		if err != nil {
			return fmt.Errorf("calculating stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if statsJSON {
			data, err := json.MarshalIndent(m, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting stats as JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "Stats (since %s)\n\n", sinceTime.Format("2006-01-02"))
		fmt.Fprintf(out, "  %-24s %d\n", "Focus intervals:", m.FocusIntervals)
		fmt.Fprintf(out, "  %-24s %s\n", "Focus time:", m.FocusTime())
		fmt.Fprintf(out, "  %-24s %d\n", "Break intervals:", m.BreakIntervals)
		fmt.Fprintf(out, "  %-24s %d\n", "Tasks added:", m.TasksAdded)
		fmt.Fprintf(out, "  %-24s %d\n", "Tasks completed:", m.TasksCompleted)
		fmt.Fprintf(out, "  %-24s %d\n", "Tasks deleted:", m.TasksDeleted)
		if m.Failures > 0 {
			fmt.Fprintf(out, "  %-24s %d\n", "Failed operations:", m.Failures)
		}
		fmt.Fprintf(out, "  %-24s %d\n", "Events recorded:", m.EventCount)

		if m.OldestEvent != nil {
			fmt.Fprintf(out, "\n  %-24s %s\n", "Oldest event:", m.OldestEvent.Format(time.RFC3339))
		}
		if m.NewestEvent != nil {
			fmt.Fprintf(out, "  %-24s %s\n", "Newest event:", m.NewestEvent.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output stats as JSON")
	statsCmd.Flags().StringVar(&statsSince, "since", "7d", "Time window for stats (e.g. 7d, 30d, 24h)")
	rootCmd.AddCommand(statsCmd)
}
