package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all saved data",
	Long: `Clear the key-value store: the saved profile and, when task persistence is
enabled, the task list. The event log is kept.

The next launch starts at onboarding again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if IdentityMgr == nil {
			return fmt.Errorf("identity store not initialized")
		}
		if !resetForce {
			return fmt.Errorf("refusing to clear saved data without --force")
		}
		if err := IdentityMgr.Reset(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved data cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Clear without further confirmation")
	rootCmd.AddCommand(resetCmd)
}
