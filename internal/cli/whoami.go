package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the saved profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if IdentityMgr == nil {
			return fmt.Errorf("identity store not initialized")
		}
		id, found, err := IdentityMgr.Load(context.Background())
		if err != nil {
			return fmt.Errorf("loading profile: %w", err)
		}
		out := cmd.OutOrStdout()
		if !found {
			fmt.Fprintln(out, "No profile saved yet. Run pomotask to set one up.")
			return nil
		}
		fmt.Fprintf(out, "Username: %s\n", id.Username)
		fmt.Fprintf(out, "Avatar:   %s\n", avatarSummary(id.Avatar))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
