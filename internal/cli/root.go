package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "pomotask",
	Short: "pomotask - a task list and Pomodoro focus timer",
	Long: `pomotask is a terminal task list combined with a focus/break interval
timer. On first launch it asks for a display name and an optional avatar
image, then opens two tabs: Tasks (daily and weekly lists) and Timer.

Run without arguments to start the interactive interface.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil || IdentityMgr == nil {
			return fmt.Errorf("services not initialized")
		}
		m := newShellModel(shellDeps{
			identity:    IdentityMgr,
			picker:      ImagePicker,
			tasks:       TaskMgr,
			events:      Events,
			timer:       timerConfig(),
			identityCfg: identityConfig(),
		})
		p := tea.NewProgram(m, tea.WithAltScreen())
		final, err := p.Run()
		if sm, ok := final.(shellModel); ok {
			sm.teardown()
		}
		if err != nil {
			return fmt.Errorf("running interface: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pomotask %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
