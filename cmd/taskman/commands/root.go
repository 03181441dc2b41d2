// Package commands implements the taskman CLI commands.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	flagConfigDir string
	flagDebug     bool
)

// NewRootCmd creates the taskman root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "taskman",
		Short:         "Command-line client for the task manager service",
		Long:          "taskman keeps a local view of your tasks and tags in sync with the remote task manager service.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/taskman)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewLoginCmd())
	rootCmd.AddCommand(NewLogoutCmd())
	rootCmd.AddCommand(NewStatusCmd())
	rootCmd.AddCommand(NewTaskCmd())
	rootCmd.AddCommand(NewTagCmd())
	rootCmd.AddCommand(NewOverdueCmd())

	return rootCmd
}
