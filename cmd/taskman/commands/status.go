package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session state and the configured service",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Session.Bootstrap(cmd.Context()); err != nil {
				return err
			}

			fmt.Printf("Service: %s\n", app.Config.BaseURL)
			if app.Session.IsAuthenticated() {
				fmt.Println("Session: logged in")
			} else {
				fmt.Println("Session: not logged in")
			}
			return nil
		},
	}
}
