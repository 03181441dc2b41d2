package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewOverdueCmd creates the overdue command.
func NewOverdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List incomplete tasks past their due date",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.Tasks.FetchAll(cmd.Context()); err != nil {
				return err
			}
			if err := app.Tags.FetchAll(cmd.Context()); err != nil {
				fmt.Printf("Warning: %v\n", err)
			}

			app.Overdue.Recompute(app.Tasks.Tasks())
			if !app.Overdue.Open() {
				fmt.Println("Nothing overdue.")
				return nil
			}

			now := time.Now()
			for _, task := range app.Overdue.Tasks() {
				fmt.Println(formatTask(task, app.Tags.Tags(), now))
			}
			return nil
		},
	}
}
