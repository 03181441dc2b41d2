package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewTagCmd creates the tag command group.
func NewTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
	}
	cmd.AddCommand(newTagListCmd())
	cmd.AddCommand(newTagAddCmd())
	cmd.AddCommand(newTagRenameCmd())
	cmd.AddCommand(newTagRmCmd())
	return cmd
}

func newTagListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.Tags.FetchAll(cmd.Context()); err != nil {
				return err
			}

			tags := app.Tags.Tags()
			if len(tags) == 0 {
				fmt.Println("No tags.")
				return nil
			}
			for _, tag := range tags {
				fmt.Printf("%d %s\n", tag.ID, tag.Name)
			}
			return nil
		},
	}
}

func newTagAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.Tags.Add(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Tag added.")
			return nil
		},
	}
}

func newTagRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			app, err := NewApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.Tags.Rename(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			fmt.Println("Tag renamed.")
			return nil
		},
	}
}

func newTagRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			app, err := NewApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.Tags.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Println("Tag deleted.")
			return nil
		},
	}
}
