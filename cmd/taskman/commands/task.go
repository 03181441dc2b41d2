package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yuchan1120/task-manager-cli/internal/models"
	"github.com/yuchan1120/task-manager-cli/internal/overdue"
	"github.com/yuchan1120/task-manager-cli/internal/view"
)

// NewTaskCmd creates the task command group.
func NewTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskAddCmd())
	cmd.AddCommand(newTaskDoneCmd())
	cmd.AddCommand(newTaskRmCmd())
	cmd.AddCommand(newTaskEditCmd())
	return cmd
}

func newTaskListCmd() *cobra.Command {
	var (
		filter string
		search string
		tagID  int64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, filtered and sorted by due date",
		RunE: func(cmd *cobra.Command, args []string) error {
			completion := view.CompletionFilter(filter)
			if !completion.Valid() {
				return fmt.Errorf("invalid --filter %q (must be all, completed, or incomplete)", filter)
			}

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
			// A failed tag fetch only degrades tag names, not the listing.
			if err := app.Tags.FetchAll(cmd.Context()); err != nil {
				fmt.Printf("Warning: %v\n", err)
			}

			criteria := view.Criteria{Completion: completion, Search: search}
			if cmd.Flags().Changed("tag") {
				criteria.TagID = &tagID
			}

			tasks := view.Apply(app.Tasks.Tasks(), criteria)
			if len(tasks) == 0 {
				fmt.Println("No tasks.")
				return nil
			}

			now := time.Now()
			for _, task := range tasks {
				fmt.Println(formatTask(task, app.Tags.Tags(), now))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", string(view.FilterAll), "completion filter: all, completed, or incomplete")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive search over title and description")
	cmd.Flags().Int64Var(&tagID, "tag", 0, "only tasks carrying this tag id")
	return cmd
}

func newTaskAddCmd() *cobra.Command {
	var (
		title       string
		description string
		due         string
		tagIDs      []int64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			newTask := models.NewTask{
				Title:       title,
				Description: description,
				TagIDs:      tagIDs,
			}
			if due != "" {
				date, err := models.ParseDate(due)
				if err != nil {
					return err
				}
				newTask.DueDate = &date
			}

			app, err := NewApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.Tasks.Add(cmd.Context(), newTask); err != nil {
				return err
			}
			fmt.Println("Task added.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "task title (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().Int64SliceVar(&tagIDs, "tags", nil, "tag ids to attach")
	return cmd
}

func newTaskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's completion state",
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
			if err := app.Tasks.ToggleCompletion(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Println("Task toggled.")
			return nil
		},
	}
}

func newTaskRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
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
			if err := app.Tasks.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Println("Task deleted.")
			return nil
		},
	}
}

func newTaskEditCmd() *cobra.Command {
	var (
		title       string
		description string
		due         string
		completed   bool
		clearDue    bool
		tagIDs      []int64
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update fields of a task",
		Long:  "Update a task. Only the flags given are sent to the service; everything else is left unchanged.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch models.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("completed") {
				patch.Completed = &completed
			}
			if cmd.Flags().Changed("tags") {
				patch.TagIDs = &tagIDs
			}
			if clearDue {
				patch.DueDate = &models.Date{}
			} else if cmd.Flags().Changed("due") {
				date, err := models.ParseDate(due)
				if err != nil {
					return err
				}
				patch.DueDate = &date
			}

			app, err := NewApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.Tasks.Update(cmd.Context(), id, patch); err != nil {
				return err
			}
			fmt.Println("Task updated.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVar(&due, "due", "", "new due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&completed, "completed", false, "set completion state")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "remove the due date")
	cmd.Flags().Int64SliceVar(&tagIDs, "tags", nil, "replace the attached tag ids")
	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

// formatTask renders one listing line, e.g.
//
//	[ ] 3 Write report (due 2025-06-20, overdue) #work #urgent
func formatTask(task models.Task, tags []models.Tag, now time.Time) string {
	var b strings.Builder

	if task.Completed {
		b.WriteString("[x] ")
	} else {
		b.WriteString("[ ] ")
	}
	fmt.Fprintf(&b, "%d %s", task.ID, task.Title)

	if task.DueDate != nil && !task.DueDate.IsZero() {
		fmt.Fprintf(&b, " (due %s", task.DueDate)
		if overdue.IsOverdue(task, now) {
			b.WriteString(", overdue")
		}
		b.WriteString(")")
	}

	for _, name := range view.TagNames(tags, task) {
		b.WriteString(" #")
		b.WriteString(name)
	}

	return b.String()
}
