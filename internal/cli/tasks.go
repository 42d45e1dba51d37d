package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dori/tickoff/internal/app"
	"github.com/dori/tickoff/internal/model"
	"github.com/spf13/cobra"
)

var errEmptyText = errors.New("task text is empty")

// withApp opens the application for the duration of fn
func (s *state) withApp(fn func(a *app.App) error) error {
	a, err := s.openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func newAddCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Example: `  tickoff add Buy milk
  tickoff add "Call the plumber"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withApp(func(a *app.App) error {
				task, added, err := a.Store.Add(strings.Join(args, " "))
				if err != nil {
					return err
				}
				if !added {
					return errEmptyText
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d: %s\n", len(a.Store.Tasks()), task.Text)
				return nil
			})
		},
	}
}

func newListCmd(s *state) *cobra.Command {
	var filterName string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks with their numbers. Numbers refer to the full list, so they
stay valid for toggle, edit and rm when a filter is applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := model.ParseFilter(filterName)
			if err != nil {
				return err
			}
			return s.withApp(func(a *app.App) error {
				printList(cmd.OutOrStdout(), a.Store.Tasks(), filter)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&filterName, "filter", "f", string(model.FilterAll), "show all, active or completed tasks")
	return cmd
}

func printList(w io.Writer, tasks []model.Task, filter model.Filter) {
	shown := 0
	for i, t := range tasks {
		if !filter.Matches(t) {
			continue
		}
		formatTask(w, i+1, t)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(w, "No tasks to display")
	}

	s := model.Summarize(tasks)
	fmt.Fprintf(w, "\n%d of %d tasks completed\n", s.Completed, s.Total)
}

// formatTask writes "{N:>4}  [x] {TEXT}"
func formatTask(w io.Writer, num int, t model.Task) {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s\n", num, box, t.Text)
}

func newToggleCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <n>",
		Aliases: []string{"done"},
		Short:   "Mark a task completed, or open again",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			num, err := ParseTaskRef(args)
			if err != nil {
				return err
			}
			return s.withApp(func(a *app.App) error {
				task, err := resolveTask(a.Store.Tasks(), num)
				if err != nil {
					return err
				}
				if _, err := a.Store.Toggle(task.ID); err != nil {
					return err
				}
				verb := "Completed"
				if task.Completed {
					verb = "Reopened"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d: %s\n", verb, num, task.Text)
				return nil
			})
		},
	}
}

func newEditCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <n> <text...>",
		Short: "Replace a task's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			num, err := ParseTaskRef(args)
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			return s.withApp(func(a *app.App) error {
				task, err := resolveTask(a.Store.Tasks(), num)
				if err != nil {
					return err
				}
				ok, err := a.Store.Edit(task.ID, text)
				if err != nil {
					return err
				}
				if !ok {
					return errEmptyText
				}
				updated, _ := a.Store.Get(task.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %d: %s\n", num, updated.Text)
				return nil
			})
		},
	}
}

func newRmCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <n>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			num, err := ParseTaskRef(args)
			if err != nil {
				return err
			}
			return s.withApp(func(a *app.App) error {
				task, err := resolveTask(a.Store.Tasks(), num)
				if err != nil {
					return err
				}
				if _, err := a.Store.Delete(task.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d: %s\n", num, task.Text)
				return nil
			})
		},
	}
}

func newClearCompletedCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withApp(func(a *app.App) error {
				n, err := a.Store.ClearCompleted()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed task(s)\n", n)
				return nil
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		// No config needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tickoff v%s\n", Version)
		},
	}
}
