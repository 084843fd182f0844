package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/study-dashboard/internal/model"
	"github.com/nhle/study-dashboard/internal/ui/forms"
)

var (
	taskInput      model.TaskInput
	taskListGoal   string
	taskListStatus string
	taskListDue    bool
)

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksListCmd, tasksAddCmd, tasksDoneCmd, tasksStartCmd, tasksDeleteCmd, tasksTagsCmd)

	f := tasksAddCmd.Flags()
	f.StringVar(&taskInput.Title, "title", "", "task title (opens a form when omitted)")
	f.StringVar(&taskInput.Description, "description", "", "description")
	f.StringVar(&taskInput.DueDate, "due", "", "due date (YYYY-MM-DD)")
	f.StringVar((*string)(&taskInput.Priority), "priority", "", "LOW, MEDIUM or HIGH")
	f.StringVar(&taskInput.GoalID, "goal", "", "objective ID")
	f.StringSliceVar(&taskInput.Tags, "tag", nil, "tag (repeatable)")

	f = tasksListCmd.Flags()
	f.StringVar(&taskListGoal, "goal", "", "only tasks of this objective")
	f.StringVar(&taskListStatus, "status", "", "only tasks in this status")
	f.BoolVar(&taskListDue, "overdue", false, "only overdue tasks")
}

var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Aliases: []string{"task"},
	Short:   "Manage tasks",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		if err := set.Tasks.Fetch(ctx); err != nil {
			return err
		}

		now := time.Now()
		tasks := set.Tasks.Items()
		switch {
		case taskListDue:
			tasks = set.Tasks.Overdue(now)
		case taskListGoal != "":
			tasks = set.Tasks.ForObjective(taskListGoal)
		}
		if taskListStatus != "" {
			want := model.TaskStatus(strings.ToUpper(taskListStatus))
			filtered := tasks[:0:0]
			for _, t := range tasks {
				if t.Status == want {
					filtered = append(filtered, t)
				}
			}
			tasks = filtered
		}

		if len(tasks) == 0 {
			printEmpty(cmd, "matching tasks", "Add one with 'studydash tasks add'.")
			return nil
		}
		printTable(cmd,
			[]string{"ID", "Title", "Status", "Priority", "Due", "Objective", "Tags"},
			taskRows(tasks, now))
		return nil
	},
}

var tasksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a task",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		in := taskInput
		in.Priority = model.TaskPriority(strings.ToUpper(string(in.Priority)))
		if strings.TrimSpace(in.Title) == "" {
			// Objectives feed the goal selector; a failed fetch just hides it.
			_ = set.Objectives.Fetch(ctx)
			if err := forms.Task(&in, set.Objectives.Items()).Run(); err != nil {
				return err
			}
		}

		t, err := set.Tasks.Create(ctx, in)
		if err != nil {
			return err
		}
		printDone(cmd, "Created task %s (%s)", t.Title, t.ID)
		return nil
	},
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskStatus(cmd, args[0], model.TaskCompleted)
	},
}

var tasksStartCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Mark a task in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskStatus(cmd, args[0], model.TaskInProgress)
	},
}

func setTaskStatus(cmd *cobra.Command, id string, status model.TaskStatus) error {
	set, _, err := openStores()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()
	t, err := set.Tasks.Update(ctx, model.TaskUpdate{ID: id, Status: &status})
	if err != nil {
		return err
	}
	printDone(cmd, "%s is now %s", t.Title, t.Status)
	return nil
}

var tasksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		if err := set.Tasks.Delete(ctx, args[0]); err != nil {
			return err
		}
		printDone(cmd, "Deleted task %s", args[0])
		return nil
	},
}

var tasksTagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the tags in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		if err := set.Tasks.Fetch(ctx); err != nil {
			return err
		}
		for _, tag := range set.Tasks.Tags() {
			fmt.Fprintln(cmd.OutOrStdout(), tag)
		}
		return nil
	},
}
