package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/study-dashboard/internal/model"
	"github.com/nhle/study-dashboard/internal/theme"
)

func printTable(cmd *cobra.Command, headers []string, rows [][]string) {
	fmt.Fprintln(cmd.OutOrStdout(), theme.Table(headers, rows).String())
}

func printEmpty(cmd *cobra.Command, what, hint string) {
	fmt.Fprintf(cmd.OutOrStdout(), "No %s yet. %s\n", what, hint)
}

func printDone(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessStyle.Render(fmt.Sprintf(format, args...)))
}

// dueCell renders a due date, flagging it when overdue.
func dueCell(dueDate string, overdue bool) string {
	if dueDate == "" {
		return "-"
	}
	if len(dueDate) > 10 {
		dueDate = dueDate[:10]
	}
	if overdue {
		return theme.OverdueStyle.Render(dueDate + " !")
	}
	return dueDate
}

func objectiveRows(objectives []model.Objective, now time.Time) [][]string {
	rows := make([][]string, len(objectives))
	for i, o := range objectives {
		rows[i] = []string{
			o.ID,
			o.Title,
			theme.ObjectiveStatusStyle(o.Status).Render(string(o.Status)),
			theme.PriorityStyle(string(o.Priority)).Render(string(o.Priority)),
			theme.ProgressBar(o.Progress, 10),
			fmt.Sprintf("%d/%d", o.CompletedTasks, o.TotalTasks),
			dueCell(o.DueDate, o.IsOverdue(now)),
		}
	}
	return rows
}

func taskRows(tasks []model.Task, now time.Time) [][]string {
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		tags := "-"
		if len(t.Tags) > 0 {
			tags = strings.Join(t.Tags, ", ")
		}
		goal := t.GoalID
		if goal == "" {
			goal = "-"
		}
		rows[i] = []string{
			t.ID,
			t.Title,
			theme.TaskStatusStyle(t.Status).Render(string(t.Status)),
			theme.PriorityStyle(string(t.Priority)).Render(string(t.Priority)),
			dueCell(t.DueDate, t.IsOverdue(now)),
			goal,
			tags,
		}
	}
	return rows
}
