package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/study-dashboard/internal/model"
	"github.com/nhle/study-dashboard/internal/ui/forms"
)

var (
	objectiveInput  model.ObjectiveInput
	objectiveStatus string
	objectiveTitle  string
	objectiveDue    string
)

func init() {
	rootCmd.AddCommand(objectivesCmd)
	objectivesCmd.AddCommand(objectivesListCmd, objectivesAddCmd, objectivesUpdateCmd, objectivesDeleteCmd)

	f := objectivesAddCmd.Flags()
	f.StringVar(&objectiveInput.Title, "title", "", "objective title (opens a form when omitted)")
	f.StringVar(&objectiveInput.Description, "description", "", "description")
	f.StringVar(&objectiveInput.DueDate, "due", "", "due date (YYYY-MM-DD)")
	f.StringVar((*string)(&objectiveInput.Priority), "priority", "", "low, medium or high")

	f = objectivesUpdateCmd.Flags()
	f.StringVar(&objectiveStatus, "status", "", "NOT_STARTED, IN_PROGRESS or COMPLETED")
	f.StringVar(&objectiveTitle, "title", "", "new title")
	f.StringVar(&objectiveDue, "due", "", "new due date (YYYY-MM-DD)")
}

var objectivesCmd = &cobra.Command{
	Use:     "objectives",
	Aliases: []string{"objective", "obj"},
	Short:   "Manage learning objectives",
}

var objectivesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List objectives with their progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		if err := set.Objectives.Fetch(ctx); err != nil {
			return err
		}

		objectives := set.Objectives.Items()
		if len(objectives) == 0 {
			printEmpty(cmd, "objectives", "Add one with 'studydash objectives add'.")
			return nil
		}
		printTable(cmd,
			[]string{"ID", "Title", "Status", "Priority", "Progress", "Tasks", "Due"},
			objectiveRows(objectives, time.Now()))
		return nil
	},
}

var objectivesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an objective",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		in := objectiveInput
		in.Priority = model.ObjectivePriority(strings.ToLower(string(in.Priority)))
		if strings.TrimSpace(in.Title) == "" {
			if err := forms.Objective(&in).Run(); err != nil {
				return err
			}
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		o, err := set.Objectives.Create(ctx, in)
		if err != nil {
			return err
		}
		printDone(cmd, "Created objective %s (%s)", o.Title, o.ID)
		return nil
	},
}

var objectivesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change an objective's status, title or due date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}

		u := model.ObjectiveUpdate{ID: args[0]}
		if cmd.Flags().Changed("status") {
			status := model.ObjectiveStatus(strings.ToUpper(objectiveStatus))
			u.Status = &status
		}
		if cmd.Flags().Changed("title") {
			u.Title = &objectiveTitle
		}
		if cmd.Flags().Changed("due") {
			u.DueDate = &objectiveDue
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		o, err := set.Objectives.Update(ctx, u)
		if err != nil {
			return err
		}
		printDone(cmd, "Updated objective %s: %s, %d%% complete", o.Title, o.Status, o.Progress)
		return nil
	},
}

var objectivesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an objective (its tasks are kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		if err := set.Objectives.Delete(ctx, args[0]); err != nil {
			return err
		}
		printDone(cmd, "Deleted objective %s", args[0])
		return nil
	},
}
