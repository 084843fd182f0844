package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/nhle/study-dashboard/internal/model"
	"github.com/nhle/study-dashboard/internal/theme"
	"github.com/nhle/study-dashboard/internal/ui/forms"
)

var (
	noteInput       model.NoteInput
	noteListSummary bool
	noteListGoal    string
	noteCopy        bool
)

func init() {
	rootCmd.AddCommand(notesCmd)
	notesCmd.AddCommand(notesListCmd, notesAddCmd, notesShowCmd, notesSummarizeCmd, notesDeleteCmd)

	f := notesAddCmd.Flags()
	f.StringVar(&noteInput.Title, "title", "", "note title (opens a form when omitted)")
	f.StringVar(&noteInput.Content, "content", "", "note body")
	f.StringVar(&noteInput.RelatedObjective, "goal", "", "related objective ID")

	notesListCmd.Flags().BoolVar(&noteListSummary, "summarized", false, "only notes with an AI summary")
	notesListCmd.Flags().StringVar(&noteListGoal, "goal", "", "only notes of this objective")
	notesSummarizeCmd.Flags().BoolVar(&noteCopy, "copy", false, "copy the summary to the clipboard")
}

var notesCmd = &cobra.Command{
	Use:     "notes",
	Aliases: []string{"note"},
	Short:   "Manage study notes and their AI summaries",
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		if err := set.Notes.Fetch(ctx); err != nil {
			return err
		}

		notes := set.Notes.Items()
		switch {
		case noteListSummary:
			notes = set.Notes.WithSummary()
		case noteListGoal != "":
			notes = set.Notes.ForObjective(noteListGoal)
		}
		if len(notes) == 0 {
			printEmpty(cmd, "notes", "Add one with 'studydash notes add'.")
			return nil
		}

		rows := make([][]string, len(notes))
		for i, n := range notes {
			summary := "-"
			if n.HasAISummary {
				summary = "yes"
			}
			rows[i] = []string{n.ID, n.Title, summary, n.UpdatedAt.Local().Format("2006-01-02 15:04")}
		}
		printTable(cmd, []string{"ID", "Title", "Summary", "Updated"}, rows)
		return nil
	},
}

var notesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		in := noteInput
		if strings.TrimSpace(in.Title) == "" {
			_ = set.Objectives.Fetch(ctx)
			if err := forms.Note(&in, set.Objectives.Items()).Run(); err != nil {
				return err
			}
		}

		n, err := set.Notes.Create(ctx, in)
		if err != nil {
			return err
		}
		printDone(cmd, "Created note %s (%s)", n.Title, n.ID)
		return nil
	},
}

var notesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a note and its summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		if err := set.Notes.Fetch(ctx); err != nil {
			return err
		}
		n, ok := set.Notes.Get(args[0])
		if !ok {
			return fmt.Errorf("note %s not found", args[0])
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.HeaderStyle.Render(n.Title))
		fmt.Fprintln(out, n.Content)
		if n.HasAISummary {
			fmt.Fprintln(out)
			fmt.Fprintln(out, theme.SuccessStyle.Render("AI summary"))
			fmt.Fprintln(out, n.AISummary)
		}
		return nil
	},
}

var notesSummarizeCmd = &cobra.Command{
	Use:   "summarize <id>",
	Short: "Ask the backend to summarize a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		summary, err := set.Notes.GenerateAISummary(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), summary.AISummary)

		if noteCopy {
			if err := clipboard.WriteAll(summary.AISummary); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not copy to clipboard: %v\n", err)
			} else {
				printDone(cmd, "Summary copied to clipboard!")
			}
		}
		return nil
	},
}

var notesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		if err := set.Notes.Delete(ctx, args[0]); err != nil {
			return err
		}
		printDone(cmd, "Deleted note %s", args[0])
		return nil
	},
}
