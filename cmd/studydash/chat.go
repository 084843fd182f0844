package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/study-dashboard/internal/model"
	"github.com/nhle/study-dashboard/internal/theme"
)

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.AddCommand(chatListCmd, chatNewCmd, chatSendCmd, chatShowCmd, chatRenameCmd, chatDeleteCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the study assistant",
}

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chat sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		if err := set.Chat.Fetch(ctx); err != nil {
			return err
		}

		sessions := set.Chat.Items()
		if len(sessions) == 0 {
			printEmpty(cmd, "chats", "Start one with 'studydash chat new'.")
			return nil
		}
		rows := make([][]string, len(sessions))
		for i, s := range sessions {
			last := "-"
			if msg, ok := set.Chat.LastMessage(s.ID); ok {
				last = truncate(msg.Content, 40)
			}
			rows[i] = []string{s.ID, s.Title, fmt.Sprint(len(s.Messages)), last}
		}
		printTable(cmd, []string{"ID", "Title", "Messages", "Last"}, rows)
		return nil
	},
}

var chatNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Start a chat session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		var in model.ChatSessionInput
		if len(args) == 1 {
			in.Title = args[0]
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		s, err := set.Chat.Create(ctx, in)
		if err != nil {
			return err
		}
		printDone(cmd, "Started chat %s (%s)", s.Title, s.ID)
		return nil
	},
}

var chatSendCmd = &cobra.Command{
	Use:   "send <id> <message>",
	Short: "Send a message and print the reply",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		msgs, err := set.Chat.SendMessage(ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			if msg.Role == model.ChatRoleAssistant {
				printMessage(cmd, msg)
			}
		}
		return nil
	},
}

var chatShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a chat transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		if err := set.Chat.Fetch(ctx); err != nil {
			return err
		}
		s, ok := set.Chat.Get(args[0])
		if !ok {
			return fmt.Errorf("chat %s not found", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), theme.HeaderStyle.Render(s.Title))
		for _, msg := range s.Messages {
			printMessage(cmd, msg)
		}
		return nil
	},
}

var chatRenameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Rename a chat session",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		s, err := set.Chat.Rename(ctx, model.ChatSessionInput{ID: args[0], Title: strings.Join(args[1:], " ")})
		if err != nil {
			return err
		}
		printDone(cmd, "Renamed chat to %s", s.Title)
		return nil
	},
}

var chatDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a chat session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, _, err := openStores()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		if err := set.Chat.Delete(ctx, args[0]); err != nil {
			return err
		}
		printDone(cmd, "Deleted chat %s", args[0])
		return nil
	},
}

func printMessage(cmd *cobra.Command, msg model.ChatMessage) {
	out := cmd.OutOrStdout()
	label := theme.SuccessStyle.Render("Assistant:")
	if msg.Role == model.ChatRoleUser {
		label = theme.HeaderStyle.Render("You:")
	}
	fmt.Fprintln(out, label)
	fmt.Fprintln(out, msg.Content)
	if msg.Metadata != nil && msg.Metadata.NoteTitle != "" {
		fmt.Fprintln(out, theme.HelpStyle.Render("↳ note: "+msg.Metadata.NoteTitle))
	}
	fmt.Fprintln(out)
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
