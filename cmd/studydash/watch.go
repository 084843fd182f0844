package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/study-dashboard/internal/app"
	appsync "github.com/nhle/study-dashboard/internal/sync"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the live dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, session, err := openStores()
		if err != nil {
			return err
		}

		poller := appsync.New(logger)
		poller.RegisterSet(set, time.Duration(cfg.Watch.PollIntervalSec)*time.Second)
		defer poller.Stop()

		m := app.New(set, poller, session.Session().Email)
		_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
		return err
	},
}
