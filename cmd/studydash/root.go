package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/study-dashboard/internal/api"
	"github.com/nhle/study-dashboard/internal/auth"
	"github.com/nhle/study-dashboard/internal/credential"
	"github.com/nhle/study-dashboard/internal/logging"
	"github.com/nhle/study-dashboard/internal/model"
	"github.com/nhle/study-dashboard/internal/store"
)

// errNotLoggedIn is returned by commands that need a session.
var errNotLoggedIn = errors.New("not logged in: run 'studydash login' first")

var (
	configPath string
	logLevel   string
	viaProxy   bool

	cfg    *model.AppConfig
	logger *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "studydash",
	Short: "Study dashboard: objectives, tasks, notes and an AI study assistant",
	Long: `studydash talks to the study backend from the terminal.

It keeps your session in the system keyring, mirrors your objectives,
tasks, notes, chats and achievements, and can run the dashboard server
(auth proxy and session bootstrap) or a local reference backend.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = model.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if viaProxy {
			cfg.Backend.AuthViaProxy = true
		}
		logger, err = logging.New(cfg.Log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "path to the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&viaProxy, "via-proxy", false, "authenticate through the dashboard server instead of the backend")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if api.IsUnauthorized(err) {
			err = fmt.Errorf("%w (session expired? run 'studydash login')", err)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func requestTimeout() time.Duration {
	return time.Duration(cfg.Backend.TimeoutSec) * time.Second
}

// openAuth restores the saved session from the keyring.
func openAuth() (*auth.Store, error) {
	creds, err := credential.Open()
	if err != nil {
		return nil, err
	}
	gateway := api.NewAuthGateway(cfg, api.WithTimeout(requestTimeout()))
	st := auth.NewStore(gateway, auth.WithCredentials(creds), auth.WithLogger(logger))
	if err := st.Restore(); err != nil {
		return nil, err
	}
	return st, nil
}

// openStores returns the entity stores for the signed-in user.
func openStores() (*store.Set, *auth.Store, error) {
	session, err := openAuth()
	if err != nil {
		return nil, nil, err
	}
	if !session.Session().IsAuthenticated {
		return nil, nil, errNotLoggedIn
	}
	client := api.New(cfg.Backend.BaseURL, session, api.WithTimeout(requestTimeout()))
	return store.NewSet(client), session, nil
}

// commandContext bounds a one-shot command.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 2*requestTimeout())
}
