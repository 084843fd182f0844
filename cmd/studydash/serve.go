package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhle/study-dashboard/internal/devbackend"
	"github.com/nhle/study-dashboard/internal/server"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(backendCmd)

	serveCmd.Flags().String("addr", "", "listen address (overrides server.listen_addr)")
	backendCmd.Flags().String("addr", "", "listen address (overrides dev_backend.listen_addr)")
	backendCmd.Flags().String("db", "", "SQLite database path (overrides dev_backend.db_path)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard server (auth proxy, profile and session bootstrap)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.ListenAddr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Infow("starting dashboard server",
			"addr", cfg.Server.ListenAddr,
			"backend", cfg.Backend.BaseURL,
			"environment", cfg.Server.Environment,
		)
		return server.New(cfg, logger).Run(ctx)
	},
}

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Run the local reference backend on SQLite",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.DevBackend.ListenAddr = addr
		}
		if db, _ := cmd.Flags().GetString("db"); db != "" {
			cfg.DevBackend.DBPath = db
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, closeFn, err := devbackend.Open(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeFn(); err != nil {
				logger.Warnw("closing dev backend", "error", err)
			}
		}()

		return srv.Run(ctx, cfg.DevBackend.ListenAddr)
	},
}
