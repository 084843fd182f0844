package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/study-dashboard/internal/api"
	"github.com/nhle/study-dashboard/internal/model"
	"github.com/nhle/study-dashboard/internal/theme"
	"github.com/nhle/study-dashboard/internal/ui/forms"
)

var (
	loginEmail    string
	loginPassword string
	loginRegister bool
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when omitted)")
	loginCmd.Flags().BoolVar(&loginRegister, "register", false, "create the account instead of signing in")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session in the system keyring",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds := model.Credentials{
			Email:    strings.TrimSpace(loginEmail),
			Password: loginPassword,
		}
		if creds.Email == "" || creds.Password == "" {
			if err := forms.Login(&creds).Run(); err != nil {
				return err
			}
		}

		session, err := openAuth()
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		if loginRegister {
			err = session.Register(ctx, creds)
		} else {
			err = session.Login(ctx, creds)
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessStyle.Render("Signed in as "+session.Session().Email))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openAuth()
		if err != nil {
			return err
		}
		if !session.Session().IsAuthenticated {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
			return nil
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		if err := session.Logout(ctx); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), theme.ErrorStyle.Render("Warning: "+err.Error()))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openAuth()
		if err != nil {
			return err
		}
		if !session.Session().IsAuthenticated {
			return errNotLoggedIn
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		client := api.New(cfg.Backend.BaseURL, session, api.WithTimeout(requestTimeout()))
		profile, err := client.Profile(ctx)
		if err != nil {
			if api.IsUnavailable(err) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (backend unreachable, showing saved session)\n", session.Session().Email)
				return nil
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), profile.Email)
		return nil
	},
}
