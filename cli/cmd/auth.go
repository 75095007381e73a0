package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/indrajala/indralib/cli/internal/config"
	"github.com/indrajala/indralib/cli/pkg/output"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Manage sessions against an Indrajāla server",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to an Indrajāla server",
	Long:  "Verify credentials against the server and save the session to the profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		url, _ := cmd.Flags().GetString("url")
		profile, _ := cmd.Flags().GetString("profile")

		if url == "" {
			url = cfg.GetURL(profile)
		}

		c, err := connect(cmd)
		if err != nil {
			return fmt.Errorf("connect failed: %w", err)
		}
		defer c.Close()

		ctx, cancel := requestCtx(cmd)
		defer cancel()
		token, err := c.Login(ctx, username, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		p := &config.Profile{URL: url, Username: username, Token: token}
		if prev, err := cfg.GetProfile(profile); err == nil {
			p.CAFile = prev.CAFile
			p.Insecure = prev.Insecure
		}
		if err := cfg.SaveProfile(profile, p); err != nil {
			return fmt.Errorf("failed to save credentials: %w", err)
		}

		output.Success("Successfully logged in as %s", username)
		output.Info("Profile '%s' saved to ~/.indra/config.yaml", profile)
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out from the server",
	Long:  "End the server session and remove the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, _ := cmd.Flags().GetString("profile")

		p, err := cfg.GetProfile(profile)
		if err != nil {
			return fmt.Errorf("not logged in: %w", err)
		}

		if p.Token != "" {
			if c, err := connect(cmd); err == nil {
				ctx, cancel := requestCtx(cmd)
				if err := c.Logout(ctx); err != nil {
					output.Warn("Server logout failed: %v", err)
				}
				cancel()
				c.Close()
			}
		}

		p.Token = ""
		if err := cfg.SaveProfile(profile, p); err != nil {
			return err
		}

		output.Success("Successfully logged out from profile '%s'", profile)
		return nil
	},
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Display the current session",
	Long:  "Show the profile's endpoint, user and token state",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, _ := cmd.Flags().GetString("profile")
		p, err := cfg.GetProfile(profile)
		if err != nil {
			return fmt.Errorf("not logged in: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(map[string]interface{}{
				"profile":   profile,
				"url":       p.URL,
				"username":  p.Username,
				"has_token": p.Token != "",
			})
		}

		output.Info("Profile: %s", profile)
		output.Info("URL: %s", p.URL)
		output.Info("User: %s", p.Username)
		if p.Token != "" {
			output.Info("Session token: stored")
		} else {
			output.Warn("No session token, run 'indra auth login'")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authWhoamiCmd)

	authLoginCmd.Flags().StringP("username", "u", "", "Username")
	authLoginCmd.Flags().StringP("password", "p", "", "Password")
	authLoginCmd.MarkFlagRequired("username")
	authLoginCmd.MarkFlagRequired("password")
}
