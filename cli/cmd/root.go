package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/indrajala/indralib/cli/internal/config"
	"github.com/indrajala/indralib/client"
	"github.com/indrajala/indralib/logging"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "indra",
	Short: "Indrajāla event bus CLI",
	Long: `indra is the command-line interface for the Indrajāla event bus.

Publish and subscribe to hierarchical topics, authenticate sessions,
query the key/value and history stores, and convert between civil
dates, Julian Dates and geologic era notation.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.indra/config.yaml)")
	rootCmd.PersistentFlags().String("profile", "default", "profile to use")
	rootCmd.PersistentFlags().String("output", "table", "output format: table, json")
	rootCmd.PersistentFlags().String("url", "", "server URL (overrides profile)")
	rootCmd.PersistentFlags().Duration("timeout", 10*time.Second, "per-request timeout")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = config.Default()
	}
}

// cliLogger builds the structured logger the client stack uses, honoring
// --log-level.
func cliLogger(cmd *cobra.Command) *logging.Logger {
	levelStr, _ := cmd.Flags().GetString("log-level")
	return logging.New(logging.ParseLevel(levelStr), "text")
}

// connect dials the server resolved from --url and the active profile and
// adopts the profile's stored session token if one exists.
func connect(cmd *cobra.Command) (*client.Client, error) {
	profile, _ := cmd.Flags().GetString("profile")
	url, _ := cmd.Flags().GetString("url")

	wsCfg := client.WebSocketConfig{URL: url}
	var token string
	if p, err := cfg.GetProfile(profile); err == nil {
		if wsCfg.URL == "" {
			wsCfg.URL = p.URL
		}
		wsCfg.CAFile = p.CAFile
		wsCfg.InsecureSkipVerify = p.Insecure
		token = p.Token
	}
	if wsCfg.URL == "" {
		wsCfg.URL = cfg.GetURL(profile)
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	c, err := client.Connect(ctx, wsCfg,
		client.WithLogger(cliLogger(cmd)),
		client.WithFromID("ws/go-cli"))
	if err != nil {
		return nil, err
	}
	if token != "" {
		c.SetAuthHash(token)
	}
	return c, nil
}

// requestCtx derives the per-request context from --timeout.
func requestCtx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return context.WithTimeout(cmd.Context(), timeout)
}
