package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/indrajala/indralib/cli/pkg/output"
	"github.com/indrajala/indralib/event"
)

var subCmd = &cobra.Command{
	Use:   "sub <filter>",
	Short: "Subscribe and tail events",
	Long: `Subscribe to a topic filter and print matching events until
interrupted. Filters may use '+' for one path segment and a trailing '#'
for the rest of the topic.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := args[0]
		asJSON, _ := cmd.Flags().GetString("output")

		c, err := connect(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		subCtx, cancel := requestCtx(cmd)
		err = c.Subscribe(subCtx, filter, func(ev *event.IndraEvent) {
			if asJSON == "json" {
				output.JSON(ev)
				return
			}
			output.Event(ev)
		})
		cancel()
		if err != nil {
			return err
		}

		output.Info("Subscribed to %s, waiting for events (Ctrl-C to stop)", filter)
		<-ctx.Done()

		timeout, _ := cmd.Flags().GetDuration("timeout")
		unsubCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return c.Unsubscribe(unsubCtx, filter)
	},
}

func init() {
	rootCmd.AddCommand(subCmd)
}
