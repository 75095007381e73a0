package cmd

import (
	"github.com/spf13/cobra"

	"github.com/indrajala/indralib/cli/pkg/output"
)

var pubCmd = &cobra.Command{
	Use:   "pub <domain> <data>",
	Short: "Publish an event",
	Long:  "Publish a single event on a concrete topic (no wildcards)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataType, _ := cmd.Flags().GetString("type")

		c, err := connect(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := requestCtx(cmd)
		defer cancel()
		if err := c.Publish(ctx, args[0], dataType, args[1]); err != nil {
			return err
		}
		output.Success("Published to %s", args[0])
		return nil
	},
}

var logCmd = &cobra.Command{
	Use:   "log <level> <message>",
	Short: "Publish a log message onto the bus",
	Long:  "Send a remote log record under $log/<level>; level is debug, info, warn or error",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := requestCtx(cmd)
		defer cancel()
		if err := c.RemoteLog(ctx, args[0], args[1]); err != nil {
			return err
		}
		output.Success("Logged at %s", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pubCmd)
	rootCmd.AddCommand(logCmd)

	pubCmd.Flags().String("type", "string", "data type tag for the payload")
}
