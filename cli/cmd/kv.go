package cmd

import (
	"github.com/spf13/cobra"

	"github.com/indrajala/indralib/cli/pkg/output"
)

var kvCmd = &cobra.Command{
	Use:   "kv",
	Short: "Key/value store commands",
	Long:  "Read, write and delete entries in the server's key/value store",
}

var kvReadCmd = &cobra.Command{
	Use:   "read <key>",
	Short: "Read a value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := requestCtx(cmd)
		defer cancel()
		value, err := c.KVRead(ctx, args[0])
		if err != nil {
			return err
		}
		output.Info("%s", value)
		return nil
	},
}

var kvWriteCmd = &cobra.Command{
	Use:   "write <key> <value>",
	Short: "Write a value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := requestCtx(cmd)
		defer cancel()
		if _, err := c.KVWrite(ctx, args[0], args[1]); err != nil {
			return err
		}
		output.Success("Wrote %s", args[0])
		return nil
	},
}

var kvDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := requestCtx(cmd)
		defer cancel()
		if _, err := c.KVDelete(ctx, args[0]); err != nil {
			return err
		}
		output.Success("Deleted %s", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kvCmd)
	kvCmd.AddCommand(kvReadCmd)
	kvCmd.AddCommand(kvWriteCmd)
	kvCmd.AddCommand(kvDeleteCmd)
}
