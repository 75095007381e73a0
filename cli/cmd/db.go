package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/indrajala/indralib/cli/pkg/output"
	"github.com/indrajala/indralib/client"
	"github.com/indrajala/indralib/indratime"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "History store commands",
	Long:  "Query and maintain the server's persisted event history",
}

var dbHistoryCmd = &cobra.Command{
	Use:   "history <domain>",
	Short: "Fetch historic events for a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := client.HistoryRequest{Domain: args[0]}
		req.Mode, _ = cmd.Flags().GetString("mode")

		if s, _ := cmd.Flags().GetString("start"); s != "" {
			jd, err := parseTimePoint(s)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			req.TimeStart = &jd
		}
		if s, _ := cmd.Flags().GetString("end"); s != "" {
			jd, err := parseTimePoint(s)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			req.TimeEnd = &jd
		}
		if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
			req.Limit = &limit
		}

		c, err := connect(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := requestCtx(cmd)
		defer cancel()
		result, err := c.GetHistory(ctx, req)
		if err != nil {
			return err
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			fmt.Println(result)
			return nil
		}

		var samples [][2]float64
		if err := json.Unmarshal([]byte(result), &samples); err != nil {
			// Not the tabular [jd, value] shape; show raw.
			fmt.Println(result)
			return nil
		}
		table := output.NewTable([]string{"Time", "Value"})
		for _, s := range samples {
			table.AddRow(historyRow(s))
		}
		table.Render()
		return nil
	},
}

var dbLastCmd = &cobra.Command{
	Use:   "last <domain>",
	Short: "Show the most recent stored event on a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := requestCtx(cmd)
		defer cancel()
		ev, err := c.GetLastEvent(ctx, args[0])
		if err != nil {
			return err
		}
		if ev == nil {
			output.Warn("No stored events for %s", args[0])
			return nil
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(ev)
		}
		output.Event(ev)
		return nil
	},
}

var dbDomainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List distinct stored domains",
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, _ := cmd.Flags().GetString("domain")
		dataType, _ := cmd.Flags().GetString("data-type")

		c, err := connect(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := requestCtx(cmd)
		defer cancel()
		domains, err := c.GetUniqueDomains(ctx, domain, dataType)
		if err != nil {
			return err
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(domains)
		}
		table := output.NewTable([]string{"Domain"})
		for _, d := range domains {
			table.AddRow([]string{d})
		}
		table.Render()
		return nil
	},
}

var dbDelCmd = &cobra.Command{
	Use:   "del",
	Short: "Delete stored events",
	Long:  "Delete stored events by domain patterns or by event ids (exactly one selector)",
	RunE: func(cmd *cobra.Command, args []string) error {
		domains, _ := cmd.Flags().GetStringSlice("domains")
		ids, _ := cmd.Flags().GetStringSlice("ids")

		c, err := connect(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := requestCtx(cmd)
		defer cancel()
		result, err := c.DeleteRecords(ctx, domains, ids)
		if err != nil {
			return err
		}
		output.Success("Deleted: %s", result)
		return nil
	},
}

// historyRow renders one [jd, value] sample for the table view.
func historyRow(s [2]float64) []string {
	return []string{indratime.ToISO(s[0]), strconv.FormatFloat(s[1], 'g', -1, 64)}
}

// parseTimePoint accepts either a numeric Julian Date or an ISO-8601
// timestamp.
func parseTimePoint(s string) (float64, error) {
	if jd, err := strconv.ParseFloat(s, 64); err == nil {
		return jd, nil
	}
	return indratime.FromISO(s)
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbHistoryCmd)
	dbCmd.AddCommand(dbLastCmd)
	dbCmd.AddCommand(dbDomainsCmd)
	dbCmd.AddCommand(dbDelCmd)

	dbHistoryCmd.Flags().String("start", "", "range start (ISO-8601 or Julian Date)")
	dbHistoryCmd.Flags().String("end", "", "range end (ISO-8601 or Julian Date)")
	dbHistoryCmd.Flags().Int("limit", 0, "maximum number of samples")
	dbHistoryCmd.Flags().String("mode", "Sample", "selection mode: Sample, Interval, Single")

	dbDomainsCmd.Flags().String("domain", "", "domain pattern to match")
	dbDomainsCmd.Flags().String("data-type", "", "data type prefix to match")

	dbDelCmd.Flags().StringSlice("domains", nil, "domain patterns to delete")
	dbDelCmd.Flags().StringSlice("ids", nil, "event ids to delete")
}
