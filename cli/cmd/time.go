package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/indrajala/indralib/cli/pkg/output"
	"github.com/indrajala/indralib/indratime"
)

var timeCmd = &cobra.Command{
	Use:   "time",
	Short: "Time conversion commands",
	Long:  "Convert between Julian Dates, ISO-8601 timestamps and era notation",
}

var timeIsoCmd = &cobra.Command{
	Use:   "iso <julian-date>",
	Short: "Render a Julian Date as ISO-8601",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jd, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid Julian Date %q: %w", args[0], err)
		}
		fmt.Println(indratime.ToISO(jd))
		return nil
	},
}

var timeJdCmd = &cobra.Command{
	Use:   "jd <iso-8601>",
	Short: "Parse an ISO-8601 timestamp to a Julian Date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jd, err := indratime.FromISO(args[0])
		if err != nil {
			return err
		}
		fmt.Println(strconv.FormatFloat(jd, 'f', -1, 64))
		return nil
	},
}

var timeEraCmd = &cobra.Command{
	Use:   "era <julian-date|iso-8601>",
	Short: "Render a point in time in era notation",
	Long:  "Render a Julian Date or ISO-8601 timestamp as an era string (AD date, BC, BP or kya BP)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jd, err := parseTimePoint(args[0])
		if err != nil {
			return err
		}
		fmt.Println(indratime.ToEraString(jd))
		return nil
	},
}

var timeParseCmd = &cobra.Command{
	Use:   "parse <era-string>",
	Short: "Parse an era string to Julian Dates",
	Long: `Parse an era string ("1969-07-20", "44 BC", "10000 BP", "300 kya BP",
or an interval "<start> - <end>") into Julian Dates.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jds, err := indratime.FromEraString(args[0])
		if err != nil {
			return err
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(jds)
		}
		table := output.NewTable([]string{"Julian Date", "ISO-8601"})
		for _, jd := range jds {
			table.AddRow([]string{
				strconv.FormatFloat(jd, 'f', -1, 64),
				indratime.ToISO(jd),
			})
		}
		table.Render()
		return nil
	},
}

var timeNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Show the current instant",
	RunE: func(cmd *cobra.Command, args []string) error {
		jd := indratime.Now()
		output.Info("Julian Date: %s", strconv.FormatFloat(jd, 'f', -1, 64))
		output.Info("ISO-8601:    %s", indratime.ToISO(jd))
		output.Info("Era:         %s", indratime.ToEraString(jd))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(timeCmd)
	timeCmd.AddCommand(timeIsoCmd)
	timeCmd.AddCommand(timeJdCmd)
	timeCmd.AddCommand(timeEraCmd)
	timeCmd.AddCommand(timeParseCmd)
	timeCmd.AddCommand(timeNowCmd)
}
