package cmd

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"

	"github.com/indrajala/indralib/cli/pkg/output"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Publish synthetic test events",
	Long: `Generate and publish synthetic events for development and load
testing. Event kinds: temperature, humidity, chat, location.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		interval, _ := cmd.Flags().GetDuration("interval")
		prefix, _ := cmd.Flags().GetString("prefix")
		kindsFlag, _ := cmd.Flags().GetString("kinds")

		kinds := strings.Split(kindsFlag, ",")
		gofakeit.Seed(time.Now().UnixNano())

		c, err := connect(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		sent := 0
		for i := 0; i < count; i++ {
			kind := kinds[rand.Intn(len(kinds))]
			domain, dataType, data, err := seedEvent(prefix, kind)
			if err != nil {
				return err
			}

			ctx, cancel := requestCtx(cmd)
			err = c.Publish(ctx, domain, dataType, data)
			cancel()
			if err != nil {
				output.Warn("Publish failed: %v", err)
				continue
			}
			sent++
			if sent%50 == 0 {
				output.Info("Progress: %d/%d events published", sent, count)
			}

			if interval > 0 && i < count-1 {
				time.Sleep(interval)
			}
		}

		output.Success("Published %d/%d events", sent, count)
		return nil
	},
}

// seedEvent fabricates one event of the given kind.
func seedEvent(prefix, kind string) (domain, dataType, data string, err error) {
	switch kind {
	case "temperature":
		room := strings.ToLower(gofakeit.RandomString([]string{"kitchen", "living", "bedroom", "office"}))
		domain = fmt.Sprintf("%s/temperature/%s", prefix, room)
		dataType = "number/float/temperature/celsius"
		data = strconv.FormatFloat(gofakeit.Float64Range(15, 30), 'f', 2, 64)
	case "humidity":
		room := strings.ToLower(gofakeit.RandomString([]string{"kitchen", "living", "bedroom", "office"}))
		domain = fmt.Sprintf("%s/humidity/%s", prefix, room)
		dataType = "number/float/humidity/percent"
		data = strconv.FormatFloat(gofakeit.Float64Range(30, 70), 'f', 1, 64)
	case "chat":
		domain = fmt.Sprintf("%s/chat/%s", prefix, gofakeit.Username())
		dataType = "string/chat"
		raw, merr := json.Marshal(gofakeit.HackerPhrase())
		if merr != nil {
			return "", "", "", merr
		}
		data = string(raw)
	case "location":
		domain = fmt.Sprintf("%s/location/%s", prefix, gofakeit.Username())
		dataType = "json/location"
		raw, merr := json.Marshal(map[string]float64{
			"lat": gofakeit.Latitude(),
			"lon": gofakeit.Longitude(),
		})
		if merr != nil {
			return "", "", "", merr
		}
		data = string(raw)
	default:
		return "", "", "", fmt.Errorf("unknown event kind %q", kind)
	}
	return domain, dataType, data, nil
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().Int("count", 100, "number of events to publish")
	seedCmd.Flags().Duration("interval", 100*time.Millisecond, "delay between events")
	seedCmd.Flags().String("prefix", "test/seed", "topic prefix for generated events")
	seedCmd.Flags().String("kinds", "temperature,humidity,chat,location", "comma-separated event kinds")
}
