package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/fitdex/internal/cli"
	"github.com/theirongolddev/fitdex/internal/pipeline"
)

var hourlyCmd = &cobra.Command{
	Use:   "hourly",
	Short: "Activities by hour of day",
	RunE:  runHourly,
}

func init() {
	rootCmd.AddCommand(hourlyCmd)
}

func runHourly(_ *cobra.Command, _ []string) error {
	sys, err := unitSystem()
	if err != nil {
		return err
	}
	tr, err := resolveRange(time.Now())
	if err != nil {
		return err
	}

	result := scan()
	opts := scanOptions()
	acts := pipeline.CollectStats(query(result, tr), opts.Extractor(), opts.Workers)
	if len(acts) == 0 {
		fmt.Println("\n  No activities found in the selected range.")
		return nil
	}
	hours := pipeline.AggregateHourly(acts)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("ACTIVITIES BY HOUR  %s (local time)", tr.Title)))
	fmt.Println()

	maxCount := 0
	peakHour := 0
	for _, h := range hours {
		if h.Activities > maxCount {
			maxCount = h.Activities
			peakHour = h.Hour
		}
	}

	for _, h := range hours {
		fmt.Printf("  %02d:00 │ %4d │ %12s │ %s\n",
			h.Hour,
			h.Activities,
			cli.FormatDistance(h.Distance, sys),
			cli.RenderHorizontalBar(float64(h.Activities), float64(maxCount), 40))
	}

	fmt.Printf("\n  Peak: %02d:00 (%d activities)\n\n", peakHour, hours[peakHour].Activities)
	return nil
}
