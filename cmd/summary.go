package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/fitdex/internal/cli"
	"github.com/theirongolddev/fitdex/internal/model"
	"github.com/theirongolddev/fitdex/internal/pipeline"
	"github.com/theirongolddev/fitdex/internal/units"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Per-activity session summary with totals",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	sys, err := unitSystem()
	if err != nil {
		return err
	}
	tr, err := resolveRange(time.Now())
	if err != nil {
		return err
	}

	result := scan()
	if result.Indexed == 0 {
		fmt.Printf("\n  No activity files found in %s.\n", result.Root)
		return nil
	}

	opts := scanOptions()
	acts := pipeline.CollectStats(query(result, tr), opts.Extractor(), opts.Workers)
	if len(acts) == 0 {
		fmt.Println("\n  No activities found in the selected range.")
		return nil
	}
	stats := pipeline.Aggregate(acts)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("ACTIVITIES  %s", tr.Title)))
	fmt.Println()

	rows := make([][]string, 0, len(acts)+2)
	for _, a := range acts {
		rows = append(rows, activityRow(cli.FormatTimestamp(a.Time), a.Stats, sys))
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{
		fmt.Sprintf("Total (%d)", stats.Activities),
		cli.RenderDistance(cli.FormatDistance(stats.Distance, sys)),
		cli.FormatNumber(stats.Calories),
		cli.FormatDuration(stats.Duration),
		cli.FormatSpeed(stats.AvgSpeed, sys),
		cli.FormatElevation(float64(stats.Ascent), sys),
		cli.FormatElevation(float64(stats.Descent), sys),
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date & Time", "Dist", "Cal", "Time", "Speed", "Asc", "Des"},
		Rows:    rows,
	}))

	fmt.Printf("  %s\n", cli.RenderMuted(fmt.Sprintf("%s active days · longest %s · %s per day",
		cli.FormatNumber(int64(stats.ActiveDays)),
		cli.FormatDistance(stats.LongestDistance, sys),
		cli.FormatDistance(stats.DistancePerDay, sys),
	)))

	if stats.FailedReads > 0 {
		fmt.Fprintf(os.Stderr, "\n  %s\n", cli.RenderWarning(fmt.Sprintf("%d files could not be summarized", stats.FailedReads)))
	}
	return nil
}

func activityRow(label string, s model.SessionStats, sys units.System) []string {
	return []string{
		label,
		cli.FormatDistance(s.Distance, sys),
		cli.FormatNumber(int64(s.Calories)),
		cli.FormatDuration(s.Duration),
		cli.FormatSpeed(s.AvgSpeed, sys),
		cli.FormatElevation(float64(s.Ascent), sys),
		cli.FormatElevation(float64(s.Descent), sys),
	}
}
