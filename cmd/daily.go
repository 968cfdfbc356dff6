package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/fitdex/internal/cli"
	"github.com/theirongolddev/fitdex/internal/pipeline"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Per-day activity totals",
	RunE:  runDaily,
}

func init() {
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(_ *cobra.Command, _ []string) error {
	sys, err := unitSystem()
	if err != nil {
		return err
	}
	now := time.Now()
	tr, err := resolveRange(now)
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

	// Zero days are only listed for a bounded window that has started.
	until := tr.End
	if until.After(now) {
		until = now
	}
	// Future-dated files inside the range would otherwise count toward no day.
	acts = pipeline.FilterByTime(acts, tr.Start, until)
	days := pipeline.AggregateDays(acts, tr.Start, until)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY TOTALS  %s", tr.Title)))
	fmt.Println()

	rows := make([][]string, 0, len(days))
	trend := make([]float64, len(days))
	for i, d := range days {
		trend[len(days)-1-i] = d.Distance // days are newest first
		rows = append(rows, []string{
			d.Date.Format(dateLayout),
			cli.FormatDayOfWeek(int(d.Date.Weekday())),
			cli.FormatNumber(int64(d.Activities)),
			cli.FormatDistance(d.Distance, sys),
			cli.FormatDuration(d.Duration),
			cli.FormatNumber(d.Calories),
			cli.FormatElevation(float64(d.Ascent), sys),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Acts", "Dist", "Time", "Cal", "Asc"},
		Rows:    rows,
	}))
	if len(trend) > 1 {
		fmt.Printf("  %s %s\n", cli.RenderMuted("Distance"), cli.RenderDistance(cli.RenderSparkline(trend)))
	}
	return nil
}
