package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/fitdex/internal/cli"
	"github.com/theirongolddev/fitdex/internal/pipeline"
	"github.com/theirongolddev/fitdex/internal/store"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots DB [SCAN_ID]",
	Short: "Inspect scans saved with export --format sqlite",
	Long: `Without a scan id, lists the snapshots in DB newest first.
With one, prints that snapshot's activities and totals.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSnapshots,
}

func init() {
	rootCmd.AddCommand(snapshotsCmd)
}

func runSnapshots(_ *cobra.Command, args []string) error {
	if _, err := os.Stat(args[0]); err != nil {
		return err
	}
	db, err := store.Open(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if len(args) == 2 {
		return printSnapshot(db, args[1])
	}

	ids, err := db.ScanIDs()
	if err != nil {
		return fmt.Errorf("listing snapshots: %w", err)
	}
	if len(ids) == 0 {
		fmt.Printf("\n  No snapshots in %s.\n", args[0])
		return nil
	}

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		acts, err := db.LoadActivities(id)
		if err != nil {
			return err
		}
		first, last := "-", "-"
		if len(acts) > 0 {
			first = cli.FormatTimestamp(acts[0].Time)
			last = cli.FormatTimestamp(acts[len(acts)-1].Time)
		}
		rows = append(rows, []string{id, cli.FormatNumber(int64(len(acts))), first, last})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SNAPSHOTS"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Scan", "Acts", "Oldest", "Newest"},
		Rows:    rows,
	}))
	return nil
}

func printSnapshot(db *store.DB, id string) error {
	sys, err := unitSystem()
	if err != nil {
		return err
	}
	acts, err := db.LoadActivities(id)
	if err != nil {
		return fmt.Errorf("loading snapshot %s: %w", id, err)
	}
	if len(acts) == 0 {
		fmt.Printf("\n  Snapshot %s has no activities.\n", id)
		return nil
	}

	rows := make([][]string, 0, len(acts)+2)
	for _, a := range acts {
		rows = append(rows, activityRow(cli.FormatTimestamp(a.Time), a.Stats, sys))
	}
	stats := pipeline.Aggregate(acts)
	rows = append(rows, cli.SeparatorRow, []string{
		fmt.Sprintf("Total (%d)", stats.Activities),
		cli.RenderDistance(cli.FormatDistance(stats.Distance, sys)),
		cli.FormatNumber(stats.Calories),
		cli.FormatDuration(stats.Duration),
		cli.FormatSpeed(stats.AvgSpeed, sys),
		cli.FormatElevation(float64(stats.Ascent), sys),
		cli.FormatElevation(float64(stats.Descent), sys),
	})

	fmt.Println()
	fmt.Println(cli.RenderTitle("SNAPSHOT " + id))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date & Time", "Dist", "Cal", "Time", "Speed", "Asc", "Des"},
		Rows:    rows,
	}))
	return nil
}
