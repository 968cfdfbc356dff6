package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/fitdex/internal/cli"
	"github.com/theirongolddev/fitdex/internal/export"
	"github.com/theirongolddev/fitdex/internal/index"
	"github.com/theirongolddev/fitdex/internal/pipeline"
	"github.com/theirongolddev/fitdex/internal/store"
)

var (
	flagFormat    string
	flagOutput    string
	flagExportAll bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export activity summaries to CSV, Parquet or SQLite",
	Long: `Export writes one row per activity in the selected range.
CSV goes to stdout when --output is omitted. SQLite output appends a
snapshot of this scan to the database at --output.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagFormat, "format", "f", "csv", "Output format: csv, parquet or sqlite")
	exportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output path")
	exportCmd.Flags().BoolVar(&flagExportAll, "all", false, "Export every indexed activity, ignoring the range")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(flagFormat)
	if err != nil {
		return err
	}
	if flagOutput == "" && format != export.FormatCSV {
		return errors.New("--output is required for " + string(format))
	}

	started := time.Now()
	var tr timeRange
	if !flagExportAll {
		if tr, err = resolveRange(started); err != nil {
			return err
		}
	}

	result := scan()
	var entries []index.Entry
	if flagExportAll {
		entries = result.Index.Entries()
		index.SortByTime(entries)
	} else {
		entries = query(result, tr)
	}

	opts := scanOptions()
	acts := pipeline.CollectStats(entries, opts.Extractor(), opts.Workers)

	switch {
	case format == export.FormatSQLite:
		db, err := store.Open(flagOutput)
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := db.SaveSnapshot(store.Scan{
			Root:       result.Root,
			StartedAt:  started,
			FilesFound: result.TotalFiles,
			Indexed:    result.Indexed,
			Skipped:    result.Skipped,
			FullReads:  result.FullReads,
			RangeStart: tr.Start,
			RangeEnd:   snapshotEnd(tr),
		}, acts)
		if err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Saved snapshot %s (%s activities) to %s\n",
				id, cli.FormatNumber(int64(len(acts))), flagOutput)
		}
		return nil

	case flagOutput == "":
		return export.WriteCSV(os.Stdout, acts)
	}

	if err := export.WriteFile(flagOutput, format, acts); err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %s activities to %s\n", cli.FormatNumber(int64(len(acts))), flagOutput)
	}
	return nil
}

// snapshotEnd stores an open-ended range as unbounded.
func snapshotEnd(tr timeRange) time.Time {
	if tr.End.Equal(endOfTime) {
		return time.Time{}
	}
	return tr.End
}
