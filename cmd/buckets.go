package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/fitdex/internal/bucket"
	"github.com/theirongolddev/fitdex/internal/cli"
	"github.com/theirongolddev/fitdex/internal/index"
)

var (
	flagAllBuckets   bool
	flagCountBuckets bool
)

var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "List the time buckets offered today",
	Args:  cobra.NoArgs,
	RunE:  runBuckets,
}

func init() {
	bucketsCmd.Flags().BoolVar(&flagAllBuckets, "all", false, "Include months of this year that have not started")
	bucketsCmd.Flags().BoolVarP(&flagCountBuckets, "count", "c", false, "Scan the data directory and count activities per bucket")
	rootCmd.AddCommand(bucketsCmd)
}

func runBuckets(_ *cobra.Command, _ []string) error {
	now := time.Now()
	list := bucket.OfferableAt(now)
	if flagAllBuckets {
		list = bucket.All()
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("TIME BUCKETS"))
	fmt.Println()

	headers := []string{"Key", "Label", "Start", "End"}
	var counts []int
	if flagCountBuckets {
		counts = countPerBucket(scan().Index.Entries(), list, now)
		headers = append(headers, "Acts")
	}

	const layout = "2006-01-02 15:04:05"
	rows := make([][]string, 0, len(list)+1)
	prev := list[0].Kind()
	for i, b := range list {
		if b.Kind() != prev {
			rows = append(rows, cli.SeparatorRow)
			prev = b.Kind()
		}
		r := b.RangeAt(now)
		row := []string{b.Key(), b.LabelAt(now), r.Start.Format(layout), r.End.Format(layout)}
		if counts != nil {
			row = append(row, cli.FormatNumber(int64(counts[i])))
		}
		rows = append(rows, row)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: headers,
		Rows:    rows,
	}))
	return nil
}

// countPerBucket counts the entries inside each bucket's range as of now.
// Buckets overlap, so an entry can count toward several.
func countPerBucket(entries []index.Entry, list []bucket.Bucket, now time.Time) []int {
	ranges := make([]bucket.Range, len(list))
	for i, b := range list {
		ranges[i] = b.RangeAt(now)
	}
	counts := make([]int, len(list))
	for _, e := range entries {
		for i, r := range ranges {
			if r.Contains(e.Time) {
				counts[i]++
			}
		}
	}
	return counts
}
