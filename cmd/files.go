package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/fitdex/internal/cli"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List activity files in a time range",
	RunE:  runFiles,
}

func init() {
	rootCmd.AddCommand(filesCmd)
}

func runFiles(_ *cobra.Command, _ []string) error {
	tr, err := resolveRange(time.Now())
	if err != nil {
		return err
	}

	result := scan()
	entries := query(result, tr)

	if len(entries) == 0 {
		fmt.Println("\n  No activities found in the selected range.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("ACTIVITY FILES  %s", tr.Title)))
	fmt.Println()

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{cli.FormatTimestamp(e.Time), e.Path})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date & Time", "Path"},
		Rows:    rows,
	}))
	fmt.Printf("  %s files\n", cli.FormatNumber(int64(len(entries))))
	return nil
}
