package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/theirongolddev/fitdex/internal/bucket"
	"github.com/theirongolddev/fitdex/internal/cli"
	"github.com/theirongolddev/fitdex/internal/config"
	"github.com/theirongolddev/fitdex/internal/index"
	"github.com/theirongolddev/fitdex/internal/logging"
	"github.com/theirongolddev/fitdex/internal/pipeline"
	"github.com/theirongolddev/fitdex/internal/units"
)

const dateLayout = "2006-01-02"

var (
	flagDir      string
	flagUnits    string
	flagBucket   string
	flagSince    string
	flagUntil    string
	flagWorkers  int
	flagLogLevel string
	flagQuiet    bool
)

// appConfig is loaded once per invocation before any command runs.
var (
	appConfig = config.DefaultConfig()
	closeLog  = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "fitdex",
	Short: "FIT activity file indexer",
	Long:  "Index a directory tree of FIT activity files by creation time and summarize them by week or month.",
	RunE:  runSummary,

	SilenceUsage:       true,
	PersistentPreRunE:  initRun,
	PersistentPostRunE: func(*cobra.Command, []string) error { return closeLog() },
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagDir, "dir", "d", "", "Activity directory (default: config data_dir or .)")
	pf.StringVarP(&flagUnits, "units", "u", "", "Unit system: metric or us")
	pf.StringVarP(&flagBucket, "bucket", "b", "", "Time bucket key (see `fitdex buckets`)")
	pf.StringVar(&flagSince, "since", "", "Start date, YYYY-MM-DD (overrides --bucket)")
	pf.StringVar(&flagUntil, "until", "", "End date inclusive, YYYY-MM-DD (overrides --bucket)")
	pf.IntVarP(&flagWorkers, "workers", "w", 0, "Indexing workers (default: number of CPUs)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// initRun loads the config file and installs the logger.
func initRun(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Config error, using defaults: %v\n", err)
		cfg = config.DefaultConfig()
	}
	appConfig = cfg

	level := cfg.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}

	closeFn, err := logging.Setup(logging.Options{
		Level:      level,
		Console:    cmd.Name() != "tui",
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	closeLog = closeFn
	if err != nil {
		log.Warn().Err(err).Msg("logger setup")
	}
	return nil
}

func dataDir() string {
	return config.ResolveDataDir(flagDir, appConfig)
}

func unitSystem() (units.System, error) {
	name := appConfig.General.Units
	if flagUnits != "" {
		name = flagUnits
	}
	return units.Parse(name)
}

func scanOptions() pipeline.Options {
	workers := appConfig.Scan.Workers
	if flagWorkers > 0 {
		workers = flagWorkers
	}
	return pipeline.Options{
		Workers:     workers,
		PrefixBytes: appConfig.Scan.PrefixBytes,
	}
}

// scan indexes the activity directory, reporting progress on stderr.
func scan() *pipeline.ScanResult {
	dir := dataDir()
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning %s...\n", dir)
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%50 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  %s", cli.RenderProgressBar(current, total, 30))
		}
	}

	result := pipeline.BuildIndex(dir, scanOptions(), progressFn)

	if !flagQuiet && result.TotalFiles > 0 {
		fmt.Fprintf(os.Stderr, "\r\033[K  Indexed %s of %s files (%s) in %s\n",
			cli.FormatNumber(int64(result.Indexed)),
			cli.FormatNumber(int64(result.TotalFiles)),
			cli.FormatBytes(result.TotalBytes),
			result.Elapsed.Round(time.Millisecond),
		)
		if result.Indexed > 0 {
			fast := float64(result.Indexed-result.FullReads) / float64(result.Indexed)
			fmt.Fprintf(os.Stderr, "  %s\n", cli.RenderMuted(fmt.Sprintf(
				"%s read from the file header, %d skipped", cli.FormatPercent(fast), result.Skipped)))
		}
		if result.Overwrites > 0 {
			fmt.Fprintf(os.Stderr, "  %s\n", cli.RenderWarning(fmt.Sprintf(
				"%d files share a start time with another file; only the last one is kept", result.Overwrites)))
		}
	}
	return result
}

// timeRange is the inclusive window a command reports on.
type timeRange struct {
	Start time.Time
	End   time.Time
	Title string
}

// endOfTime bounds an open --since query.
var endOfTime = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// resolveRange picks the query window: explicit dates, then --bucket,
// then the configured default bucket.
func resolveRange(now time.Time) (timeRange, error) {
	if flagSince != "" || flagUntil != "" {
		return dateRange(flagSince, flagUntil, now.Location())
	}

	key := appConfig.General.DefaultBucket
	if flagBucket != "" {
		key = flagBucket
	}
	b, err := bucket.Parse(key)
	if err != nil {
		return timeRange{}, err
	}
	r := b.RangeAt(now)
	return timeRange{Start: r.Start, End: r.End, Title: b.LabelAt(now)}, nil
}

func dateRange(since, until string, loc *time.Location) (timeRange, error) {
	tr := timeRange{End: endOfTime}
	if since != "" {
		t, err := time.ParseInLocation(dateLayout, since, loc)
		if err != nil {
			return tr, fmt.Errorf("invalid --since %q: %w", since, err)
		}
		tr.Start = t
	}
	if until != "" {
		t, err := time.ParseInLocation(dateLayout, until, loc)
		if err != nil {
			return tr, fmt.Errorf("invalid --until %q: %w", until, err)
		}
		tr.End = t.AddDate(0, 0, 1).Add(-time.Second)
	}
	if tr.End.Before(tr.Start) {
		return tr, fmt.Errorf("--until %s is before --since %s", until, since)
	}

	switch {
	case since != "" && until != "":
		tr.Title = since + " to " + until
	case since != "":
		tr.Title = "Since " + since
	default:
		tr.Title = "Until " + until
	}
	return tr, nil
}

// query returns the indexed entries inside tr, oldest first.
func query(result *pipeline.ScanResult, tr timeRange) []index.Entry {
	entries := result.Index.InRange(tr.Start, tr.End)
	index.SortByTime(entries)
	return entries
}
