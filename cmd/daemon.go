package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/fitdex/internal/daemon"
)

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonEventsBuffer int
	flagDaemonWatch        bool
	flagDaemonDebounce     time.Duration
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Rescan on an interval and serve range queries over HTTP",
	Long: `Daemon rebuilds the index from scratch every --interval and serves:

  /healthz       liveness
  /v1/status     scan counters
  /v1/files      range query (?bucket=KEY or ?since=&until= in RFC 3339)
  /v1/summary    totals for the same range parameters
  /v1/events     recent index change events
  /v1/stream     the same events as server-sent events

With --watch, changes to activity files also trigger a rescan once they
have been quiet for --debounce.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	daemonCmd.Flags().StringVar(&flagDaemonAddr, "addr", "127.0.0.1:8788", "HTTP listen address")
	daemonCmd.Flags().DurationVar(&flagDaemonInterval, "interval", time.Minute, "Rescan interval")
	daemonCmd.Flags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 200, "Max in-memory events retained")
	daemonCmd.Flags().BoolVar(&flagDaemonWatch, "watch", false, "Rescan when activity files change")
	daemonCmd.Flags().DurationVar(&flagDaemonDebounce, "debounce", 2*time.Second, "Quiet period before a watch-triggered rescan")
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := daemon.New(daemon.Config{
		DataDir:      dataDir(),
		Scan:         scanOptions(),
		Interval:     flagDaemonInterval,
		Addr:         flagDaemonAddr,
		EventsBuffer: flagDaemonEventsBuffer,
		Watch:        flagDaemonWatch,
		Debounce:     flagDaemonDebounce,
	})
	return svc.Run(ctx)
}
