package pipeline

import (
	"github.com/rs/zerolog/log"
	"github.com/theirongolddev/fitdex/internal/index"
	"github.com/theirongolddev/fitdex/internal/model"
	"github.com/theirongolddev/fitdex/internal/source"
	"golang.org/x/sync/errgroup"
)

// CollectStats extracts the session summary of every entry in parallel.
// A file that fails to decode yields zero stats with Err set. The result
// is ordered oldest first.
func CollectStats(entries []index.Entry, ex *source.Extractor, workers int) []model.Activity {
	if ex == nil {
		ex = source.DefaultExtractor()
	}

	sorted := make([]index.Entry, len(entries))
	copy(sorted, entries)
	index.SortByTime(sorted)

	out := make([]model.Activity, len(sorted))
	if len(sorted) == 0 {
		return out
	}

	var g errgroup.Group
	g.SetLimit(workerCount(workers, len(sorted)))
	for i, e := range sorted {
		i, e := i, e
		g.Go(func() error {
			stats, err := ex.Session(e.Path)
			if err != nil {
				log.Debug().Err(err).Str("path", e.Path).Msg("session summary unavailable")
			}
			out[i] = model.Activity{Time: e.Time, Path: e.Path, Stats: stats, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return out
}
