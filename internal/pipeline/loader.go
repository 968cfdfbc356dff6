package pipeline

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/theirongolddev/fitdex/internal/fitrec"
	"github.com/theirongolddev/fitdex/internal/index"
	"github.com/theirongolddev/fitdex/internal/source"
)

// ScanResult holds the index built by one scan plus counters describing it.
type ScanResult struct {
	Index      *index.Index
	Root       string
	TotalFiles int
	TotalBytes int64
	Indexed    int
	Skipped    int
	FullReads  int // indexed files whose timestamp needed the whole-file fallback
	Overwrites int // inserts that replaced an entry with the same timestamp
	Elapsed    time.Duration
}

// Options tunes a scan. The zero value uses GOMAXPROCS workers, the
// default prefix size and the FIT decoder.
type Options struct {
	Workers     int
	PrefixBytes int64
	Decoder     fitrec.Decoder
}

// Extractor returns the extractor a scan with these options uses.
func (o Options) Extractor() *source.Extractor {
	if o.Decoder == nil && o.PrefixBytes <= 0 {
		return source.DefaultExtractor()
	}
	dec := o.Decoder
	if dec == nil {
		dec = fitrec.NewDecoder()
	}
	return source.NewExtractor(dec, o.PrefixBytes)
}

// ProgressFunc is called during scanning to report progress.
// current is the number of files attempted so far, total is the total count.
type ProgressFunc func(current, total int)

// ProcessDirectory indexes every activity file under root with default options.
func ProcessDirectory(root string) *index.Index {
	return BuildIndex(root, Options{}, nil).Index
}

// BuildIndex discovers activity files under root and indexes them by
// creation timestamp with a bounded worker pool. Files that cannot be read
// or carry no timestamp are skipped. It returns once every file has been
// attempted.
func BuildIndex(root string, opts Options, progressFn ProgressFunc) *ScanResult {
	start := time.Now()
	result := &ScanResult{Index: index.New(), Root: root}

	files, err := source.ScanDir(root)
	if err != nil {
		log.Warn().Err(err).Str("root", root).Msg("cannot scan directory")
	}
	result.TotalFiles = len(files)
	result.TotalBytes = source.TotalSize(files)
	if len(files) == 0 {
		result.Elapsed = time.Since(start)
		return result
	}

	ex := opts.Extractor()

	numWorkers := workerCount(opts.Workers, len(files))

	work := make(chan int, len(files))
	var wg sync.WaitGroup
	var processed, indexed, fullReads, overwrites atomic.Int64

	// Feed work
	for i := range files {
		work <- i
	}
	close(work)

	// Spawn workers
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				path := files[idx].Path
				ts, tier, err := ex.TimestampTier(path)
				if err != nil {
					log.Debug().Err(err).Str("path", path).Stringer("tier", tier).Msg("skipping file")
				} else {
					if result.Index.Put(ts, path) {
						overwrites.Add(1)
					}
					if tier == source.TierFull {
						fullReads.Add(1)
					}
					indexed.Add(1)
				}
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(files))
				}
			}
		}()
	}

	wg.Wait()

	result.Indexed = int(indexed.Load())
	result.Skipped = result.TotalFiles - result.Indexed
	result.FullReads = int(fullReads.Load())
	result.Overwrites = int(overwrites.Load())
	result.Elapsed = time.Since(start)

	log.Info().
		Str("root", root).
		Int("files", result.TotalFiles).
		Int("indexed", result.Indexed).
		Int("skipped", result.Skipped).
		Int("full_reads", result.FullReads).
		Dur("elapsed", result.Elapsed).
		Msg("scan complete")

	return result
}

func workerCount(requested, jobs int) int {
	n := requested
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n < 1 {
		n = 4
	}
	if n > jobs {
		n = jobs
	}
	return n
}
