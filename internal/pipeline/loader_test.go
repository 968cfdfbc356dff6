package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/fitdex/internal/fitrec"
	"github.com/theirongolddev/fitdex/internal/fitrec/fittest"
	"github.com/theirongolddev/fitdex/internal/index"
	"github.com/theirongolddev/fitdex/internal/source"
)

var created = time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC)

func TestBuildIndex_SingleActivity(t *testing.T) {
	root := t.TempDir()
	path := fittest.Write(t, root, "ride.fit", fittest.Activity{
		Created:  created,
		Sessions: []fittest.Session{{DistanceM: 5000, Calories: 300}},
	})

	result := BuildIndex(root, Options{}, nil)
	if result.Index.Len() != 1 {
		t.Fatalf("Len = %d, want 1", result.Index.Len())
	}

	hits := result.Index.InRange(
		time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC),
	)
	if len(hits) != 1 {
		t.Fatalf("range hits = %d, want 1", len(hits))
	}
	if !hits[0].Time.Equal(created) || hits[0].Path != path {
		t.Errorf("hit = %+v, want (%v, %s)", hits[0], created, path)
	}

	acts := CollectStats(hits, nil, 0)
	if len(acts) != 1 {
		t.Fatalf("activities = %d, want 1", len(acts))
	}
	if acts[0].Stats.Distance != 5000 || acts[0].Stats.Calories != 300 {
		t.Errorf("stats = %+v, want distance 5000 calories 300", acts[0].Stats)
	}
}

func TestBuildIndex_SkipsBadFiles(t *testing.T) {
	root := t.TempDir()
	fittest.Write(t, root, "good.fit", fittest.Activity{Created: created})
	fittest.Write(t, root, "other.gpx", fittest.Activity{Created: created.Add(time.Hour)})
	if err := os.WriteFile(filepath.Join(root, "empty.fit"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "junk.FIT"), []byte("definitely not fit"), 0o600); err != nil {
		t.Fatal(err)
	}

	result := BuildIndex(root, Options{Workers: 2}, nil)
	if result.TotalFiles != 3 {
		t.Errorf("TotalFiles = %d, want 3", result.TotalFiles)
	}
	if result.Indexed != 1 || result.Skipped != 2 {
		t.Errorf("Indexed/Skipped = %d/%d, want 1/2", result.Indexed, result.Skipped)
	}
	if result.Index.Len() != 1 {
		t.Errorf("Len = %d, want 1", result.Index.Len())
	}
}

func TestBuildIndex_MissingRoot(t *testing.T) {
	result := BuildIndex(filepath.Join(t.TempDir(), "absent"), Options{}, nil)
	if result.Index == nil || result.Index.Len() != 0 {
		t.Fatal("expected an empty index")
	}
}

func TestBuildIndex_Idempotent(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 20; i++ {
		fittest.Write(t, root, filepath.Join("y", fmt.Sprintf("a%02d.fit", i)), fittest.Activity{
			Created: created.Add(time.Duration(i) * 24 * time.Hour),
		})
	}

	first := BuildIndex(root, Options{Workers: 4}, nil).Index.Entries()
	second := BuildIndex(root, Options{Workers: 1}, nil).Index.Entries()
	index.SortByTime(first)
	index.SortByTime(second)

	if len(first) != 20 || len(second) != 20 {
		t.Fatalf("lens = %d, %d, want 20", len(first), len(second))
	}
	for i := range first {
		if !first[i].Time.Equal(second[i].Time) || first[i].Path != second[i].Path {
			t.Errorf("entry %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestBuildIndex_DuplicateTimestamp(t *testing.T) {
	root := t.TempDir()
	a := fittest.Write(t, root, "a.fit", fittest.Activity{Created: created})
	b := fittest.Write(t, root, "b.fit", fittest.Activity{Created: created})

	result := BuildIndex(root, Options{}, nil)
	if result.Index.Len() != 1 {
		t.Fatalf("Len = %d, want 1", result.Index.Len())
	}
	if result.Overwrites != 1 {
		t.Errorf("Overwrites = %d, want 1", result.Overwrites)
	}
	got, _ := result.Index.Get(created)
	if got != a && got != b {
		t.Errorf("path = %s, want one of the two files", got)
	}
}

func TestBuildIndex_Progress(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"1.fit", "2.fit", "3.fit"} {
		fittest.Write(t, root, name, fittest.Activity{Created: created})
	}

	var calls, last atomic.Int64
	BuildIndex(root, Options{}, func(current, total int) {
		calls.Add(1)
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		if current == total {
			last.Store(int64(current))
		}
	})
	if calls.Load() != 3 {
		t.Errorf("progress calls = %d, want 3", calls.Load())
	}
	if last.Load() != 3 {
		t.Error("progress never reached total")
	}
}

type countingDecoder struct {
	inner fitrec.Decoder
	full  atomic.Int64
}

func (d *countingDecoder) Decode(r io.Reader, limit int64) ([]fitrec.Record, error) {
	if limit <= 0 {
		d.full.Add(1)
	}
	return d.inner.Decode(r, limit)
}

func TestBuildIndex_FastPathOnly(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 4; i++ {
		fittest.Write(t, root, fmt.Sprintf("%d.fit", i), fittest.Activity{
			Created:  created.Add(time.Duration(i) * time.Minute),
			Sessions: []fittest.Session{{DistanceM: 1234}},
		})
	}

	dec := &countingDecoder{inner: fitrec.NewDecoder()}
	result := BuildIndex(root, Options{Decoder: dec}, nil)
	if result.Indexed != 4 {
		t.Fatalf("Indexed = %d, want 4", result.Indexed)
	}
	if n := dec.full.Load(); n != 0 {
		t.Errorf("full decodes = %d, want 0", n)
	}
	if result.FullReads != 0 {
		t.Errorf("FullReads = %d, want 0", result.FullReads)
	}
}

func TestBuildIndex_SmallPrefixUsesFallback(t *testing.T) {
	root := t.TempDir()
	fittest.Write(t, root, "a.fit", fittest.Activity{Created: created})

	result := BuildIndex(root, Options{PrefixBytes: 4}, nil)
	if result.Indexed != 1 || result.FullReads != 1 {
		t.Errorf("Indexed/FullReads = %d/%d, want 1/1", result.Indexed, result.FullReads)
	}
}

func TestBuildIndex_FullReadsCountsIndexedOnly(t *testing.T) {
	root := t.TempDir()
	fittest.Write(t, root, "good.fit", fittest.Activity{
		Created:  created,
		Sessions: []fittest.Session{{DistanceM: 1000}},
	})
	data := fittest.Encode(t, fittest.Activity{
		Created:  created.Add(time.Hour),
		Sessions: []fittest.Session{{DistanceM: 2000}},
	})
	if err := os.WriteFile(filepath.Join(root, "cut.fit"), data[:len(data)/2], 0o600); err != nil {
		t.Fatal(err)
	}

	result := BuildIndex(root, Options{PrefixBytes: 20}, nil)
	if result.Indexed != 1 || result.Skipped != 1 {
		t.Fatalf("Indexed/Skipped = %d/%d, want 1/1", result.Indexed, result.Skipped)
	}
	if result.FullReads != 1 {
		t.Errorf("FullReads = %d, want 1 (the truncated file was never indexed)", result.FullReads)
	}
	if result.FullReads > result.Indexed {
		t.Errorf("FullReads %d exceeds Indexed %d", result.FullReads, result.Indexed)
	}
}

func TestCollectStats_ZeroFillsFailures(t *testing.T) {
	root := t.TempDir()
	good := fittest.Write(t, root, "good.fit", fittest.Activity{
		Created:  created,
		Sessions: []fittest.Session{{DistanceM: 800}},
	})
	bad := filepath.Join(root, "gone.fit")

	acts := CollectStats([]index.Entry{
		{Time: created.Add(time.Hour), Path: bad},
		{Time: created, Path: good},
	}, source.DefaultExtractor(), 2)

	if len(acts) != 2 {
		t.Fatalf("len = %d, want 2", len(acts))
	}
	if acts[0].Path != good || acts[0].Stats.Distance != 800 {
		t.Errorf("acts[0] = %+v, want good file first with distance 800", acts[0])
	}
	if acts[1].Err == nil || !acts[1].Stats.IsZero() {
		t.Errorf("acts[1] = %+v, want zero stats with error", acts[1])
	}
}
