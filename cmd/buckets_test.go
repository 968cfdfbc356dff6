package cmd

import (
	"testing"
	"time"

	"github.com/theirongolddev/fitdex/internal/bucket"
	"github.com/theirongolddev/fitdex/internal/index"
)

func TestCountPerBucket(t *testing.T) {
	now := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC) // Wednesday
	entries := []index.Entry{
		{Time: time.Date(2025, 8, 18, 7, 0, 0, 0, time.UTC), Path: "mon.fit"},
		{Time: time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC), Path: "sun-midnight.fit"},
		{Time: time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC), Path: "last-week.fit"},
		{Time: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), Path: "march.fit"},
	}
	list := []bucket.Bucket{
		bucket.OneWeek,
		bucket.TwoWeeks,
		bucket.MonthLastYear(time.March),
		bucket.MonthThisYear(time.August),
	}

	got := countPerBucket(entries, list, now)
	want := []int{2, 3, 1, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: count = %d, want %d", list[i].Key(), got[i], want[i])
		}
	}
}
