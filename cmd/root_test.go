package cmd

import (
	"testing"
	"time"

	"github.com/theirongolddev/fitdex/internal/config"
)

func TestDateRange(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name, since, until string
		start, end         time.Time
		title              string
	}{
		{
			"both", "2025-03-01", "2025-03-31",
			time.Date(2025, 3, 1, 0, 0, 0, 0, loc),
			time.Date(2025, 3, 31, 23, 59, 59, 0, loc),
			"2025-03-01 to 2025-03-31",
		},
		{
			"since only", "2025-03-01", "",
			time.Date(2025, 3, 1, 0, 0, 0, 0, loc), endOfTime,
			"Since 2025-03-01",
		},
		{
			"until only", "", "2025-03-01",
			time.Time{}, time.Date(2025, 3, 1, 23, 59, 59, 0, loc),
			"Until 2025-03-01",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := dateRange(tt.since, tt.until, loc)
			if err != nil {
				t.Fatal(err)
			}
			if !tr.Start.Equal(tt.start) || !tr.End.Equal(tt.end) || tr.Title != tt.title {
				t.Errorf("got %+v", tr)
			}
		})
	}
}

func TestDateRange_Errors(t *testing.T) {
	for _, tt := range [][2]string{
		{"2025-13-01", ""},
		{"", "March"},
		{"2025-03-10", "2025-03-01"},
	} {
		if _, err := dateRange(tt[0], tt[1], time.UTC); err == nil {
			t.Errorf("dateRange(%q, %q) should fail", tt[0], tt[1])
		}
	}
}

func TestResolveRange_BucketPrecedence(t *testing.T) {
	defer func() {
		flagBucket, flagSince, flagUntil = "", "", ""
		appConfig = config.DefaultConfig()
	}()
	now := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)

	appConfig = config.DefaultConfig()
	tr, err := resolveRange(now)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Title != "Last 4 Weeks" {
		t.Errorf("default title = %q, want the configured 4w bucket", tr.Title)
	}

	flagBucket = "this-mar"
	tr, _ = resolveRange(now)
	if want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC); !tr.Start.Equal(want) {
		t.Errorf("bucket start = %v, want %v", tr.Start, want)
	}

	flagSince = "2025-08-01"
	tr, _ = resolveRange(now)
	if tr.Title != "Since 2025-08-01" {
		t.Errorf("dates should override --bucket, got %q", tr.Title)
	}

	flagSince, flagBucket = "", "nope"
	if _, err := resolveRange(now); err == nil {
		t.Error("unknown bucket should fail")
	}
}
