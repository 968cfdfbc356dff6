package cli

import (
	"strings"
	"testing"

	"github.com/theirongolddev/fitdex/internal/units"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs float64
		want string
	}{
		{0, "0s"},
		{-5, "0s"},
		{45, "45s"},
		{125, "2m 05s"},
		{3725, "1h 02m"},
		{1799.6, "30m 00s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.secs); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Errorf("FormatNumber = %q", got)
	}
	if got := FormatNumber(-1000); got != "-1,000" {
		t.Errorf("FormatNumber(-1000) = %q", got)
	}
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"km", FormatDistance(5000, units.Metric), "5.00 km"},
		{"mi", FormatDistance(5000, units.US), "3.11 mi"},
		{"kmh", FormatSpeed(2.5, units.Metric), "9.0 km/h"},
		{"mph", FormatSpeed(2.5, units.US), "5.6 mph"},
		{"m", FormatElevation(1234, units.Metric), "1,234 m"},
		{"ft", FormatElevation(100, units.US), "328 ft"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestRenderTable_Shape(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Date", "Dist"},
		Rows: [][]string{
			{"2025-08-14 10:00", "5.00 km"},
			SeparatorRow,
			{"Total", "5.00 km"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// top, header, header rule, row, separator, row, bottom
	if len(lines) != 7 {
		t.Fatalf("lines = %d, want 7:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "2025-08-14 10:00") || !strings.Contains(out, "Total") {
		t.Error("table is missing cell content")
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("RenderTable(empty) = %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 1, 2}); []rune(got)[2] != '█' {
		t.Errorf("sparkline = %q, peak should be full block", got)
	}
	if got := RenderSparkline(nil); got != "" {
		t.Errorf("sparkline(nil) = %q", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(0.975); got != "97.5%" {
		t.Errorf("FormatPercent = %q", got)
	}
}

func TestRenderProgressBar(t *testing.T) {
	if got := RenderProgressBar(3, 0, 10); got != "" {
		t.Errorf("zero total = %q, want empty", got)
	}
	got := RenderProgressBar(5, 10, 10)
	if !strings.Contains(got, "█████░░░░░") || !strings.HasSuffix(got, "5/10") {
		t.Errorf("bar = %q", got)
	}
	if got := RenderProgressBar(12, 10, 4); !strings.Contains(got, "████") {
		t.Errorf("overflow not clamped: %q", got)
	}
}
