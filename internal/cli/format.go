// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/theirongolddev/fitdex/internal/units"
)

// TimestampLayout is how activity times are shown: local, minute precision.
const TimestampLayout = "2006-01-02 15:04"

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatBytes renders a byte count, e.g. 82854982 -> "83 MB".
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// FormatDuration formats seconds into a human-readable duration.
// e.g., 3725 -> "1h 02m", 125 -> "2m 05s", 45 -> "45s"
func FormatDuration(secs float64) string {
	s := int64(math.Round(secs))
	if s <= 0 {
		return "0s"
	}

	hours := s / 3600
	mins := (s % 3600) / 60
	rem := s % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %02dm", hours, mins)
	}
	if mins > 0 {
		return fmt.Sprintf("%dm %02ds", mins, rem)
	}
	return fmt.Sprintf("%ds", rem)
}

// FormatDistance renders meters in the chosen system with two decimals.
func FormatDistance(m float64, sys units.System) string {
	return fmt.Sprintf("%.2f %s", sys.Distance(m), sys.DistanceUnit())
}

// FormatSpeed renders m/s in the chosen system with one decimal.
func FormatSpeed(mps float64, sys units.System) string {
	return fmt.Sprintf("%.1f %s", sys.Speed(mps), sys.SpeedUnit())
}

// FormatElevation renders meters in the chosen system, rounded.
func FormatElevation(m float64, sys units.System) string {
	return fmt.Sprintf("%s %s", FormatNumber(int64(math.Round(sys.Elevation(m)))), sys.ElevationUnit())
}

// FormatTimestamp renders t in local time.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}
