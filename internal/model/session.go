// Package model defines domain types for indexed activities and their metrics.
package model

import "time"

// SessionStats is the whole-activity summary of one file. Missing values are zero.
type SessionStats struct {
	Distance float64 // meters
	Calories uint16
	Duration float64 // seconds, elapsed
	AvgSpeed float64 // m/s, enhanced average speed
	Ascent   uint16  // meters
	Descent  uint16  // meters
}

// IsZero reports whether no summary value is set.
func (s SessionStats) IsZero() bool {
	return s == SessionStats{}
}

// Activity pairs an indexed file with its summary.
type Activity struct {
	Time  time.Time
	Path  string
	Stats SessionStats
	Err   error // extraction failure; Stats is zero when set
}
