package model

import "time"

// SummaryStats holds totals across a set of activities.
type SummaryStats struct {
	Activities  int
	ActiveDays  int
	FailedReads int

	Distance float64 // meters
	Calories int64
	Duration float64 // seconds
	Ascent   int64   // meters
	Descent  int64   // meters
	AvgSpeed float64 // m/s, distance over duration

	LongestDistance float64
	LongestDuration float64
	DistancePerDay  float64
}

// DailyStats holds totals for a single calendar day.
type DailyStats struct {
	Date       time.Time
	Activities int
	Distance   float64
	Calories   int64
	Duration   float64
	Ascent     int64
	Descent    int64
}

// HourlyStats counts activities by local start hour.
type HourlyStats struct {
	Hour       int
	Activities int
	Distance   float64
}

// Metric selects one SessionStats value for charting.
type Metric int

const (
	MetricDistance Metric = iota
	MetricCalories
	MetricDuration
	MetricSpeed
	MetricAscent
	MetricDescent
)

// AllMetrics lists metrics in display order.
var AllMetrics = []Metric{MetricDistance, MetricCalories, MetricDuration, MetricSpeed, MetricAscent, MetricDescent}

func (m Metric) String() string {
	switch m {
	case MetricDistance:
		return "distance"
	case MetricCalories:
		return "calories"
	case MetricDuration:
		return "duration"
	case MetricSpeed:
		return "speed"
	case MetricAscent:
		return "ascent"
	case MetricDescent:
		return "descent"
	}
	return "unknown"
}

// Value extracts the metric from s in base units.
func (m Metric) Value(s SessionStats) float64 {
	switch m {
	case MetricDistance:
		return s.Distance
	case MetricCalories:
		return float64(s.Calories)
	case MetricDuration:
		return s.Duration
	case MetricSpeed:
		return s.AvgSpeed
	case MetricAscent:
		return float64(s.Ascent)
	case MetricDescent:
		return float64(s.Descent)
	}
	return 0
}

// Point is one (timestamp, value) sample of a metric series.
type Point struct {
	Time  time.Time
	Value float64
}
