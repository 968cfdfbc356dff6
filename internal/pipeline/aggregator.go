// Package pipeline builds the activity index and derives metrics from it.
package pipeline

import (
	"sort"
	"time"

	"github.com/theirongolddev/fitdex/internal/model"
)

const dayLayout = "2006-01-02"

// Aggregate computes totals across activities.
func Aggregate(activities []model.Activity) model.SummaryStats {
	var stats model.SummaryStats
	activeDays := make(map[string]struct{})

	for _, a := range activities {
		stats.Activities++
		if a.Err != nil {
			stats.FailedReads++
		}

		s := a.Stats
		stats.Distance += s.Distance
		stats.Calories += int64(s.Calories)
		stats.Duration += s.Duration
		stats.Ascent += int64(s.Ascent)
		stats.Descent += int64(s.Descent)

		if s.Distance > stats.LongestDistance {
			stats.LongestDistance = s.Distance
		}
		if s.Duration > stats.LongestDuration {
			stats.LongestDuration = s.Duration
		}

		if !a.Time.IsZero() {
			activeDays[a.Time.Local().Format(dayLayout)] = struct{}{}
		}
	}

	stats.ActiveDays = len(activeDays)
	if stats.Duration > 0 {
		stats.AvgSpeed = stats.Distance / stats.Duration
	}
	if stats.ActiveDays > 0 {
		stats.DistancePerDay = stats.Distance / float64(stats.ActiveDays)
	}

	return stats
}

// AggregateDays computes per-day totals, most recent first. Days between
// since and until with no activity are included as zeros when both bounds are set.
func AggregateDays(activities []model.Activity, since, until time.Time) []model.DailyStats {
	dayMap := make(map[string]*model.DailyStats)

	for _, a := range activities {
		if a.Time.IsZero() {
			continue
		}
		dayKey := a.Time.Local().Format(dayLayout)
		ds, ok := dayMap[dayKey]
		if !ok {
			t, _ := time.ParseInLocation(dayLayout, dayKey, time.Local)
			ds = &model.DailyStats{Date: t}
			dayMap[dayKey] = ds
		}

		ds.Activities++
		ds.Distance += a.Stats.Distance
		ds.Calories += int64(a.Stats.Calories)
		ds.Duration += a.Stats.Duration
		ds.Ascent += int64(a.Stats.Ascent)
		ds.Descent += int64(a.Stats.Descent)
	}

	// Fill in every day in the range so gaps show as zeros
	if !since.IsZero() && !until.IsZero() {
		s := since.Local()
		day := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.Local)
		for !day.After(until) {
			dayKey := day.Format(dayLayout)
			if _, ok := dayMap[dayKey]; !ok {
				dayMap[dayKey] = &model.DailyStats{Date: day}
			}
			day = day.AddDate(0, 0, 1)
		}
	}

	days := make([]model.DailyStats, 0, len(dayMap))
	for _, ds := range dayMap {
		days = append(days, *ds)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})

	return days
}

// AggregateHourly counts activities by local start hour.
func AggregateHourly(activities []model.Activity) []model.HourlyStats {
	hours := make([]model.HourlyStats, 24)
	for i := range hours {
		hours[i].Hour = i
	}

	for _, a := range activities {
		if a.Time.IsZero() {
			continue
		}
		h := a.Time.Local().Hour()
		hours[h].Activities++
		hours[h].Distance += a.Stats.Distance
	}
	return hours
}

// MetricSeries returns the (timestamp, value) series of one metric, oldest first.
func MetricSeries(activities []model.Activity, m model.Metric) []model.Point {
	points := make([]model.Point, 0, len(activities))
	for _, a := range activities {
		points = append(points, model.Point{Time: a.Time, Value: m.Value(a.Stats)})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Time.Before(points[j].Time)
	})
	return points
}

// FilterByTime returns activities whose timestamp falls within [since, until].
// A zero bound is open.
func FilterByTime(activities []model.Activity, since, until time.Time) []model.Activity {
	if since.IsZero() && until.IsZero() {
		return activities
	}

	var result []model.Activity
	for _, a := range activities {
		if !since.IsZero() && a.Time.Before(since) {
			continue
		}
		if !until.IsZero() && a.Time.After(until) {
			continue
		}
		result = append(result, a)
	}
	return result
}
