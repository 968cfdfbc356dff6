package pipeline

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/fitdex/internal/model"
)

func act(ts time.Time, dist, dur float64, cal uint16) model.Activity {
	return model.Activity{
		Time:  ts,
		Path:  ts.Format(time.RFC3339) + ".fit",
		Stats: model.SessionStats{Distance: dist, Duration: dur, Calories: cal, Ascent: 10, Descent: 5},
	}
}

func TestAggregate(t *testing.T) {
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	acts := []model.Activity{
		act(day, 5000, 1500, 300),
		act(day.Add(3*time.Hour), 3000, 900, 200),
		act(day.AddDate(0, 0, 1), 10000, 3600, 700),
		{Time: day.AddDate(0, 0, 2), Err: errors.New("bad file")},
	}

	s := Aggregate(acts)
	if s.Activities != 4 {
		t.Errorf("Activities = %d, want 4", s.Activities)
	}
	if s.ActiveDays != 3 {
		t.Errorf("ActiveDays = %d, want 3", s.ActiveDays)
	}
	if s.FailedReads != 1 {
		t.Errorf("FailedReads = %d, want 1", s.FailedReads)
	}
	if s.Distance != 18000 {
		t.Errorf("Distance = %v, want 18000", s.Distance)
	}
	if s.Calories != 1200 {
		t.Errorf("Calories = %d, want 1200", s.Calories)
	}
	if s.Ascent != 30 || s.Descent != 15 {
		t.Errorf("Ascent/Descent = %d/%d, want 30/15", s.Ascent, s.Descent)
	}
	if math.Abs(s.AvgSpeed-18000.0/6000.0) > 1e-9 {
		t.Errorf("AvgSpeed = %v, want 3", s.AvgSpeed)
	}
	if s.LongestDistance != 10000 || s.LongestDuration != 3600 {
		t.Errorf("Longest = %v/%v, want 10000/3600", s.LongestDistance, s.LongestDuration)
	}
}

func TestAggregate_Empty(t *testing.T) {
	if s := Aggregate(nil); s != (model.SummaryStats{}) {
		t.Errorf("Aggregate(nil) = %+v, want zero", s)
	}
}

func TestAggregateDays_FillsGaps(t *testing.T) {
	since := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)
	until := time.Date(2025, 3, 5, 23, 59, 59, 0, time.Local)
	acts := []model.Activity{
		act(since.Add(8*time.Hour), 1000, 300, 50),
		act(since.Add(20*time.Hour), 2000, 600, 60),
		act(since.AddDate(0, 0, 3).Add(7*time.Hour), 4000, 1200, 70),
	}

	days := AggregateDays(acts, since, until)
	if len(days) != 5 {
		t.Fatalf("days = %d, want 5", len(days))
	}
	if !days[0].Date.Equal(time.Date(2025, 3, 5, 0, 0, 0, 0, time.Local)) {
		t.Errorf("first day = %v, want most recent", days[0].Date)
	}
	last := days[len(days)-1]
	if last.Activities != 2 || last.Distance != 3000 {
		t.Errorf("Mar 1 = %+v, want 2 activities and 3000 m", last)
	}
	if days[1].Activities != 1 || days[2].Activities != 0 {
		t.Errorf("Mar 4/3 = %d/%d activities, want 1/0", days[1].Activities, days[2].Activities)
	}
}

func TestAggregateHourly(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)
	hours := AggregateHourly([]model.Activity{
		act(base.Add(6*time.Hour), 1000, 0, 0),
		act(base.Add(6*time.Hour+30*time.Minute), 500, 0, 0),
		act(base.Add(18*time.Hour), 200, 0, 0),
	})
	if len(hours) != 24 {
		t.Fatalf("len = %d, want 24", len(hours))
	}
	if hours[6].Activities != 2 || hours[6].Distance != 1500 {
		t.Errorf("hour 6 = %+v", hours[6])
	}
	if hours[18].Activities != 1 {
		t.Errorf("hour 18 = %+v", hours[18])
	}
}

func TestMetricSeries_Sorted(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	acts := []model.Activity{
		act(base.Add(2*time.Hour), 300, 30, 3),
		act(base, 100, 10, 1),
		act(base.Add(time.Hour), 200, 20, 2),
	}

	tests := []struct {
		metric model.Metric
		want   []float64
	}{
		{model.MetricDistance, []float64{100, 200, 300}},
		{model.MetricCalories, []float64{1, 2, 3}},
		{model.MetricDuration, []float64{10, 20, 30}},
		{model.MetricAscent, []float64{10, 10, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.metric.String(), func(t *testing.T) {
			pts := MetricSeries(acts, tt.metric)
			for i, p := range pts {
				if p.Value != tt.want[i] {
					t.Errorf("pts[%d] = %v, want %v", i, p.Value, tt.want[i])
				}
				if i > 0 && p.Time.Before(pts[i-1].Time) {
					t.Error("series not sorted")
				}
			}
		})
	}
}

func TestFilterByTime_Inclusive(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	acts := []model.Activity{act(base, 1, 1, 1), act(base.Add(time.Hour), 1, 1, 1), act(base.Add(2*time.Hour), 1, 1, 1)}

	if got := FilterByTime(acts, base, base.Add(time.Hour)); len(got) != 2 {
		t.Errorf("closed range = %d, want 2", len(got))
	}
	if got := FilterByTime(acts, time.Time{}, time.Time{}); len(got) != 3 {
		t.Errorf("open range = %d, want 3", len(got))
	}
	if got := FilterByTime(acts, base.Add(90*time.Minute), time.Time{}); len(got) != 1 {
		t.Errorf("since only = %d, want 1", len(got))
	}
}
