package units

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestConversions(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"metric distance", Metric.Distance(5000), 5},
		{"us distance", US.Distance(5000), 5 * 0.621371},
		{"metric speed", Metric.Speed(2.5), 9},
		{"us speed", US.Speed(2.5), 2.5 * 2.23694},
		{"metric elevation", Metric.Elevation(100), 100},
		{"us elevation", US.Elevation(100), 328.084},
		{"minutes", Minutes(1800), 30},
	}
	for _, tt := range tests {
		if !approx(tt.got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    System
		wantErr bool
	}{
		{"metric", Metric, false},
		{"", Metric, false},
		{"US", US, false},
		{"imperial", US, false},
		{"furlongs", Metric, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("Parse(%q) = (%v, %v), want (%v, err=%v)", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestToggleAndLabels(t *testing.T) {
	if Metric.Toggle() != US || US.Toggle() != Metric {
		t.Error("Toggle does not flip")
	}
	if US.DistanceUnit() != "mi" || Metric.SpeedUnit() != "km/h" || US.ElevationUnit() != "ft" {
		t.Error("unexpected unit labels")
	}
}
