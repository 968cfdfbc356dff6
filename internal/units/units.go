// Package units converts base SI values for display in metric or US units.
package units

import (
	"fmt"
	"strings"
)

// System is a display unit system.
type System int

const (
	Metric System = iota
	US
)

const (
	milesPerKm   = 0.621371
	mphPerMps    = 2.23694
	kmhPerMps    = 3.6
	feetPerMeter = 3.28084
)

// Parse accepts "metric", "us" or "imperial".
func Parse(s string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "metric", "si", "":
		return Metric, nil
	case "us", "imperial":
		return US, nil
	}
	return Metric, fmt.Errorf("unknown unit system %q (want metric or us)", s)
}

func (s System) String() string {
	if s == US {
		return "us"
	}
	return "metric"
}

// Toggle returns the other system.
func (s System) Toggle() System {
	if s == US {
		return Metric
	}
	return US
}

// Distance converts meters to km or miles.
func (s System) Distance(m float64) float64 {
	km := m / 1000
	if s == US {
		return km * milesPerKm
	}
	return km
}

// Speed converts m/s to km/h or mph.
func (s System) Speed(mps float64) float64 {
	if s == US {
		return mps * mphPerMps
	}
	return mps * kmhPerMps
}

// Elevation converts meters to meters or feet.
func (s System) Elevation(m float64) float64 {
	if s == US {
		return m * feetPerMeter
	}
	return m
}

// Minutes converts seconds to minutes. Same in both systems.
func Minutes(seconds float64) float64 {
	return seconds / 60
}

// DistanceUnit is the short label for Distance values.
func (s System) DistanceUnit() string {
	if s == US {
		return "mi"
	}
	return "km"
}

// SpeedUnit is the short label for Speed values.
func (s System) SpeedUnit() string {
	if s == US {
		return "mph"
	}
	return "km/h"
}

// ElevationUnit is the short label for Elevation values.
func (s System) ElevationUnit() string {
	if s == US {
		return "ft"
	}
	return "m"
}
