// Package bucket maps named calendar windows ("last 2 weeks", "March last
// year") to concrete inclusive time ranges.
//
// All calendar arithmetic happens in the location of the supplied instant.
// The ...At variants take that instant explicitly; the plain variants use
// time.Now().
package bucket

import (
	"fmt"
	"strings"
	"time"
)

// Bucket is one of the 28 named windows. The zero value is OneWeek.
type Bucket int

const (
	OneWeek Bucket = iota
	TwoWeeks
	ThreeWeeks
	FourWeeks
)

// Kind distinguishes rolling-week windows from calendar months.
type Kind int

const (
	Weekly Kind = iota
	Monthly
)

// Range is a closed interval [Start, End].
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the range, bounds included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

type def struct {
	key        string
	kind       Kind
	weeks      int        // Weekly
	label      string     // Weekly
	month      time.Month // Monthly
	yearOffset int        // Monthly: 0 this year, -1 last year
}

var table = buildTable()

func buildTable() []def {
	defs := []def{
		{key: "1w", kind: Weekly, weeks: 1, label: "One Week"},
		{key: "2w", kind: Weekly, weeks: 2, label: "Last 2 Weeks"},
		{key: "3w", kind: Weekly, weeks: 3, label: "Last 3 Weeks"},
		{key: "4w", kind: Weekly, weeks: 4, label: "Last 4 Weeks"},
	}
	for _, y := range []struct {
		prefix string
		offset int
	}{{"this", 0}, {"last", -1}} {
		for m := time.January; m <= time.December; m++ {
			defs = append(defs, def{
				key:        y.prefix + "-" + strings.ToLower(m.String()[:3]),
				kind:       Monthly,
				month:      m,
				yearOffset: y.offset,
			})
		}
	}
	return defs
}

// MonthThisYear returns the bucket for month m of the current year.
func MonthThisYear(m time.Month) Bucket {
	return Bucket(4 + int(m) - 1)
}

// MonthLastYear returns the bucket for month m of the previous year.
func MonthLastYear(m time.Month) Bucket {
	return Bucket(16 + int(m) - 1)
}

// All returns every bucket in declaration order.
func All() []Bucket {
	out := make([]Bucket, len(table))
	for i := range table {
		out[i] = Bucket(i)
	}
	return out
}

// Parse looks a bucket up by key ("2w", "this-mar", "last-dec").
func Parse(key string) (Bucket, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	for i, d := range table {
		if d.key == k {
			return Bucket(i), nil
		}
	}
	return 0, fmt.Errorf("unknown bucket %q", key)
}

// Valid reports whether b is one of the defined buckets.
func (b Bucket) Valid() bool {
	return b >= 0 && int(b) < len(table)
}

func (b Bucket) def() def {
	if !b.Valid() {
		panic(fmt.Sprintf("bucket: invalid bucket %d", int(b)))
	}
	return table[b]
}

// Key returns the stable identifier used on the command line and in config.
func (b Bucket) Key() string {
	return b.def().key
}

func (b Bucket) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Bucket(%d)", int(b))
	}
	return b.Key()
}

// Kind reports whether b is a weekly or monthly window.
func (b Bucket) Kind() Kind {
	return b.def().kind
}

// Month returns the calendar month of a monthly bucket, or 0.
func (b Bucket) Month() time.Month {
	return b.def().month
}

// Range returns the window as of now.
func (b Bucket) Range() Range {
	return b.RangeAt(time.Now())
}

// RangeAt returns the window as of now.
//
// Weekly windows start on the most recent Sunday at midnight, minus N-1
// whole weeks, and end at now. Monthly windows run from the first of the
// month at midnight to one second before the first of the next month.
func (b Bucket) RangeAt(now time.Time) Range {
	d := b.def()
	loc := now.Location()

	switch d.kind {
	case Weekly:
		todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		sinceSunday := int(now.Weekday())
		start := todayStart.AddDate(0, 0, -sinceSunday-7*(d.weeks-1))
		return Range{Start: start, End: now}
	default:
		year := now.Year() + d.yearOffset
		start := time.Date(year, d.month, 1, 0, 0, 0, 0, loc)
		next := time.Date(year, d.month+1, 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: next.Add(-time.Second)}
	}
}

// Label returns the display name as of now.
func (b Bucket) Label() string {
	return b.LabelAt(time.Now())
}

// LabelAt returns the display name. Monthly labels carry the year derived from now.
func (b Bucket) LabelAt(now time.Time) string {
	d := b.def()
	if d.kind == Weekly {
		return d.label
	}
	return fmt.Sprintf("%s %d", d.month, now.Year()+d.yearOffset)
}

// Offerable returns the buckets that make sense as of now.
func Offerable() []Bucket {
	return OfferableAt(time.Now())
}

// OfferableAt returns all weekly and last-year buckets plus the current
// year's months up to and including now's month, in declaration order.
func OfferableAt(now time.Time) []Bucket {
	out := make([]Bucket, 0, len(table))
	for i, d := range table {
		if d.kind == Monthly && d.yearOffset == 0 && d.month > now.Month() {
			continue
		}
		out = append(out, Bucket(i))
	}
	return out
}
