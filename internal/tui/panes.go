package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/fitdex/internal/cli"
	"github.com/theirongolddev/fitdex/internal/model"
	"github.com/theirongolddev/fitdex/internal/pipeline"
	"github.com/theirongolddev/fitdex/internal/tui/components"
	"github.com/theirongolddev/fitdex/internal/tui/theme"
	"github.com/theirongolddev/fitdex/internal/units"
)

// renderBucketPane lists the offerable ranges with the cursor row highlighted.
func (a App) renderBucketPane(w, h int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(w)

	rowStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Width(innerW)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Selected).Bold(true).Width(innerW)
	sepStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	now := a.now()
	var b strings.Builder
	prevKind := -1
	for i, bk := range a.buckets {
		if k := int(bk.Kind()); prevKind >= 0 && k != prevKind {
			b.WriteString(sepStyle.Render(strings.Repeat("─", innerW)))
			b.WriteString("\n")
		}
		prevKind = int(bk.Kind())

		label := truncStr(bk.LabelAt(now), innerW-2)
		if i == a.cursor {
			b.WriteString(selStyle.Render("▸ " + label))
		} else {
			b.WriteString(rowStyle.Render("  " + label))
		}
		if i < len(a.buckets)-1 {
			b.WriteString("\n")
		}
	}

	body := scrollWindow(b.String(), a.cursorLine(), h-3)
	return components.ContentCard("Ranges", body, w, true)
}

// cursorLine is the rendered line of the cursor, counting separators.
func (a App) cursorLine() int {
	line := 0
	for i := 0; i < a.cursor && i < len(a.buckets); i++ {
		line++
		if a.buckets[i+1].Kind() != a.buckets[i].Kind() {
			line++
		}
	}
	return line
}

// scrollWindow keeps at most h lines of s with line visible.
func scrollWindow(s string, line, h int) string {
	lines := strings.Split(s, "\n")
	if h <= 0 || len(lines) <= h {
		return s
	}
	start := line - h/2
	if start < 0 {
		start = 0
	}
	if start+h > len(lines) {
		start = len(lines) - h
	}
	return strings.Join(lines[start:start+h], "\n")
}

// renderSummaryPane shows totals, a sparkline per metric and one row per
// activity in the selected range.
func (a App) renderSummaryPane(w, h int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(w)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	bk, ok := a.selected()
	if !ok {
		return components.ContentCard("Summary", muted.Render("No ranges offered."), w, false)
	}
	r := bk.RangeAt(a.now())
	title := fmt.Sprintf("%s  %s – %s", bk.LabelAt(a.now()),
		r.Start.Format("Jan 2"), r.End.Format("Jan 2, 2006"))

	if a.computing {
		return components.ContentCard(title, a.spinner.View()+muted.Render(" Reading activities..."), w, false)
	}
	if len(a.activities) == 0 {
		return components.ContentCard(title, muted.Render("No activities in this range."), w, false)
	}

	sys := a.units
	s := a.stats

	var b strings.Builder
	b.WriteString(components.StatCardRow([]components.Stat{
		{Label: "Activities", Value: cli.FormatNumber(int64(s.Activities))},
		{Label: "Distance", Value: fmt.Sprintf("%.1f", sys.Distance(s.Distance)), Unit: sys.DistanceUnit(), Color: t.Distance},
		{Label: "Time", Value: cli.FormatDuration(s.Duration), Color: t.Duration},
		{Label: "Calories", Value: cli.FormatNumber(s.Calories), Color: t.Calories},
		{Label: "Ascent", Value: fmt.Sprintf("%.0f", sys.Elevation(float64(s.Ascent))), Unit: sys.ElevationUnit(), Color: t.Ascent},
	}, innerW))
	b.WriteString("\n")

	b.WriteString(renderMetricCharts(a.activities, sys, innerW))
	b.WriteString("\n\n")

	b.WriteString(renderActivityRows(a.activities, sys, innerW))
	if s.FailedReads > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface).
			Render(fmt.Sprintf("%d files could not be summarized", s.FailedReads)))
	}

	return components.ContentCard(title, truncateHeight(b.String(), h-3), w, false)
}

var metricLabels = map[model.Metric]string{
	model.MetricDistance: "Distance",
	model.MetricCalories: "Calories",
	model.MetricDuration: "Duration",
	model.MetricSpeed:    "Speed",
	model.MetricAscent:   "Ascent",
	model.MetricDescent:  "Descent",
}

// metricDisplay converts a base-unit metric value to the display system and
// formats it with its unit.
func metricDisplay(m model.Metric, v float64, sys units.System) (float64, string) {
	switch m {
	case model.MetricDistance:
		return sys.Distance(v), cli.FormatDistance(v, sys)
	case model.MetricCalories:
		return v, cli.FormatNumber(int64(v)) + " kcal"
	case model.MetricDuration:
		return units.Minutes(v), cli.FormatDuration(v)
	case model.MetricSpeed:
		return sys.Speed(v), cli.FormatSpeed(v, sys)
	case model.MetricAscent, model.MetricDescent:
		return sys.Elevation(v), cli.FormatElevation(v, sys)
	}
	return v, fmt.Sprintf("%.1f", v)
}

func metricColor(m model.Metric, t theme.Theme) lipgloss.Color {
	switch m {
	case model.MetricDistance:
		return t.Distance
	case model.MetricCalories:
		return t.Calories
	case model.MetricDuration:
		return t.Duration
	case model.MetricAscent, model.MetricDescent:
		return t.Ascent
	}
	return t.Accent
}

// renderMetricCharts draws one sparkline per metric, oldest activity first,
// followed by the range's peak value.
func renderMetricCharts(acts []model.Activity, sys units.System, w int) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	peakStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	const labelW, peakW = 9, 18
	chartW := max(w-labelW-peakW, 4)

	lines := make([]string, 0, len(model.AllMetrics))
	for _, m := range model.AllMetrics {
		series := pipeline.MetricSeries(acts, m)
		values := make([]float64, len(series))
		var peak float64
		for i, p := range series {
			values[i], _ = metricDisplay(m, p.Value, sys)
			peak = max(peak, p.Value)
		}
		_, peakText := metricDisplay(m, peak, sys)

		spark := components.Sparkline(values, chartW, metricColor(m, t))
		gap := chartW - lipgloss.Width(spark)
		line := label.Render(fmt.Sprintf("%-*s", labelW, metricLabels[m])) + spark +
			label.Render(strings.Repeat(" ", max(gap, 0))) +
			peakStyle.Render(truncStr(" peak "+peakText, peakW))
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderActivityRows renders the newest activities first, each with a
// distance bar relative to the longest one.
func renderActivityRows(acts []model.Activity, sys units.System, w int) string {
	t := theme.Active
	head := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	const format = "%-16s %10s %6s %8s %10s %7s %7s"
	const barW = 10
	gap := lipgloss.NewStyle().Background(t.Surface).Render(" ")
	var longest float64
	for _, act := range acts {
		longest = max(longest, act.Stats.Distance)
	}

	var b strings.Builder
	b.WriteString(head.Render(truncStr(fmt.Sprintf(format,
		"Date & Time", "Dist", "Cal", "Time", "Speed", "Asc", "Des"), w)))
	for i := len(acts) - 1; i >= 0; i-- {
		act := acts[i]
		line := fmt.Sprintf(format,
			cli.FormatTimestamp(act.Time),
			cli.FormatDistance(act.Stats.Distance, sys),
			cli.FormatNumber(int64(act.Stats.Calories)),
			cli.FormatDuration(act.Stats.Duration),
			cli.FormatSpeed(act.Stats.AvgSpeed, sys),
			cli.FormatElevation(float64(act.Stats.Ascent), sys),
			cli.FormatElevation(float64(act.Stats.Descent), sys),
		)
		style := row
		if act.Err != nil {
			style = dim
		}
		b.WriteString("\n")
		b.WriteString(style.Render(truncStr(line, w-barW-1)))
		b.WriteString(gap)
		b.WriteString(components.HBar(act.Stats.Distance, longest, barW, t.Distance))
	}
	return b.String()
}
