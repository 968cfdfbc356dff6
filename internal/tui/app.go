// Package tui provides the interactive Bubble Tea browser for fitdex.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/theirongolddev/fitdex/internal/bucket"
	"github.com/theirongolddev/fitdex/internal/cli"
	"github.com/theirongolddev/fitdex/internal/config"
	"github.com/theirongolddev/fitdex/internal/model"
	"github.com/theirongolddev/fitdex/internal/pipeline"
	"github.com/theirongolddev/fitdex/internal/tui/components"
	"github.com/theirongolddev/fitdex/internal/tui/theme"
	"github.com/theirongolddev/fitdex/internal/units"
)

// DataLoadedMsg is sent when a directory scan finishes.
type DataLoadedMsg struct {
	Result   *pipeline.ScanResult
	LoadTime time.Duration
}

// ProgressMsg reports indexing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// StatsLoadedMsg carries the session summaries for one bucket.
type StatsLoadedMsg struct {
	Bucket     bucket.Bucket
	Gen        int
	Activities []model.Activity
}

// Options configures a new App.
type Options struct {
	Dir    string
	Units  units.System
	Bucket bucket.Bucket // preselected when offerable
	Scan   pipeline.Options

	// Setup shows the first-run form once the scan completes.
	Setup bool
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	scan     *pipeline.ScanResult
	loaded   bool
	loadTime time.Duration

	// Bucket browser
	buckets    []bucket.Bucket
	cursor     int
	preferred  bucket.Bucket
	activities []model.Activity
	stats      model.SummaryStats
	computing  bool
	gen        int // bumped on every request; stale StatsLoadedMsg are dropped

	units units.System

	// UI state
	width    int
	height   int
	showHelp bool

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool
	saveErr   error

	// Loading: progress arrives on loadSub
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg

	dir  string
	opts pipeline.Options
	now  func() time.Time
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
	bucketPaneWidth  = 30
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		dir:       opts.Dir,
		opts:      opts.Scan,
		units:     opts.Units,
		preferred: opts.Bucket,
		needSetup: opts.Setup,
		spinner:   sp,
		loadSub:   make(chan tea.Msg, 1),
		now:       time.Now,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.dir, a.opts, a.loadSub),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			return a.moveCursor(1)
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.loaded {
			return a, nil
		}

		// Setup form intercepts all keys
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "j", "down":
			return a.moveCursor(1)
		case "k", "up":
			return a.moveCursor(-1)
		case "g", "home":
			return a.moveCursor(-len(a.buckets))
		case "G", "end":
			return a.moveCursor(len(a.buckets))
		case "u":
			a.units = a.units.Toggle()
			return a.requestStats()
		case "r":
			return a.rescan()
		}
		return a, nil

	case DataLoadedMsg:
		a.scan = msg.Result
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.rebuildBuckets()

		if a.needSetup {
			a.needSetup = false
			a.setupVals = SetupValuesFrom(loadConfigOrDefault())
			a.setupForm = NewSetupForm(a.scan.TotalFiles, a.dir, &a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			next, cmd := a.requestStats()
			return next, tea.Batch(cmd, a.setupForm.Init())
		}
		return a.requestStats()

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case StatsLoadedMsg:
		if msg.Gen != a.gen {
			return a, nil
		}
		a.activities = msg.Activities
		a.stats = pipeline.Aggregate(msg.Activities)
		a.computing = false
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.computing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

// rebuildBuckets recomputes the offerable list and keeps the selection on
// the same bucket when it is still offered.
func (a *App) rebuildBuckets() {
	selected := a.preferred
	if a.cursor >= 0 && a.cursor < len(a.buckets) {
		selected = a.buckets[a.cursor]
	}
	a.buckets = bucket.OfferableAt(a.now())
	a.cursor = 0
	for i, b := range a.buckets {
		if b == selected {
			a.cursor = i
			break
		}
	}
}

func (a App) selected() (bucket.Bucket, bool) {
	if a.cursor < 0 || a.cursor >= len(a.buckets) {
		return 0, false
	}
	return a.buckets[a.cursor], true
}

func (a App) moveCursor(delta int) (tea.Model, tea.Cmd) {
	next := a.cursor + delta
	if next < 0 {
		next = 0
	}
	if next > len(a.buckets)-1 {
		next = len(a.buckets) - 1
	}
	if next == a.cursor || next < 0 {
		return a, nil
	}
	a.cursor = next
	return a.requestStats()
}

// requestStats starts extracting session summaries for the selected bucket.
func (a App) requestStats() (tea.Model, tea.Cmd) {
	b, ok := a.selected()
	if !ok || a.scan == nil {
		return a, nil
	}
	a.gen++
	a.computing = true
	r := b.RangeAt(a.now())
	return a, tea.Batch(statsCmd(a.scan, a.opts, b, r, a.gen), a.spinner.Tick)
}

func (a App) rescan() (tea.Model, tea.Cmd) {
	a.loaded = false
	a.progress = 0
	a.progressMax = 0
	a.gen++
	a.computing = false
	return a, tea.Batch(loadDataCmd(a.dir, a.opts, a.loadSub), a.spinner.Tick)
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.saveErr = a.saveSetupConfig()
		a.setupForm = nil
		return a.requestStats()
	case huh.StateAborted:
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a *App) saveSetupConfig() error {
	cfg := loadConfigOrDefault()
	a.setupVals.Apply(&cfg)
	theme.SetActive(cfg.Appearance.Theme)
	if sys, err := units.Parse(cfg.General.Units); err == nil {
		a.units = sys
	}
	if err := config.Save(cfg); err != nil {
		log.Warn().Err(err).Msg("could not save config")
		return err
	}
	return nil
}

// loadConfigOrDefault loads config, returning defaults on error.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  fitdex needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	w := a.width
	h := a.height

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ fitdex"))
	b.WriteString(subtitleStyle.Render(" · " + truncStr(a.dir, 40)))
	b.WriteString("\n\n")

	b.WriteString(a.spinner.View())
	if a.progressMax > 0 {
		barW := 40
		if barW > w-30 {
			barW = w - 30
		}
		if barW < 20 {
			barW = 20
		}
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(subtitleStyle.Render(" Indexing activity files\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(subtitleStyle.Render(" Discovering activity files..."))
	}

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Key).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	bindings := []struct{ key, desc string }{
		{"j k ↑ ↓", "Select range"},
		{"g G", "First / last range"},
		{"u", "Toggle metric / US units"},
		{"r", "Rescan the directory"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := a.renderHeader(w)

	info := fmt.Sprintf("%s files · %s indexed · %.1fs",
		cli.FormatNumber(int64(a.scan.TotalFiles)),
		cli.FormatNumber(int64(a.scan.Index.Len())),
		a.loadTime.Seconds())
	statusBar := components.RenderStatusBar(w, components.DefaultHints, info)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	left := a.renderBucketPane(bucketPaneWidth, contentH)
	right := a.renderSummaryPane(cw-bucketPaneWidth, contentH)
	content := components.CardRow([]string{left, right})

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderHeader(w int) string {
	t := theme.Active
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	pill := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	s := logo.Render(" ◈ fitdex ") +
		pill.Render("│ ") + accent.Render(truncStr(a.dir, 50)) +
		pill.Render(" │ ") + accent.Render(a.units.String())
	if a.saveErr != nil {
		s += pill.Render(" │ ") + lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface).
			Render("config not saved")
	}
	return lipgloss.NewStyle().Background(t.Surface).Width(w).Render(s)
}

// loadDataCmd starts indexing in a background goroutine.
// It streams ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(dir string, opts pipeline.Options, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so workers aren't stalled; a dropped
			// update is superseded by the next one.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			result := pipeline.BuildIndex(dir, opts, progressFn)
			sub <- DataLoadedMsg{Result: result, LoadTime: time.Since(start)}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// statsCmd reads the session summary of every activity in r.
func statsCmd(scan *pipeline.ScanResult, opts pipeline.Options, b bucket.Bucket, r bucket.Range, gen int) tea.Cmd {
	return func() tea.Msg {
		entries := scan.Index.InRange(r.Start, r.End)
		acts := pipeline.CollectStats(entries, opts.Extractor(), opts.Workers)
		return StatsLoadedMsg{Bucket: b, Gen: gen, Activities: acts}
	}
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
