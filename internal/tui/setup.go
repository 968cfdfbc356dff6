package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/theirongolddev/fitdex/internal/bucket"
	"github.com/theirongolddev/fitdex/internal/config"
	"github.com/theirongolddev/fitdex/internal/tui/theme"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	DataDir string
	Units   string
	Bucket  string
	Theme   string
}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		DataDir: cfg.General.DataDir,
		Units:   cfg.General.Units,
		Bucket:  cfg.General.DefaultBucket,
		Theme:   cfg.Appearance.Theme,
	}
}

// Apply copies the answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) {
	cfg.General.DataDir = strings.TrimSpace(v.DataDir)
	cfg.General.Units = v.Units
	cfg.General.DefaultBucket = v.Bucket
	cfg.Appearance.Theme = v.Theme
}

// NewSetupForm builds the first-run form. fileCount and dir describe what
// the current scan found and are shown in the intro note.
func NewSetupForm(fileCount int, dir string, vals *SetupValues) *huh.Form {
	intro := "No activity files found yet."
	if fileCount > 0 {
		intro = fmt.Sprintf("Found %d activity files in %s.", fileCount, dir)
	}

	bucketOpts := make([]huh.Option[string], 0, 4)
	for _, b := range bucket.All() {
		if b.Kind() == bucket.Weekly {
			bucketOpts = append(bucketOpts, huh.NewOption(b.String(), b.Key()))
		}
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to fitdex").
				Description(intro),
			huh.NewInput().
				Title("Activity directory").
				Description("Scanned when --dir is not given. Leave blank for the working directory.").
				Value(&vals.DataDir),
			huh.NewSelect[string]().
				Title("Units").
				Options(
					huh.NewOption("Metric (km, km/h, m)", "metric"),
					huh.NewOption("US (mi, mph, ft)", "us"),
				).
				Value(&vals.Units),
			huh.NewSelect[string]().
				Title("Default range").
				Options(bucketOpts...).
				Value(&vals.Bucket),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithShowHelp(true)
}
