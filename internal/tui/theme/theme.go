// Package theme defines color themes for the fitdex TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps UI roles and activity metrics to colors.
type Theme struct {
	Name         string
	Background   lipgloss.Color
	Surface      lipgloss.Color // cards and panes
	Selected     lipgloss.Color // selected range row
	Border       lipgloss.Color
	BorderFocus  lipgloss.Color
	TextDim      lipgloss.Color
	TextMuted    lipgloss.Color
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	Key          lipgloss.Color // key names in hints and help

	// Metric colors, shared by stat cards and charts.
	Distance lipgloss.Color
	Duration lipgloss.Color
	Calories lipgloss.Color
	Ascent   lipgloss.Color

	Warning lipgloss.Color // failed reads, overwritten timestamps
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	Selected:     lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderFocus:  lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Key:          lipgloss.Color("#24837B"),
	Distance:     lipgloss.Color("#4385BE"),
	Duration:     lipgloss.Color("#879A39"),
	Calories:     lipgloss.Color("#DA702C"),
	Ascent:       lipgloss.Color("#CE5D97"),
	Warning:      lipgloss.Color("#D0A215"),
}

// CatppuccinMocha uses the Mocha pastel palette.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	Selected:     lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderFocus:  lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Key:          lipgloss.Color("#94E2D5"),
	Distance:     lipgloss.Color("#89B4FA"),
	Duration:     lipgloss.Color("#A6E3A1"),
	Calories:     lipgloss.Color("#FAB387"),
	Ascent:       lipgloss.Color("#F5C2E7"),
	Warning:      lipgloss.Color("#F9E2AF"),
}

// TokyoNight uses the Tokyo Night storm palette.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	Selected:     lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderFocus:  lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Key:          lipgloss.Color("#7DCFFF"),
	Distance:     lipgloss.Color("#7AA2F7"),
	Duration:     lipgloss.Color("#9ECE6A"),
	Calories:     lipgloss.Color("#FF9E64"),
	Ascent:       lipgloss.Color("#BB9AF7"),
	Warning:      lipgloss.Color("#E0AF68"),
}

// Terminal sticks to the 16 ANSI colors.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	Selected:     lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderFocus:  lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Key:          lipgloss.Color("6"),
	Distance:     lipgloss.Color("4"),
	Duration:     lipgloss.Color("2"),
	Calories:     lipgloss.Color("3"),
	Ascent:       lipgloss.Color("5"),
	Warning:      lipgloss.Color("11"),
}

// All available themes, in the order the setup form offers them.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
