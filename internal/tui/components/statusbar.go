package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/fitdex/internal/tui/theme"
)

// KeyHint is a key and what it does, shown in the status bar.
type KeyHint struct {
	Key  string
	Desc string
}

// DefaultHints lists the browser's global keys.
var DefaultHints = []KeyHint{
	{"j/k", "select"},
	{"u", "units"},
	{"r", "rescan"},
	{"?", "help"},
	{"q", "quit"},
}

// RenderStatusBar renders the bottom bar: key hints left, info right.
func RenderStatusBar(width int, hints []KeyHint, info string) string {
	t := theme.Active

	barStyle := lipgloss.NewStyle().Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Key).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	infoStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, keyStyle.Render(h.Key)+descStyle.Render(" "+h.Desc))
	}
	left := barStyle.Render(" ") + strings.Join(parts, barStyle.Render("  "))
	right := ""
	if info != "" {
		right = infoStyle.Render(info + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	return left + barStyle.Render(strings.Repeat(" ", padding)) + right
}
