package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/theirongolddev/fitdex/internal/bucket"
	"github.com/theirongolddev/fitdex/internal/config"
	"github.com/theirongolddev/fitdex/internal/tui"
	"github.com/theirongolddev/fitdex/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse activities interactively",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(appConfig.Appearance.Theme)

	// Force TrueColor so background styling always produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	sys, err := unitSystem()
	if err != nil {
		return err
	}

	key := appConfig.General.DefaultBucket
	if flagBucket != "" {
		key = flagBucket
	}
	preferred, err := bucket.Parse(key)
	if err != nil {
		return err
	}

	app := tui.NewApp(tui.Options{
		Dir:    dataDir(),
		Units:  sys,
		Bucket: preferred,
		Scan:   scanOptions(),
		Setup:  !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
