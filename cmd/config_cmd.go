// Package cmd implements the fitdex CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/fitdex/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appConfig

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory:  %s\n", dataDir())
	fmt.Printf("    Units:           %s\n", cfg.General.Units)
	fmt.Printf("    Default bucket:  %s\n", cfg.General.DefaultBucket)
	fmt.Println()

	fmt.Println("  [Scan]")
	if cfg.Scan.Workers > 0 {
		fmt.Printf("    Workers:         %d\n", cfg.Scan.Workers)
	} else {
		fmt.Println("    Workers:         auto")
	}
	fmt.Printf("    Prefix bytes:    %d\n", cfg.Scan.PrefixBytes)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:           %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Printf("    File:            %s (%d MB x %d, %d days)\n",
			cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays)
	} else {
		fmt.Println("    File:            none")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:           %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `fitdex setup` to reconfigure.")
	return nil
}
