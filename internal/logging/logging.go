// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects level and outputs.
type Options struct {
	Level string

	// Console writes human-friendly lines to Stderr. Disable while a
	// full-screen UI owns the terminal.
	Console bool
	Stderr  io.Writer

	// File enables a rotating log file when non-empty.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Setup installs the global logger and returns a function that closes the
// log file, if any. An unknown level falls back to warn and is reported.
func Setup(opts Options) (func() error, error) {
	var levelErr error
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || opts.Level == "" {
		if opts.Level != "" {
			levelErr = fmt.Errorf("invalid log level %q, using warn", opts.Level)
		}
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var writers []io.Writer
	closeFn := func() error { return nil }

	if opts.Console {
		out := opts.Stderr
		if out == nil {
			out = os.Stderr
		}
		writers = append(writers, zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = out
			w.TimeFormat = time.Kitchen
		}))
	}

	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		writers = append(writers, lj)
		closeFn = lj.Close
	}

	var output io.Writer = io.Discard
	if len(writers) > 0 {
		output = io.MultiWriter(writers...)
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	return closeFn, levelErr
}
