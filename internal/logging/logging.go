// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Options configures logger construction.
type Options struct {
	// Writer receives console output, nil means standard error.
	Writer io.Writer
	// File is an optional log file path, truncated on open.
	File string
	// Debug lowers the level to debug.
	Debug bool
	// NoColor disables colored level names even on a terminal.
	NoColor bool
}

// New builds a logger and returns a function that releases the log file.
func New(opts Options) (*slog.Logger, func() error, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	console := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr(!opts.NoColor && IsTerminal(writer)),
	})

	if opts.File == "" {
		return slog.New(console), func() error { return nil }, nil
	}

	file, err := os.Create(opts.File)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logFile := slog.NewTextHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(NewFanout(console, logFile)), file.Close, nil
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// replaceAttr drops timestamps and optionally colors level names.
func replaceAttr(colored bool) func([]string, slog.Attr) slog.Attr {
	paint := levelColors(colored)

	return func(groups []string, attr slog.Attr) slog.Attr {
		if len(groups) > 0 {
			return attr
		}

		switch attr.Key {
		case slog.TimeKey:
			return slog.Attr{}
		case slog.LevelKey:
			level, ok := attr.Value.Any().(slog.Level)
			if !ok {
				return attr
			}

			attr.Value = slog.StringValue(paint(level))
		}

		return attr
	}
}

// levelColors returns a level formatter.
func levelColors(enabled bool) func(slog.Level) string {
	palette := map[slog.Level]*color.Color{
		slog.LevelDebug: color.New(color.FgHiBlack),
		slog.LevelInfo:  color.New(color.FgGreen),
		slog.LevelWarn:  color.New(color.FgYellow),
		slog.LevelError: color.New(color.FgRed, color.Bold),
	}

	for _, c := range palette {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return func(level slog.Level) string {
		text := level.String()
		c, ok := palette[level]
		if !ok {
			return text
		}

		return c.Sprint(text)
	}
}
