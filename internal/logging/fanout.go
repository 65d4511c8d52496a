// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package logging

import (
	"context"
	"errors"
	"log/slog"
)

// Fanout is a slog.Handler that forwards every record to all handlers.
type Fanout struct {
	handlers []slog.Handler
}

// NewFanout returns a handler forwarding to handlers.
func NewFanout(handlers ...slog.Handler) *Fanout {
	return &Fanout{handlers: handlers}
}

// Enabled reports whether any handler accepts level.
func (f *Fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range f.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

// Handle forwards record to every handler enabled for its level.
func (f *Fanout) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range f.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}

		if err := handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// WithAttrs returns a fanout whose handlers carry attrs.
func (f *Fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, 0, len(f.handlers))
	for _, handler := range f.handlers {
		handlers = append(handlers, handler.WithAttrs(attrs))
	}

	return &Fanout{handlers: handlers}
}

// WithGroup returns a fanout whose handlers open group name.
func (f *Fanout) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, 0, len(f.handlers))
	for _, handler := range f.handlers {
		handlers = append(handlers, handler.WithGroup(name))
	}

	return &Fanout{handlers: handlers}
}
