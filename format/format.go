// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

/*
Package format defines the renderer contract that turns a validated data model
into a document.

Renderers never see an unvalidated model: they receive *model.Validated with
reverse references and object usages already computed. The "config" section of
a format configuration file reaches the renderer through Params.Decode.
*/
package format

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/woozymasta/dmdoc/model"
)

// Format renders a validated data model.
type Format interface {
	// Render writes the document for m to w.
	Render(w io.Writer, m *model.Validated) error
	// Extensions lists accepted output file extensions, the first is preferred.
	Extensions() []string
}

// Factory builds a Format from params.
type Factory func(params Params) (Format, error)

// Params carries everything a renderer factory needs.
type Params struct {
	// Decode decodes the renderer config section into a typed struct.
	Decode func(target any) error
	// Logger receives renderer diagnostics, nil discards them.
	Logger *slog.Logger
	// BaseDir is the directory relative config paths resolve against.
	BaseDir string
}

// DecodeConfig decodes the renderer config section into target.
func (p Params) DecodeConfig(target any) error {
	if p.Decode == nil {
		return nil
	}

	if err := p.Decode(target); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	return nil
}

// Path resolves path against BaseDir unless it is empty or absolute.
func (p Params) Path(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) || p.BaseDir == "" {
		return path
	}

	return filepath.Join(p.BaseDir, path)
}

// Log returns the configured logger or a discarding one.
func (p Params) Log() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return p.Logger
}

// CheckExtension reports ErrOutputExtension unless path ends with one of f's extensions.
func CheckExtension(f Format, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if slices.Contains(f.Extensions(), ext) {
		return nil
	}

	return fmt.Errorf("%w: %q, want one of %s", ErrOutputExtension, path, strings.Join(f.Extensions(), ", "))
}
