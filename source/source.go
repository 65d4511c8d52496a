// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

/*
Package source defines the adapter contract that turns an external system
description into a model.DataModel.

Adapters are constructed by a Factory from Params. The "config" section of a
source configuration file reaches the adapter through Params.Decode, so every
adapter owns a typed config struct:

	type Config struct {
		Path string `yaml:"path"`
	}

	func New(params source.Params) (*Source, error) {
		var cfg Config
		if err := params.DecodeConfig(&cfg); err != nil {
			return nil, err
		}
		...
	}
*/
package source

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/woozymasta/dmdoc/model"
)

// Source parses a data model from an external system.
type Source interface {
	Parse(ctx context.Context) (*model.DataModel, error)
}

// Factory builds a Source from params.
type Factory func(params Params) (Source, error)

// Params carries everything an adapter factory needs.
type Params struct {
	// Decode decodes the adapter config section into a typed struct.
	Decode func(target any) error
	// Logger receives adapter diagnostics, nil discards them.
	Logger *slog.Logger
	// BaseDir is the directory relative config paths resolve against.
	BaseDir string
}

// DecodeConfig decodes the adapter config section into target.
// A missing decoder leaves target untouched.
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
