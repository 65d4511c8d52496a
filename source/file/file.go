// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

// Package file reads a data model stored in its YAML or JSON wire form.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/woozymasta/dmdoc/model"
	"github.com/woozymasta/dmdoc/source"
)

// Key is the adapter registry key.
const Key = "file"

// Config is the adapter config section.
type Config struct {
	// Path is the model file, relative to the config file directory.
	Path string `yaml:"path"`
}

// Source reads a model file.
type Source struct {
	logger *slog.Logger
	path   string
}

// New builds a Source from params.
func New(params source.Params) (*Source, error) {
	var cfg Config
	if err := params.DecodeConfig(&cfg); err != nil {
		return nil, err
	}

	path := params.Path(cfg.Path)
	if path == "" {
		return nil, source.Required("path")
	}

	return &Source{logger: params.Log(), path: path}, nil
}

// Factory adapts New to source.Factory.
func Factory(params source.Params) (source.Source, error) {
	src, err := New(params)
	if err != nil {
		return nil, err
	}

	return src, nil
}

// Parse reads and decodes the model file.
func (s *Source) Parse(ctx context.Context) (*model.DataModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", source.ErrRead, err)
	}
	defer func() { _ = f.Close() }()

	s.logger.Debug("decoding model file", "path", s.path)

	m, err := model.DecodeYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", source.ErrParse, s.path, err)
	}

	return m, nil
}
