// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

/*
Package gostruct introspects Go struct types of a package into a data model.

Exported structs with a TableName method become entities (all exported structs
when none has one), nested named structs become shared objects and named basic
types with declared constants become enums. Field names follow the json tag,
docs come from comments.

Field tags refine the mapping:

	ID     int64  `json:"id" db:"pk"`
	UserID string `json:"user_id" dmdoc:"ref=User.id,name=customer"`
	Token  any    `json:"token" dmdoc:"type=string,optional"`

The adapter tag understands key, required, optional, "-", ref=Entity.field,
name=<reference name>, type=<type shorthand> and field=<name>.
*/
package gostruct

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/woozymasta/dmdoc/model"
	"github.com/woozymasta/dmdoc/source"
)

const (
	// Key is the adapter registry key.
	Key = "gostruct"

	// defaultTag is the struct tag key read by the adapter.
	defaultTag = "dmdoc"
)

// loadMode is the package information needed for conversion.
const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo

// Config is the adapter config section.
type Config struct {
	// Package is the package pattern, "." when empty.
	Package string `yaml:"package"`
	// Dir is the directory the pattern is resolved in.
	Dir string `yaml:"dir"`
	// ID overrides the model identifier, the package name by default.
	ID string `yaml:"id"`
	// Name is the model display name.
	Name string `yaml:"name"`
	// Doc overrides the package doc comment.
	Doc string `yaml:"doc"`
	// Tag is the struct tag key, "dmdoc" by default.
	Tag string `yaml:"tag"`
	// Entities lists struct type names that become entities.
	Entities []string `yaml:"entities"`
}

// Source loads a Go package and converts its types.
type Source struct {
	logger *slog.Logger
	cfg    Config
}

// New builds a Source from params.
func New(params source.Params) (*Source, error) {
	var cfg Config
	if err := params.DecodeConfig(&cfg); err != nil {
		return nil, err
	}

	cfg.Package = strings.TrimSpace(cfg.Package)
	if cfg.Package == "" {
		cfg.Package = "."
	}

	cfg.Dir = params.Path(cfg.Dir)
	if cfg.Dir == "" {
		cfg.Dir = params.BaseDir
	}

	cfg.Tag = strings.TrimSpace(cfg.Tag)
	if cfg.Tag == "" {
		cfg.Tag = defaultTag
	}

	return &Source{logger: params.Log(), cfg: cfg}, nil
}

// Factory adapts New to source.Factory.
func Factory(params source.Params) (source.Source, error) {
	src, err := New(params)
	if err != nil {
		return nil, err
	}

	return src, nil
}

// Parse loads the package and converts its struct types.
func (s *Source) Parse(ctx context.Context) (*model.DataModel, error) {
	pkg, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("converting Go package", "package", pkg.PkgPath, "files", len(pkg.GoFiles))

	m, err := newConverter(pkg, s.cfg.Tag, s.logger).convert(s.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", source.ErrParse, pkg.PkgPath, err)
	}

	return m, nil
}

// load runs the package loader and checks for errors.
func (s *Source) load(ctx context.Context) (*packages.Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     s.cfg.Dir,
	}

	pkgs, err := packages.Load(cfg, s.cfg.Package)
	if err != nil {
		return nil, fmt.Errorf("%w: load package %q: %w", source.ErrRead, s.cfg.Package, err)
	}

	if len(pkgs) != 1 {
		return nil, fmt.Errorf("%w: pattern %q matched %d packages", ErrPackagePattern, s.cfg.Package, len(pkgs))
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		errs := make([]error, 0, len(pkg.Errors))
		for _, loadErr := range pkg.Errors {
			errs = append(errs, loadErr)
		}

		return nil, fmt.Errorf("%w: package %q: %w", source.ErrRead, s.cfg.Package, errors.Join(errs...))
	}

	return pkg, nil
}
