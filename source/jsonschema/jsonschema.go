// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

/*
Package jsonschema converts JSON Schema documents into data models.

Definitions under "$defs" or "definitions" map as follows:

  - the root "$ref" definition, or every name listed in Entities, becomes an entity;
  - other definitions with properties become shared objects;
  - definitions with an "enum" keyword become enums;
  - remaining definitions are inlined where referenced.

Inline object properties become synthesized objects named after their owner
and property, inline enums become synthesized enums. References between
entities are declared with vendor keywords:

	"x-references": [{"id_entity": "Users", "name": "customer",
	                  "mapping": [{"source": "user_id", "destination": "id"}]}]
	"user_id": {"type": "string", "x-reference": "Users.id"}

"x-key": true marks key fields, "x-aliases" lists alternative names.
*/
package jsonschema

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/woozymasta/dmdoc/model"
	"github.com/woozymasta/dmdoc/source"
)

// Key is the adapter registry key.
const Key = "jsonschema"

// Config is the adapter config section.
type Config struct {
	// Path is the schema file, JSON or YAML.
	Path string `yaml:"path"`
	// ID overrides the model identifier.
	ID string `yaml:"id"`
	// Name overrides the model display name.
	Name string `yaml:"name"`
	// Doc overrides the model description.
	Doc string `yaml:"doc"`
	// Root names the entity synthesized from root properties.
	Root string `yaml:"root"`
	// Entities lists definitions that become entities.
	Entities []string `yaml:"entities"`
	// Strict rejects untyped schemas.
	Strict bool `yaml:"strict"`
	// Constraints appends validation keywords and defaults to field docs.
	Constraints bool `yaml:"constraints"`
}

// Source converts a JSON Schema file.
type Source struct {
	logger *slog.Logger
	path   string
	opts   Options
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

	logger := params.Log()
	return &Source{
		logger: logger,
		path:   path,
		opts: Options{
			Logger:      logger,
			ID:          cfg.ID,
			Name:        cfg.Name,
			Doc:         cfg.Doc,
			Root:        cfg.Root,
			Entities:    cfg.Entities,
			Strict:      cfg.Strict,
			Constraints: cfg.Constraints,
		},
	}, nil
}

// Factory adapts New to source.Factory.
func Factory(params source.Params) (source.Source, error) {
	src, err := New(params)
	if err != nil {
		return nil, err
	}

	return src, nil
}

// Parse reads and converts the schema file.
func (s *Source) Parse(ctx context.Context) (*model.DataModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", source.ErrRead, err)
	}

	s.logger.Debug("converting JSON Schema", "path", s.path, "bytes", len(data))

	m, err := Convert(data, s.opts)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", source.ErrParse, s.path, err)
	}

	return m, nil
}
