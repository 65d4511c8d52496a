// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

// Package postgres documents a live PostgreSQL schema.
//
// Tables become entities, columns become fields and foreign keys become
// references. Enum types become enums. The adapter registers two extra leaf
// kinds, uuid and json, for columns of those types.
//
// Config section:
//
//	type: postgres
//	config:
//	  dsn: ${DATABASE_URL}
//	  schema: public
//	  exclude: [schema_migrations]
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/woozymasta/dmdoc/model"
	"github.com/woozymasta/dmdoc/source"
)

// Key is the registry key of the adapter.
const Key = "postgres"

// defaultSchema is used when the config names no schema.
const defaultSchema = "public"

// Leaf kinds contributed by the adapter.
const (
	KindUUID model.Kind = "uuid"
	KindJSON model.Kind = "json"
)

// Leaf types of the contributed kinds.
var (
	UUID model.Primitive
	JSON model.Primitive
)

func init() {
	model.MustRegisterKind(KindUUID)
	model.MustRegisterKind(KindJSON)

	UUID, _ = model.NewPrimitive(KindUUID)
	JSON, _ = model.NewPrimitive(KindJSON)
}

// Config is the adapter config section.
type Config struct {
	// DSN is a pgx connection string or URL.
	DSN string `yaml:"dsn"`
	// Schema defaults to public.
	Schema string `yaml:"schema"`
	// ID defaults to the schema name.
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// Doc defaults to the schema comment.
	Doc string `yaml:"doc"`
	// Exclude lists tables left out of the model.
	Exclude []string `yaml:"exclude"`
}

// Source reads one schema of a PostgreSQL database.
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

	cfg.DSN = strings.TrimSpace(cfg.DSN)
	if cfg.DSN == "" {
		return nil, source.Required("dsn")
	}

	cfg.Schema = strings.TrimSpace(cfg.Schema)
	if cfg.Schema == "" {
		cfg.Schema = defaultSchema
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

// Parse connects, reads the catalog and converts it.
func (s *Source) Parse(ctx context.Context) (*model.DataModel, error) {
	db, err := open(ctx, s.cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", source.ErrRead, err)
	}
	defer func() { _ = db.Close() }()

	cat, err := readCatalog(ctx, db, s.cfg.Schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", source.ErrRead, err)
	}

	s.logger.Debug("read postgres catalog", "schema", cat.Schema, "tables", len(cat.Tables), "enums", len(cat.Enums))

	m, err := buildDataModel(cat, s.cfg, s.logger)
	if err != nil {
		return nil, fmt.Errorf("%w schema %q: %w", source.ErrParse, cat.Schema, err)
	}

	return m, nil
}
