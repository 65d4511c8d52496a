// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package postgres

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/woozymasta/dmdoc/model"
)

// builtinTypes maps built-in type names to data types.
var builtinTypes = map[string]model.DataType{
	"bool":        model.Boolean,
	"int2":        model.Integer,
	"int4":        model.Integer,
	"int8":        model.Integer,
	"oid":         model.Integer,
	"float4":      model.Number,
	"float8":      model.Number,
	"numeric":     model.Number,
	"money":       model.Number,
	"bytea":       model.Bytes,
	"text":        model.String,
	"varchar":     model.String,
	"bpchar":      model.String,
	"char":        model.String,
	"name":        model.String,
	"citext":      model.String,
	"inet":        model.String,
	"cidr":        model.String,
	"macaddr":     model.String,
	"macaddr8":    model.String,
	"interval":    model.String,
	"xml":         model.String,
	"bit":         model.String,
	"varbit":      model.String,
	"tsvector":    model.String,
	"date":        model.Date,
	"timestamp":   model.DateTime,
	"timestamptz": model.DateTime,
	"time":        model.Time,
	"timetz":      model.Time,
}

// buildDataModel converts a catalog snapshot.
// Foreign keys to excluded tables are dropped with a warning.
func buildDataModel(cat *catalog, cfg Config, logger *slog.Logger) (*model.DataModel, error) {
	id := cfg.ID
	if id == "" {
		id = cat.Schema
	}

	doc := cfg.Doc
	if doc == "" {
		doc = cat.Comment
	}

	builder := model.NewBuilder(id).SetName(cfg.Name).SetDoc(doc)

	tables := make([]table, 0, len(cat.Tables))
	for _, item := range cat.Tables {
		if slices.Contains(cfg.Exclude, item.Name) {
			logger.Debug("skipping excluded table", "table", item.Name)
			continue
		}

		tables = append(tables, item)
	}

	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoTables, cat.Schema)
	}

	for _, item := range tables {
		entity, err := tableEntity(item, cfg.Exclude, logger)
		if err != nil {
			return nil, err
		}

		if err := builder.AddEntity(entity); err != nil {
			return nil, err
		}
	}

	for _, item := range cat.Enums {
		values := make([]model.EnumValue, 0, len(item.Labels))
		for _, label := range item.Labels {
			values = append(values, model.EnumValue{Name: label, Value: label})
		}

		enum, err := model.NewEnum(item.Name, values, model.WithDoc(item.Comment))
		if err != nil {
			return nil, err
		}

		if err := builder.AddEnum(enum); err != nil {
			return nil, err
		}
	}

	return builder.Build()
}

// tableEntity converts one table with its keys.
func tableEntity(item table, exclude []string, logger *slog.Logger) (*model.Entity, error) {
	fields := make([]model.Field, 0, len(item.Columns))
	for _, col := range item.Columns {
		dataType, err := columnType(col)
		if err != nil {
			return nil, fmt.Errorf("column %q.%q: %w", item.Name, col.Name, err)
		}

		fields = append(fields, model.Field{
			Name:       col.Name,
			Type:       dataType,
			Doc:        col.Comment,
			IsKey:      slices.Contains(item.PrimaryKey, col.Name),
			IsRequired: col.NotNull,
		})
	}

	references := make([]model.EntityReference, 0, len(item.ForeignKeys))
	for _, key := range item.ForeignKeys {
		if slices.Contains(exclude, key.Table) {
			logger.Warn("dropping foreign key to excluded table", "table", item.Name, "constraint", key.Name, "target", key.Table)
			continue
		}

		mapping := make([]model.FieldReference, 0, len(key.Columns))
		for i, source := range key.Columns {
			mapping = append(mapping, model.FieldReference{Source: source, Destination: key.RefColumns[i]})
		}

		references = append(references, model.EntityReference{IDEntity: key.Table, Name: key.Name, Mapping: mapping})
	}

	return model.NewEntity(item.Name, fields, model.WithDoc(item.Comment), model.WithReferences(references...))
}

// columnType maps a column type, wrapping array element types.
func columnType(col column) (model.DataType, error) {
	if col.Element != "" {
		items, err := scalarType(col.Element, col.ElementKind)
		if err != nil {
			return nil, err
		}

		return model.Array{Items: items}, nil
	}

	return scalarType(col.Type, col.TypeKind)
}

// scalarType maps a non-array type name.
func scalarType(name, kind string) (model.DataType, error) {
	if kind == "e" {
		return model.EnumRef{ID: name}, nil
	}

	switch name {
	case "uuid":
		return UUID, nil
	case "json", "jsonb":
		return JSON, nil
	}

	if dataType, ok := builtinTypes[name]; ok {
		return dataType, nil
	}

	return nil, &model.TypeResolutionError{Reason: "unsupported column type " + name}
}
