// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package jsonschema

import "errors"

var (
	// ErrEmptySchema is returned when schema input is empty.
	ErrEmptySchema = errors.New("schema input is empty")
	// ErrDecodeSchema is returned when schema input is neither JSON nor YAML.
	ErrDecodeSchema = errors.New("decode schema")
	// ErrSchemaNotObject is returned when the schema root is not an object.
	ErrSchemaNotObject = errors.New("schema root must be an object")
	// ErrNoEntity is returned when no definition can become an entity.
	ErrNoEntity = errors.New("schema has no root definition, set entities explicitly")
	// ErrUnknownDefinition is returned for entity names missing from $defs.
	ErrUnknownDefinition = errors.New("unknown schema definition")
	// ErrInvalidReference is returned for malformed x-references or x-reference keywords.
	ErrInvalidReference = errors.New("invalid reference keyword")
)
