// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package dmdoc

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/woozymasta/dmdoc/format"
	"github.com/woozymasta/dmdoc/format/example"
	"github.com/woozymasta/dmdoc/format/export"
	"github.com/woozymasta/dmdoc/format/markdown"
	"github.com/woozymasta/dmdoc/source"
	"github.com/woozymasta/dmdoc/source/file"
	"github.com/woozymasta/dmdoc/source/gostruct"
	"github.com/woozymasta/dmdoc/source/jsonschema"
	"github.com/woozymasta/dmdoc/source/postgres"
)

// sources maps adapter keys to factories.
var sources = map[string]source.Factory{
	file.Key:       file.Factory,
	gostruct.Key:   gostruct.Factory,
	jsonschema.Key: jsonschema.Factory,
	postgres.Key:   postgres.Factory,
}

// formats maps renderer keys to factories.
var formats = map[string]format.Factory{
	example.Key:  example.Factory,
	export.Key:   export.Factory,
	markdown.Key: markdown.Factory,
}

// SourceKeys returns registered adapter keys, sorted.
func SourceKeys() []string {
	return slices.Sorted(maps.Keys(sources))
}

// FormatKeys returns registered renderer keys, sorted.
func FormatKeys() []string {
	return slices.Sorted(maps.Keys(formats))
}

// NewSource builds the adapter registered under key.
func NewSource(key string, params source.Params) (source.Source, error) {
	factory, ok := sources[strings.TrimSpace(key)]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownSource, key, strings.Join(SourceKeys(), ", "))
	}

	return factory(params)
}

// NewFormat builds the renderer registered under key.
func NewFormat(key string, params format.Params) (format.Format, error) {
	factory, ok := formats[strings.TrimSpace(key)]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownFormat, key, strings.Join(FormatKeys(), ", "))
	}

	return factory(params)
}
