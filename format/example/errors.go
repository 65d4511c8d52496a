// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package example

import "errors"

var (
	// ErrUnknownMode is returned when example generation mode is not supported.
	ErrUnknownMode = errors.New("unknown example mode")
	// ErrUnknownFormat is returned when example encoding format is not supported.
	ErrUnknownFormat = errors.New("unknown example format")
	// ErrUnknownTarget is returned when no entity or object has the requested name.
	ErrUnknownTarget = errors.New("unknown example target")
	// ErrEncodeJSON is returned when example JSON encoding fails.
	ErrEncodeJSON = errors.New("encode example json")
	// ErrEncodeYAML is returned when example YAML encoding fails.
	ErrEncodeYAML = errors.New("encode example yaml")
)
