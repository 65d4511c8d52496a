// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package gostruct

import "errors"

var (
	// ErrPackagePattern is returned when the pattern does not match exactly one package.
	ErrPackagePattern = errors.New("package pattern must match exactly one package")
	// ErrUnknownType is returned for configured entity names that are not struct types.
	ErrUnknownType = errors.New("unknown struct type")
	// ErrNoStructs is returned when the package declares no exported struct.
	ErrNoStructs = errors.New("package declares no exported struct types")
	// ErrInvalidReference is returned for malformed ref tag options.
	ErrInvalidReference = errors.New("invalid ref tag option, want Entity.field or table:column")
)
