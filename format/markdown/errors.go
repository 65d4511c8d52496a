// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package markdown

import "errors"

var (
	// ErrExecuteTemplate is returned when markdown template execution fails.
	ErrExecuteTemplate = errors.New("execute markdown template")
	// ErrUnknownTemplate is returned when requested built-in template name is not registered.
	ErrUnknownTemplate = errors.New("unknown built-in template")
	// ErrReadTemplate is returned when a template file cannot be loaded.
	ErrReadTemplate = errors.New("read markdown template")
	// ErrParseTemplate is returned when template text does not parse.
	ErrParseTemplate = errors.New("parse markdown template")
	// ErrEntityFilter is returned when the entity filter expression fails.
	ErrEntityFilter = errors.New("entity filter")
	// ErrExample is returned when an embedded example cannot be generated.
	ErrExample = errors.New("embed example")
)
