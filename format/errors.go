// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package format

import "errors"

var (
	// ErrConfig is returned when renderer configuration is invalid.
	ErrConfig = errors.New("invalid format config")
	// ErrOutputExtension is returned when an output path does not fit the renderer.
	ErrOutputExtension = errors.New("unsupported output extension")
)
