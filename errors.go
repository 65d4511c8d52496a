// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package dmdoc

import "errors"

var (
	// ErrUnknownSource is returned when no adapter is registered under a key.
	ErrUnknownSource = errors.New("unknown source type")
	// ErrUnknownFormat is returned when no renderer is registered under a key.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrLoad is returned when an adapter fails to build or parse a model.
	ErrLoad = errors.New("load model")
	// ErrRender is returned when a renderer fails.
	ErrRender = errors.New("render output")
	// ErrOutputIsDirectory is returned when the output path names a directory.
	ErrOutputIsDirectory = errors.New("output path is a directory")
	// ErrOutputExists is returned when the output file exists and overwrite is off.
	ErrOutputExists = errors.New("output file already exists")
	// ErrWriteOutput is returned when output cannot be written.
	ErrWriteOutput = errors.New("write output")
	// ErrDrift is returned by Check when rendered output differs from the file.
	ErrDrift = errors.New("output is out of date")
)
