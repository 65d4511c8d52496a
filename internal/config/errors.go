// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package config

import "errors"

var (
	// ErrConfigExtension is returned for configuration files without .yaml/.yml extension.
	ErrConfigExtension = errors.New("configuration file is not a YAML file")
	// ErrConfigNotFile is returned when configuration path is not a regular file.
	ErrConfigNotFile = errors.New("configuration path is not a file")
	// ErrReadConfig is returned when configuration file cannot be read.
	ErrReadConfig = errors.New("read configuration")
	// ErrParseConfig is returned when configuration file cannot be decoded.
	ErrParseConfig = errors.New("parse configuration")
	// ErrMissingKey is returned when a mandatory configuration key is absent.
	ErrMissingKey = errors.New("missing required configuration key")
)
