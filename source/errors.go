// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package source

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is returned when adapter configuration is invalid.
	ErrConfig = errors.New("invalid source config")
	// ErrRead is returned when adapter input cannot be read.
	ErrRead = errors.New("read source")
	// ErrParse is returned when adapter input cannot be converted into a data model.
	ErrParse = errors.New("parse source")
)

// Required reports a missing mandatory config key.
func Required(key string) error {
	return fmt.Errorf("%w: %q is required", ErrConfig, key)
}
