// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package export

import "errors"

var (
	// ErrUnknownEncoding is returned for output encodings other than yaml and json.
	ErrUnknownEncoding = errors.New("unknown export encoding")
	// ErrEncode is returned when the model wire form cannot be encoded.
	ErrEncode = errors.New("encode model")
)
