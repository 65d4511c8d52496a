// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package server

import "errors"

var (
	// ErrListen is returned when the HTTP listener fails.
	ErrListen = errors.New("listen")
	// ErrGops is returned when the gops diagnostics agent cannot start.
	ErrGops = errors.New("start gops agent")
)
