// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package postgres

import "errors"

var (
	// ErrConnect is returned when the database cannot be opened or pinged.
	ErrConnect = errors.New("connect to postgres")
	// ErrQueryCatalog is returned when a catalog query fails.
	ErrQueryCatalog = errors.New("query postgres catalog")
	// ErrUnknownSchema is returned when the configured schema does not exist.
	ErrUnknownSchema = errors.New("unknown schema")
	// ErrNoTables is returned when the schema has no tables to document.
	ErrNoTables = errors.New("schema has no tables")
)
