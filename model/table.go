// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package model

import (
	"iter"
	"slices"
)

// Table is a read-only name to value mapping that preserves insertion order.
type Table[V any] struct {
	keys  []string
	items map[string]V
}

// newTable returns empty table with capacity hint.
func newTable[V any](capacity int) Table[V] {
	return Table[V]{
		keys:  make([]string, 0, capacity),
		items: make(map[string]V, capacity),
	}
}

// add inserts value under name and reports false when name already exists.
func (table *Table[V]) add(name string, value V) bool {
	if table.items == nil {
		table.items = make(map[string]V)
	}

	if _, exists := table.items[name]; exists {
		return false
	}

	table.keys = append(table.keys, name)
	table.items[name] = value
	return true
}

// clone returns independent copy of table index.
func (table Table[V]) clone() Table[V] {
	out := newTable[V](len(table.keys))
	for _, key := range table.keys {
		out.add(key, table.items[key])
	}

	return out
}

// Len returns number of entries.
func (table Table[V]) Len() int {
	return len(table.keys)
}

// Get returns value stored under name.
func (table Table[V]) Get(name string) (V, bool) {
	value, ok := table.items[name]
	return value, ok
}

// Has reports whether name exists.
func (table Table[V]) Has(name string) bool {
	_, ok := table.items[name]
	return ok
}

// Keys returns names in insertion order.
func (table Table[V]) Keys() []string {
	return slices.Clone(table.keys)
}

// Values returns values in insertion order.
func (table Table[V]) Values() []V {
	out := make([]V, 0, len(table.keys))
	for _, key := range table.keys {
		out = append(out, table.items[key])
	}

	return out
}

// All iterates entries in insertion order.
func (table Table[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, key := range table.keys {
			if !yield(key, table.items[key]) {
				return
			}
		}
	}
}
