// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package model

import (
	"regexp"
	"slices"
	"sync"
)

// Kind is the discriminator tag of a DataType.
type Kind string

const (
	KindBoolean  Kind = "boolean"
	KindInteger  Kind = "integer"
	KindNumber   Kind = "number"
	KindBytes    Kind = "bytes"
	KindString   Kind = "string"
	KindDate     Kind = "date"
	KindDateTime Kind = "datetime"
	KindTime     Kind = "time"

	KindObject Kind = "object"
	KindEnum   Kind = "enum"
	KindArray  Kind = "array"
	KindMap    Kind = "map"
	KindUnion  Kind = "union"
)

// kindPattern restricts registered kind tags to identifier-like names.
var kindPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// kindRegistry is the closed set of known kind tags.
type kindRegistry struct {
	mu    sync.RWMutex
	order []Kind
	leaf  map[Kind]bool
}

// kinds holds built-in kinds plus leaf kinds contributed at process start.
var kinds = newKindRegistry()

// newKindRegistry returns registry seeded with built-in primitive and complex kinds.
func newKindRegistry() *kindRegistry {
	registry := &kindRegistry{leaf: make(map[Kind]bool)}
	for _, kind := range []Kind{
		KindBoolean, KindInteger, KindNumber, KindBytes,
		KindString, KindDate, KindDateTime, KindTime,
	} {
		registry.order = append(registry.order, kind)
		registry.leaf[kind] = true
	}

	for _, kind := range []Kind{KindObject, KindEnum, KindArray, KindMap, KindUnion} {
		registry.order = append(registry.order, kind)
		registry.leaf[kind] = false
	}

	return registry
}

// register adds one leaf kind or reports a collision.
func (registry *kindRegistry) register(kind Kind) error {
	if kind == "" {
		return &TypeResolutionError{Reason: ErrEmptyName.Error()}
	}

	if !kindPattern.MatchString(string(kind)) {
		return &TypeResolutionError{Kind: kind, Reason: "kind tag must match " + kindPattern.String()}
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, exists := registry.leaf[kind]; exists {
		return &KindCollisionError{Kind: kind}
	}

	registry.order = append(registry.order, kind)
	registry.leaf[kind] = true
	return nil
}

// lookup reports whether kind is known and whether it is a leaf kind.
func (registry *kindRegistry) lookup(kind Kind) (leaf bool, ok bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	leaf, ok = registry.leaf[kind]
	return leaf, ok
}

// RegisterKind contributes an additional primitive-like leaf kind.
// A tag equal to any known kind fails with KindCollisionError.
func RegisterKind(kind Kind) error {
	return kinds.register(kind)
}

// MustRegisterKind is RegisterKind for package init; it panics on collision.
func MustRegisterKind(kind Kind) {
	if err := RegisterKind(kind); err != nil {
		panic(err)
	}
}

// Kinds returns every known kind in registration order.
func Kinds() []Kind {
	kinds.mu.RLock()
	defer kinds.mu.RUnlock()

	return slices.Clone(kinds.order)
}

// PrimitiveKinds returns every known leaf kind in registration order.
func PrimitiveKinds() []Kind {
	kinds.mu.RLock()
	defer kinds.mu.RUnlock()

	out := make([]Kind, 0, len(kinds.order))
	for _, kind := range kinds.order {
		if kinds.leaf[kind] {
			out = append(out, kind)
		}
	}

	return out
}

// IsPrimitiveKind reports whether kind is a known leaf kind.
func IsPrimitiveKind(kind Kind) bool {
	leaf, ok := kinds.lookup(kind)
	return ok && leaf
}
