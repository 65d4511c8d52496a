// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package model

import (
	"fmt"
	"sort"
	"strings"
)

// Wire form keys of a long-form data type.
const (
	wireKeyType   = "type"
	wireKeyID     = "id"
	wireKeyItems  = "items"
	wireKeyValues = "values"
	wireKeyTypes  = "types"
)

// ParseDataType decodes a wire form type: a bare kind string for primitives
// or a long-form mapping with nested wire forms in items, values and types.
func ParseDataType(raw any) (DataType, error) {
	switch typed := raw.(type) {
	case nil:
		return nil, &TypeResolutionError{Reason: "missing data type"}
	case string:
		return parseShorthand(typed)
	case Kind:
		return parseShorthand(string(typed))
	case DataType:
		if err := CheckDataType(typed); err != nil {
			return nil, err
		}

		return typed, nil
	}

	object, ok := asWireMap(raw)
	if !ok {
		return nil, &TypeResolutionError{Reason: fmt.Sprintf("unsupported wire value %T", raw)}
	}

	return parseLongForm(object)
}

// parseShorthand resolves a bare kind name into a primitive type.
func parseShorthand(value string) (DataType, error) {
	kind := Kind(strings.TrimSpace(value))
	if kind == "" {
		return nil, &TypeResolutionError{Reason: "empty type tag"}
	}

	return NewPrimitive(kind)
}

// parseLongForm resolves one long-form mapping.
func parseLongForm(object map[string]any) (DataType, error) {
	rawKind, ok := object[wireKeyType]
	if !ok {
		return nil, &TypeResolutionError{Reason: "type tag is missing"}
	}

	tag, ok := rawKind.(string)
	if !ok {
		return nil, &TypeResolutionError{Reason: fmt.Sprintf("type tag must be a string, got %T", rawKind)}
	}

	kind := Kind(strings.TrimSpace(tag))
	for _, key := range sortedWireKeys(object) {
		switch key {
		case wireKeyType, wireKeyID, wireKeyItems, wireKeyValues, wireKeyTypes:
		default:
			return nil, &TypeResolutionError{Kind: kind, Reason: fmt.Sprintf("unexpected key %q", key)}
		}
	}

	var payload Payload
	if value, ok := object[wireKeyID]; ok {
		id, isString := value.(string)
		if !isString {
			return nil, &TypeResolutionError{Kind: kind, Reason: "id must be a string"}
		}

		payload.ID = id
	}

	if value, ok := object[wireKeyItems]; ok {
		items, err := ParseDataType(value)
		if err != nil {
			return nil, fmt.Errorf("%s items: %w", kind, err)
		}

		payload.Items = items
	}

	if value, ok := object[wireKeyValues]; ok {
		values, err := ParseDataType(value)
		if err != nil {
			return nil, fmt.Errorf("%s values: %w", kind, err)
		}

		payload.Values = values
	}

	if value, ok := object[wireKeyTypes]; ok {
		list, isList := value.([]any)
		if !isList {
			return nil, &TypeResolutionError{Kind: kind, Reason: "types must be a list"}
		}

		for index, item := range list {
			alternative, err := ParseDataType(item)
			if err != nil {
				return nil, fmt.Errorf("%s types[%d]: %w", kind, index, err)
			}

			payload.Types = append(payload.Types, alternative)
		}
	}

	return NewDataType(kind, payload)
}

// Shorthand returns the most compact wire form of t.
// Primitives become bare kind strings; complex types keep a mapping with shorthand children.
func Shorthand(t DataType) any {
	switch typed := t.(type) {
	case Primitive:
		return string(typed.kind)
	case ObjectRef:
		return map[string]any{wireKeyType: string(KindObject), wireKeyID: typed.ID}
	case EnumRef:
		return map[string]any{wireKeyType: string(KindEnum), wireKeyID: typed.ID}
	case Array:
		return map[string]any{wireKeyType: string(KindArray), wireKeyItems: Shorthand(typed.Items)}
	case Map:
		return map[string]any{wireKeyType: string(KindMap), wireKeyValues: Shorthand(typed.Values)}
	case Union:
		types := make([]any, 0, len(typed.Types))
		for _, item := range typed.Types {
			types = append(types, Shorthand(item))
		}

		return map[string]any{wireKeyType: string(KindUnion), wireKeyTypes: types}
	}

	return nil
}

// LongForm returns the fully expanded wire form of t.
func LongForm(t DataType) map[string]any {
	switch typed := t.(type) {
	case Primitive:
		return map[string]any{wireKeyType: string(typed.kind)}
	case ObjectRef:
		return map[string]any{wireKeyType: string(KindObject), wireKeyID: typed.ID}
	case EnumRef:
		return map[string]any{wireKeyType: string(KindEnum), wireKeyID: typed.ID}
	case Array:
		return map[string]any{wireKeyType: string(KindArray), wireKeyItems: LongForm(typed.Items)}
	case Map:
		return map[string]any{wireKeyType: string(KindMap), wireKeyValues: LongForm(typed.Values)}
	case Union:
		types := make([]any, 0, len(typed.Types))
		for _, item := range typed.Types {
			types = append(types, LongForm(item))
		}

		return map[string]any{wireKeyType: string(KindUnion), wireKeyTypes: types}
	}

	return nil
}

// Expand normalizes any accepted wire form into the long form.
func Expand(raw any) (map[string]any, error) {
	t, err := ParseDataType(raw)
	if err != nil {
		return nil, err
	}

	return LongForm(t), nil
}

// asWireMap accepts mappings decoded by JSON and YAML decoders.
func asWireMap(raw any) (map[string]any, bool) {
	switch typed := raw.(type) {
	case map[string]any:
		return typed, true
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, value := range typed {
			name, ok := key.(string)
			if !ok {
				return nil, false
			}

			out[name] = value
		}

		return out, true
	}

	return nil, false
}

// sortedWireKeys returns mapping keys in deterministic order.
func sortedWireKeys(object map[string]any) []string {
	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}
