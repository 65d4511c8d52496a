// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package model

import (
	"strings"
)

// DataType describes the shape of one field.
// The set of variants is closed: Primitive, ObjectRef, EnumRef, Array, Map and Union.
type DataType interface {
	// Kind returns the discriminator tag.
	Kind() Kind
	// String returns compact human readable notation such as array<object(Address)>.
	String() string

	dataType()
}

// Primitive is a leaf type identified only by its kind tag.
type Primitive struct {
	kind Kind
}

// ObjectRef references a shared object or entity by id.
type ObjectRef struct {
	ID string
}

// EnumRef references an enum by id.
type EnumRef struct {
	ID string
}

// Array is an ordered homogeneous sequence.
type Array struct {
	Items DataType
}

// Map is a string-keyed mapping.
type Map struct {
	Values DataType
}

// Union is exactly one of two or more alternatives.
type Union struct {
	Types []DataType
}

// Built-in primitive types.
var (
	Boolean  = Primitive{kind: KindBoolean}
	Integer  = Primitive{kind: KindInteger}
	Number   = Primitive{kind: KindNumber}
	Bytes    = Primitive{kind: KindBytes}
	String   = Primitive{kind: KindString}
	Date     = Primitive{kind: KindDate}
	DateTime = Primitive{kind: KindDateTime}
	Time     = Primitive{kind: KindTime}
)

// Payload carries variant specific data for NewDataType.
type Payload struct {
	// ID is required by object and enum.
	ID string
	// Items is required by array.
	Items DataType
	// Values is required by map.
	Values DataType
	// Types is required by union and must hold at least two alternatives.
	Types []DataType
}

func (Primitive) dataType() {}
func (ObjectRef) dataType() {}
func (EnumRef) dataType()   {}
func (Array) dataType()     {}
func (Map) dataType()       {}
func (Union) dataType()     {}

// Kind implements DataType.
func (t Primitive) Kind() Kind { return t.kind }

// Kind implements DataType.
func (ObjectRef) Kind() Kind { return KindObject }

// Kind implements DataType.
func (EnumRef) Kind() Kind { return KindEnum }

// Kind implements DataType.
func (Array) Kind() Kind { return KindArray }

// Kind implements DataType.
func (Map) Kind() Kind { return KindMap }

// Kind implements DataType.
func (Union) Kind() Kind { return KindUnion }

// String implements DataType.
func (t Primitive) String() string { return string(t.kind) }

// String implements DataType.
func (t ObjectRef) String() string { return "object(" + t.ID + ")" }

// String implements DataType.
func (t EnumRef) String() string { return "enum(" + t.ID + ")" }

// String implements DataType.
func (t Array) String() string { return "array<" + typeString(t.Items) + ">" }

// String implements DataType.
func (t Map) String() string { return "map<" + typeString(t.Values) + ">" }

// String implements DataType.
func (t Union) String() string {
	parts := make([]string, 0, len(t.Types))
	for _, item := range t.Types {
		parts = append(parts, typeString(item))
	}

	return "union<" + strings.Join(parts, ", ") + ">"
}

// typeString renders nil types without panicking.
func typeString(t DataType) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}

// NewPrimitive returns leaf type for a built-in or registered primitive kind.
func NewPrimitive(kind Kind) (Primitive, error) {
	leaf, ok := kinds.lookup(kind)
	if !ok {
		return Primitive{}, &TypeResolutionError{Kind: kind, Reason: "unknown kind"}
	}

	if !leaf {
		return Primitive{}, &TypeResolutionError{Kind: kind, Reason: "kind requires a payload"}
	}

	return Primitive{kind: kind}, nil
}

// NewDataType builds the variant selected by kind from payload.
// Payload fields foreign to the selected kind are rejected.
func NewDataType(kind Kind, payload Payload) (DataType, error) {
	leaf, ok := kinds.lookup(kind)
	if !ok {
		return nil, &TypeResolutionError{Kind: kind, Reason: "unknown kind"}
	}

	if leaf {
		if !payload.isZero() {
			return nil, &TypeResolutionError{Kind: kind, Reason: "primitive kind takes no payload"}
		}

		return Primitive{kind: kind}, nil
	}

	var out DataType
	switch kind {
	case KindObject:
		if payload.Items != nil || payload.Values != nil || len(payload.Types) > 0 {
			return nil, &TypeResolutionError{Kind: kind, Reason: "only id is allowed"}
		}

		out = ObjectRef{ID: payload.ID}
	case KindEnum:
		if payload.Items != nil || payload.Values != nil || len(payload.Types) > 0 {
			return nil, &TypeResolutionError{Kind: kind, Reason: "only id is allowed"}
		}

		out = EnumRef{ID: payload.ID}
	case KindArray:
		if payload.ID != "" || payload.Values != nil || len(payload.Types) > 0 {
			return nil, &TypeResolutionError{Kind: kind, Reason: "only items is allowed"}
		}

		out = Array{Items: payload.Items}
	case KindMap:
		if payload.ID != "" || payload.Items != nil || len(payload.Types) > 0 {
			return nil, &TypeResolutionError{Kind: kind, Reason: "only values is allowed"}
		}

		out = Map{Values: payload.Values}
	case KindUnion:
		if payload.ID != "" || payload.Items != nil || payload.Values != nil {
			return nil, &TypeResolutionError{Kind: kind, Reason: "only types is allowed"}
		}

		out = Union{Types: append([]DataType(nil), payload.Types...)}
	default:
		return nil, &TypeResolutionError{Kind: kind, Reason: "unknown kind"}
	}

	if err := CheckDataType(out); err != nil {
		return nil, err
	}

	return out, nil
}

// isZero reports whether payload carries no data.
func (payload Payload) isZero() bool {
	return payload.ID == "" && payload.Items == nil && payload.Values == nil && len(payload.Types) == 0
}

// CheckDataType verifies a type tree built from struct literals:
// known leaf kinds, non-empty ids, present element types and union arity.
func CheckDataType(t DataType) error {
	switch typed := t.(type) {
	case nil:
		return &TypeResolutionError{Reason: "missing data type"}
	case Primitive:
		if !IsPrimitiveKind(typed.kind) {
			return &TypeResolutionError{Kind: typed.kind, Reason: "unknown primitive kind"}
		}
	case ObjectRef:
		if strings.TrimSpace(typed.ID) == "" {
			return &TypeResolutionError{Kind: KindObject, Reason: "id is required"}
		}
	case EnumRef:
		if strings.TrimSpace(typed.ID) == "" {
			return &TypeResolutionError{Kind: KindEnum, Reason: "id is required"}
		}
	case Array:
		if typed.Items == nil {
			return &TypeResolutionError{Kind: KindArray, Reason: "items is required"}
		}

		return CheckDataType(typed.Items)
	case Map:
		if typed.Values == nil {
			return &TypeResolutionError{Kind: KindMap, Reason: "values is required"}
		}

		return CheckDataType(typed.Values)
	case Union:
		if len(typed.Types) < 2 {
			return &TypeResolutionError{Kind: KindUnion, Reason: "at least two alternatives are required"}
		}

		for _, item := range typed.Types {
			if err := CheckDataType(item); err != nil {
				return err
			}
		}
	}

	return nil
}

// ElementType unwraps arrays and maps down to their innermost element type.
func ElementType(t DataType) DataType {
	for {
		switch typed := t.(type) {
		case Array:
			t = typed.Items
		case Map:
			t = typed.Values
		default:
			return t
		}
	}
}

// WalkTypes calls visit for t and every nested type in depth-first order.
// Returning false from visit skips the children of that type.
func WalkTypes(t DataType, visit func(DataType) bool) {
	if t == nil || !visit(t) {
		return
	}

	switch typed := t.(type) {
	case Array:
		WalkTypes(typed.Items, visit)
	case Map:
		WalkTypes(typed.Values, visit)
	case Union:
		for _, item := range typed.Types {
			WalkTypes(item, visit)
		}
	}
}

// Equal reports whether both primitives carry the same kind.
func (t Primitive) Equal(other Primitive) bool {
	return t.kind == other.kind
}

// EqualTypes reports structural equality of two type trees.
func EqualTypes(a, b DataType) bool {
	switch left := a.(type) {
	case nil:
		return b == nil
	case Primitive:
		right, ok := b.(Primitive)
		return ok && left.Equal(right)
	case ObjectRef:
		right, ok := b.(ObjectRef)
		return ok && left.ID == right.ID
	case EnumRef:
		right, ok := b.(EnumRef)
		return ok && left.ID == right.ID
	case Array:
		right, ok := b.(Array)
		return ok && EqualTypes(left.Items, right.Items)
	case Map:
		right, ok := b.(Map)
		return ok && EqualTypes(left.Values, right.Values)
	case Union:
		right, ok := b.(Union)
		if !ok || len(left.Types) != len(right.Types) {
			return false
		}

		for index := range left.Types {
			if !EqualTypes(left.Types[index], right.Types[index]) {
				return false
			}
		}

		return true
	}

	return false
}
