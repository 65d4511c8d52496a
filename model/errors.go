// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateIdentifier is returned when two items of one namespace share a name.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
	// ErrTypeResolution is returned when a kind tag or its payload cannot form a data type.
	ErrTypeResolution = errors.New("type resolution")
	// ErrKindCollision is returned when a registered kind tag already exists.
	ErrKindCollision = errors.New("data type kind collision")
	// ErrInvalidIdentifier is returned when a data model id does not match the identifier pattern.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrEmptyName is returned when an entity, object, enum, field or kind has no name.
	ErrEmptyName = errors.New("empty name")
	// ErrEmptyFields is returned when an entity or object declares no fields.
	ErrEmptyFields = errors.New("no fields declared")
	// ErrEmptyEnum is returned when an enum declares no values.
	ErrEmptyEnum = errors.New("no enum values declared")
	// ErrEmptyMapping is returned when a reference declares no field mapping.
	ErrEmptyMapping = errors.New("reference has no field mapping")
	// ErrNoEntities is returned when a data model is built without entities.
	ErrNoEntities = errors.New("data model has no entities")
	// ErrEnumReferences is returned when references are attached to an enum.
	ErrEnumReferences = errors.New("enum cannot declare references")
	// ErrUnknownEntityReference is returned when a reference targets a missing entity.
	ErrUnknownEntityReference = errors.New("unknown entity reference")
	// ErrInvalidFieldPath is returned when a mapped field path does not resolve.
	ErrInvalidFieldPath = errors.New("invalid field path")
	// ErrUnknownTypeReference is returned when an object or enum type names a missing definition.
	ErrUnknownTypeReference = errors.New("unknown type reference")
	// ErrValidation is returned when data model validation reports problems.
	ErrValidation = errors.New("data model validation failed")
	// ErrDecodeModel is returned when wire form decoding fails.
	ErrDecodeModel = errors.New("decode data model")
	// ErrEncodeModel is returned when wire form encoding fails.
	ErrEncodeModel = errors.New("encode data model")
)

// IdentifierKind names the namespace an identifier belongs to.
type IdentifierKind string

const (
	IdentifierEntity    IdentifierKind = "entity"
	IdentifierObject    IdentifierKind = "object"
	IdentifierEnum      IdentifierKind = "enum"
	IdentifierField     IdentifierKind = "field"
	IdentifierEnumValue IdentifierKind = "enum value"
)

// Direction tells which side of a field mapping failed to resolve.
type Direction string

const (
	DirectionSource      Direction = "source"
	DirectionDestination Direction = "destination"
)

// DuplicateIdentifierError reports a name declared twice within one namespace.
type DuplicateIdentifierError struct {
	Kind  IdentifierKind
	Owner string
	Name  string
}

// Error implements error.
func (e *DuplicateIdentifierError) Error() string {
	if e.Owner == "" {
		return fmt.Sprintf("%s: %s %q", ErrDuplicateIdentifier, e.Kind, e.Name)
	}

	return fmt.Sprintf("%s: %s %q in %q", ErrDuplicateIdentifier, e.Kind, e.Name, e.Owner)
}

// Unwrap returns ErrDuplicateIdentifier.
func (e *DuplicateIdentifierError) Unwrap() error {
	return ErrDuplicateIdentifier
}

// TypeResolutionError reports an unrecognized kind tag or an incompatible payload.
type TypeResolutionError struct {
	Kind   Kind
	Reason string
}

// Error implements error.
func (e *TypeResolutionError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("%s: %s", ErrTypeResolution, e.Reason)
	}

	return fmt.Sprintf("%s: %q: %s", ErrTypeResolution, e.Kind, e.Reason)
}

// Unwrap returns ErrTypeResolution.
func (e *TypeResolutionError) Unwrap() error {
	return ErrTypeResolution
}

// KindCollisionError reports a kind registered twice.
type KindCollisionError struct {
	Kind Kind
}

// Error implements error.
func (e *KindCollisionError) Error() string {
	return fmt.Sprintf("%s: %q is already registered", ErrKindCollision, e.Kind)
}

// Unwrap returns ErrKindCollision.
func (e *KindCollisionError) Unwrap() error {
	return ErrKindCollision
}

// UnknownEntityReferenceError reports a reference whose target entity does not exist.
type UnknownEntityReferenceError struct {
	Owner  string
	Target string
}

// Error implements error.
func (e *UnknownEntityReferenceError) Error() string {
	return fmt.Sprintf("%s: %q references %q", ErrUnknownEntityReference, e.Owner, e.Target)
}

// Unwrap returns ErrUnknownEntityReference.
func (e *UnknownEntityReferenceError) Unwrap() error {
	return ErrUnknownEntityReference
}

// InvalidFieldPathError reports a mapping path that is not reachable in its entity.
type InvalidFieldPathError struct {
	// Owner is the entity or object declaring the reference.
	Owner string
	// Target is the referenced entity.
	Target string
	// Entity is the side the path was resolved against.
	Entity    string
	Path      string
	Direction Direction
}

// Error implements error.
func (e *InvalidFieldPathError) Error() string {
	return fmt.Sprintf("%s: %s path %q is not valid for %q (reference %q -> %q)",
		ErrInvalidFieldPath, e.Direction, e.Path, e.Entity, e.Owner, e.Target)
}

// Unwrap returns ErrInvalidFieldPath.
func (e *InvalidFieldPathError) Unwrap() error {
	return ErrInvalidFieldPath
}

// UnknownTypeReferenceError reports a field type naming a missing object or enum.
type UnknownTypeReferenceError struct {
	Owner string
	Field string
	Kind  Kind
	ID    string
}

// Error implements error.
func (e *UnknownTypeReferenceError) Error() string {
	return fmt.Sprintf("%s: field %q of %q uses %s %q", ErrUnknownTypeReference, e.Field, e.Owner, e.Kind, e.ID)
}

// Unwrap returns ErrUnknownTypeReference.
func (e *UnknownTypeReferenceError) Unwrap() error {
	return ErrUnknownTypeReference
}

// ValidationError collects every problem found by one validation run.
type ValidationError struct {
	ModelID  string
	Problems []error
}

// Error implements error.
func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Problems)+1)
	lines = append(lines, fmt.Sprintf("%s: %q has %d problem(s)", ErrValidation, e.ModelID, len(e.Problems)))
	for _, problem := range e.Problems {
		lines = append(lines, "  "+problem.Error())
	}

	return strings.Join(lines, "\n")
}

// Unwrap exposes ErrValidation and every collected problem to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	out := make([]error, 0, len(e.Problems)+1)
	out = append(out, ErrValidation)
	out = append(out, e.Problems...)
	return out
}
