// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package model

import (
	"fmt"
	"slices"
	"strings"
)

// Field is one named member of an entity or object.
type Field struct {
	Name       string
	Type       DataType
	Doc        string
	IsKey      bool
	IsRequired bool
}

// BaseObject is the shape shared by entities and objects.
type BaseObject struct {
	Name    string
	Aliases []string
	Doc     string
	Fields  Table[Field]
}

// Entity is a top-level addressable unit such as a table or collection.
type Entity struct {
	BaseObject
	References []EntityReference
}

// Object is a reusable nested shape referenced by field types.
type Object struct {
	BaseObject
	References []EntityReference
}

// EnumValue is one allowed enum member, unique by Value.
type EnumValue struct {
	Name  string
	Value string
	Doc   string
}

// Enum is a closed set of values shared between entities.
type Enum struct {
	Name    string
	Aliases []string
	Doc     string
	Values  Table[EnumValue]
}

// EntityReference declares a relation from its owner to entity IDEntity.
type EntityReference struct {
	IDEntity string
	Name     string
	Mapping  []FieldReference
}

// FieldReference pairs a field path in the owner with a field path in the target entity.
type FieldReference struct {
	Source      string
	Destination string
}

// objectOptions collects optional metadata for constructors.
type objectOptions struct {
	aliases    []string
	doc        string
	references []EntityReference
}

// ObjectOption configures optional metadata of entities, objects and enums.
type ObjectOption func(*objectOptions)

// WithAliases sets additional names.
func WithAliases(aliases ...string) ObjectOption {
	return func(options *objectOptions) {
		options.aliases = append(options.aliases, aliases...)
	}
}

// WithDoc sets documentation text.
func WithDoc(doc string) ObjectOption {
	return func(options *objectOptions) {
		options.doc = doc
	}
}

// WithReferences appends references to other entities.
func WithReferences(references ...EntityReference) ObjectOption {
	return func(options *objectOptions) {
		options.references = append(options.references, references...)
	}
}

// applyObjectOptions folds option list into one value.
func applyObjectOptions(opts []ObjectOption) objectOptions {
	var options objectOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	return options
}

// NewFields validates field list and returns it as ordered table.
// owner is only used for error context.
func NewFields(owner string, fields []Field) (Table[Field], error) {
	if len(fields) == 0 {
		return Table[Field]{}, fmt.Errorf("%w in %q", ErrEmptyFields, owner)
	}

	table := newTable[Field](len(fields))
	for _, field := range fields {
		if strings.TrimSpace(field.Name) == "" {
			return Table[Field]{}, fmt.Errorf("%w: field in %q", ErrEmptyName, owner)
		}

		if err := CheckDataType(field.Type); err != nil {
			return Table[Field]{}, fmt.Errorf("field %q in %q: %w", field.Name, owner, err)
		}

		if !table.add(field.Name, field) {
			return Table[Field]{}, &DuplicateIdentifierError{Kind: IdentifierField, Owner: owner, Name: field.Name}
		}
	}

	return table, nil
}

// newBaseObject builds shared shape for entities and objects.
func newBaseObject(name string, fields []Field, options objectOptions) (BaseObject, error) {
	if strings.TrimSpace(name) == "" {
		return BaseObject{}, fmt.Errorf("%w: object name", ErrEmptyName)
	}

	table, err := NewFields(name, fields)
	if err != nil {
		return BaseObject{}, err
	}

	return BaseObject{
		Name:    name,
		Aliases: slices.Clone(options.aliases),
		Doc:     options.doc,
		Fields:  table,
	}, nil
}

// checkReferences verifies reference shape; resolvability is checked by Validate.
func checkReferences(owner string, references []EntityReference) error {
	for index, reference := range references {
		if strings.TrimSpace(reference.IDEntity) == "" {
			return fmt.Errorf("%w: reference #%d of %q has no target entity", ErrEmptyName, index+1, owner)
		}

		if len(reference.Mapping) == 0 {
			return fmt.Errorf("%w: %q -> %q", ErrEmptyMapping, owner, reference.IDEntity)
		}
	}

	return nil
}

// cloneReferences deep-copies reference list.
func cloneReferences(references []EntityReference) []EntityReference {
	if len(references) == 0 {
		return nil
	}

	out := make([]EntityReference, 0, len(references))
	for _, reference := range references {
		reference.Mapping = slices.Clone(reference.Mapping)
		out = append(out, reference)
	}

	return out
}

// NewEntity builds an entity with unique, non-empty field names.
func NewEntity(name string, fields []Field, opts ...ObjectOption) (*Entity, error) {
	options := applyObjectOptions(opts)
	base, err := newBaseObject(name, fields, options)
	if err != nil {
		return nil, fmt.Errorf("entity: %w", err)
	}

	if err := checkReferences(name, options.references); err != nil {
		return nil, fmt.Errorf("entity: %w", err)
	}

	return &Entity{BaseObject: base, References: cloneReferences(options.references)}, nil
}

// NewObject builds a shared object with unique, non-empty field names.
func NewObject(name string, fields []Field, opts ...ObjectOption) (*Object, error) {
	options := applyObjectOptions(opts)
	base, err := newBaseObject(name, fields, options)
	if err != nil {
		return nil, fmt.Errorf("object: %w", err)
	}

	if err := checkReferences(name, options.references); err != nil {
		return nil, fmt.Errorf("object: %w", err)
	}

	return &Object{BaseObject: base, References: cloneReferences(options.references)}, nil
}

// NewEnum builds an enum with values unique by Value.
// An empty value name defaults to the value itself.
func NewEnum(name string, values []EnumValue, opts ...ObjectOption) (*Enum, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("enum: %w", ErrEmptyName)
	}

	options := applyObjectOptions(opts)
	if len(options.references) > 0 {
		return nil, fmt.Errorf("%w: %q", ErrEnumReferences, name)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("%w in %q", ErrEmptyEnum, name)
	}

	table := newTable[EnumValue](len(values))
	for _, value := range values {
		if value.Value == "" {
			return nil, fmt.Errorf("%w: value in enum %q", ErrEmptyName, name)
		}

		if value.Name == "" {
			value.Name = value.Value
		}

		if !table.add(value.Value, value) {
			return nil, &DuplicateIdentifierError{Kind: IdentifierEnumValue, Owner: name, Name: value.Value}
		}
	}

	return &Enum{
		Name:    name,
		Aliases: slices.Clone(options.aliases),
		Doc:     options.doc,
		Values:  table,
	}, nil
}

// Title returns the reference name or a generated label when the name is empty.
func (reference EntityReference) Title() string {
	if reference.Name != "" {
		return reference.Name
	}

	return reference.IDEntity
}
