// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package model

import (
	"fmt"
	"regexp"
)

// identifierPattern constrains DataModel.ID.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DataModel is the schema graph: entities, shared objects and enums.
// Entity, object and enum names live in separate namespaces.
type DataModel struct {
	ID       string
	Name     string
	Doc      string
	Entities Table[*Entity]
	Objects  Table[*Object]
	Enums    Table[*Enum]
}

// Title returns the display name, falling back to the id.
func (m *DataModel) Title() string {
	if m.Name != "" {
		return m.Name
	}

	return m.ID
}

// Entity returns entity by name.
func (m *DataModel) Entity(name string) (*Entity, bool) {
	return m.Entities.Get(name)
}

// Object returns shared object by name.
func (m *DataModel) Object(name string) (*Object, bool) {
	return m.Objects.Get(name)
}

// Enum returns enum by name.
func (m *DataModel) Enum(name string) (*Enum, bool) {
	return m.Enums.Get(name)
}

// lookupShape returns fields of the object an object type points to.
// Shared objects take precedence over entities.
func (m *DataModel) lookupShape(id string) (Table[Field], bool) {
	if object, ok := m.Objects.Get(id); ok {
		return object.Fields, true
	}

	if entity, ok := m.Entities.Get(id); ok {
		return entity.Fields, true
	}

	return Table[Field]{}, false
}

// Builder assembles a DataModel and rejects duplicate names immediately.
type Builder struct {
	model DataModel
}

// NewBuilder starts a data model with the given id.
func NewBuilder(id string) *Builder {
	return &Builder{model: DataModel{
		ID:       id,
		Entities: newTable[*Entity](8),
		Objects:  newTable[*Object](8),
		Enums:    newTable[*Enum](4),
	}}
}

// SetName sets user friendly model name.
func (b *Builder) SetName(name string) *Builder {
	b.model.Name = name
	return b
}

// SetDoc sets model documentation.
func (b *Builder) SetDoc(doc string) *Builder {
	b.model.Doc = doc
	return b
}

// AddEntity appends entity or fails with DuplicateIdentifierError.
func (b *Builder) AddEntity(entity *Entity) error {
	if entity == nil {
		return fmt.Errorf("%w: nil entity", ErrEmptyName)
	}

	if !b.model.Entities.add(entity.Name, entity) {
		return &DuplicateIdentifierError{Kind: IdentifierEntity, Name: entity.Name}
	}

	return nil
}

// AddObject appends shared object or fails with DuplicateIdentifierError.
func (b *Builder) AddObject(object *Object) error {
	if object == nil {
		return fmt.Errorf("%w: nil object", ErrEmptyName)
	}

	if !b.model.Objects.add(object.Name, object) {
		return &DuplicateIdentifierError{Kind: IdentifierObject, Name: object.Name}
	}

	return nil
}

// AddEnum appends enum or fails with DuplicateIdentifierError.
func (b *Builder) AddEnum(enum *Enum) error {
	if enum == nil {
		return fmt.Errorf("%w: nil enum", ErrEmptyName)
	}

	if !b.model.Enums.add(enum.Name, enum) {
		return &DuplicateIdentifierError{Kind: IdentifierEnum, Name: enum.Name}
	}

	return nil
}

// HasEntity reports whether an entity name is already taken.
func (b *Builder) HasEntity(name string) bool {
	return b.model.Entities.Has(name)
}

// HasObject reports whether an object name is already taken.
func (b *Builder) HasObject(name string) bool {
	return b.model.Objects.Has(name)
}

// HasEnum reports whether an enum name is already taken.
func (b *Builder) HasEnum(name string) bool {
	return b.model.Enums.Has(name)
}

// Build checks model-level invariants and returns an independent snapshot.
func (b *Builder) Build() (*DataModel, error) {
	if problems := headerProblems(&b.model); len(problems) > 0 {
		return nil, problems[0]
	}

	return &DataModel{
		ID:       b.model.ID,
		Name:     b.model.Name,
		Doc:      b.model.Doc,
		Entities: b.model.Entities.clone(),
		Objects:  b.model.Objects.clone(),
		Enums:    b.model.Enums.clone(),
	}, nil
}

// headerProblems checks the model identifier and that at least one entity exists.
func headerProblems(m *DataModel) []error {
	var problems []error
	if !identifierPattern.MatchString(m.ID) {
		problems = append(problems, fmt.Errorf("%w %q: must match %s", ErrInvalidIdentifier, m.ID, identifierPattern.String()))
	}

	if m.Entities.Len() == 0 {
		problems = append(problems, fmt.Errorf("%w: %q", ErrNoEntities, m.ID))
	}

	return problems
}

// ValidIdentifier reports whether value can be used as DataModel.ID.
func ValidIdentifier(value string) bool {
	return identifierPattern.MatchString(value)
}
