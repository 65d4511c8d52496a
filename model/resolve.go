// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package model

import "slices"

// maxUsageDepth bounds object usage traversal depth.
const maxUsageDepth = 20

// Usage is one place where a shared object is reachable from an entity.
type Usage struct {
	Entity string
	Path   string
}

// Validated is a DataModel that passed validation, with derived indexes.
// It is read-only and safe for concurrent use.
type Validated struct {
	model   *DataModel
	reverse map[string]Table[[]EntityReference]
	usages  map[string][]Usage
}

// usageState is one BFS queue item for object usage traversal.
type usageState struct {
	Entity string
	Fields Table[Field]
	Prefix string
	Depth  int
}

// Validate checks every reference and type reference of m and collects all problems.
// On failure the returned error is a *ValidationError.
func Validate(m *DataModel) (*Validated, error) {
	problems := Problems(m)
	if len(problems) > 0 {
		return nil, &ValidationError{ModelID: m.ID, Problems: problems}
	}

	validated := &Validated{
		model:   m,
		reverse: make(map[string]Table[[]EntityReference], m.Entities.Len()),
		usages:  buildObjectUsages(m),
	}

	for name := range m.Entities.All() {
		validated.reverse[name] = ReverseReferences(m, name)
	}

	return validated, nil
}

// Problems returns every validation problem of m in declaration order.
func Problems(m *DataModel) []error {
	problems := headerProblems(m)

	for name, entity := range m.Entities.All() {
		problems = append(problems, typeProblems(m, name, entity.Fields)...)
		problems = append(problems, referenceProblems(m, name, entity.Fields, entity.References)...)
	}

	for name, object := range m.Objects.All() {
		problems = append(problems, typeProblems(m, name, object.Fields)...)
		problems = append(problems, referenceProblems(m, name, object.Fields, object.References)...)
	}

	return problems
}

// referenceProblems checks targets and mapped paths of one owner.
func referenceProblems(m *DataModel, owner string, fields Table[Field], references []EntityReference) []error {
	var problems []error
	for _, reference := range references {
		target, ok := m.Entities.Get(reference.IDEntity)
		if !ok {
			problems = append(problems, &UnknownEntityReferenceError{Owner: owner, Target: reference.IDEntity})
			continue
		}

		for _, mapping := range reference.Mapping {
			if !m.ResolvePath(fields, mapping.Source) {
				problems = append(problems, &InvalidFieldPathError{
					Owner:     owner,
					Target:    reference.IDEntity,
					Entity:    owner,
					Path:      mapping.Source,
					Direction: DirectionSource,
				})
			}

			if !m.ResolvePath(target.Fields, mapping.Destination) {
				problems = append(problems, &InvalidFieldPathError{
					Owner:     owner,
					Target:    reference.IDEntity,
					Entity:    reference.IDEntity,
					Path:      mapping.Destination,
					Direction: DirectionDestination,
				})
			}
		}
	}

	return problems
}

// typeProblems reports object and enum types naming missing definitions.
func typeProblems(m *DataModel, owner string, fields Table[Field]) []error {
	var problems []error
	for name, field := range fields.All() {
		WalkTypes(field.Type, func(t DataType) bool {
			switch typed := t.(type) {
			case ObjectRef:
				if _, ok := m.lookupShape(typed.ID); !ok {
					problems = append(problems, &UnknownTypeReferenceError{Owner: owner, Field: name, Kind: KindObject, ID: typed.ID})
				}
			case EnumRef:
				if !m.Enums.Has(typed.ID) {
					problems = append(problems, &UnknownTypeReferenceError{Owner: owner, Field: name, Kind: KindEnum, ID: typed.ID})
				}
			}

			return true
		})
	}

	return problems
}

// ReverseReferences returns, for entity id, every referencing entity mapped to
// the references it declares toward id, in entity declaration order.
func ReverseReferences(m *DataModel, id string) Table[[]EntityReference] {
	out := newTable[[]EntityReference](0)
	for name, entity := range m.Entities.All() {
		var matched []EntityReference
		for _, reference := range entity.References {
			if reference.IDEntity == id {
				matched = append(matched, reference)
			}
		}

		if len(matched) > 0 {
			out.add(name, matched)
		}
	}

	return out
}

// buildObjectUsages finds every entity field path through which shared objects are reachable.
func buildObjectUsages(m *DataModel) map[string][]Usage {
	usages := make(map[string][]Usage)
	seen := make(map[string]struct{})

	queue := make([]usageState, 0, m.Entities.Len())
	for name, entity := range m.Entities.All() {
		queue = append(queue, usageState{Entity: name, Fields: entity.Fields})
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.Depth >= maxUsageDepth {
			continue
		}

		for name, field := range current.Fields.All() {
			path := current.Prefix + name
			for _, id := range objectTargets(field.Type) {
				object, ok := m.Objects.Get(id)
				if !ok {
					continue
				}

				seenKey := current.Entity + "\x00" + id + "\x00" + path
				if _, ok := seen[seenKey]; ok {
					continue
				}

				seen[seenKey] = struct{}{}
				usages[id] = append(usages[id], Usage{Entity: current.Entity, Path: path})
				queue = append(queue, usageState{
					Entity: current.Entity,
					Fields: object.Fields,
					Prefix: path + ".",
					Depth:  current.Depth + 1,
				})
			}
		}
	}

	return usages
}

// objectTargets lists object ids reachable from t without adding a path segment.
func objectTargets(t DataType) []string {
	var out []string
	WalkTypes(t, func(item DataType) bool {
		if ref, ok := item.(ObjectRef); ok {
			out = append(out, ref.ID)
		}

		return true
	})

	return out
}

// Model returns the validated data model.
func (v *Validated) Model() *DataModel {
	return v.model
}

// Entities returns entities in declaration order.
func (v *Validated) Entities() Table[*Entity] {
	return v.model.Entities
}

// Objects returns shared objects in declaration order.
func (v *Validated) Objects() Table[*Object] {
	return v.model.Objects
}

// Enums returns enums in declaration order.
func (v *Validated) Enums() Table[*Enum] {
	return v.model.Enums
}

// ReverseReferences returns entities referencing entity id, computed at validation time.
func (v *Validated) ReverseReferences(id string) Table[[]EntityReference] {
	if table, ok := v.reverse[id]; ok {
		return table
	}

	return Table[[]EntityReference]{}
}

// ObjectUsages returns entity field paths through which shared object id is reachable.
func (v *Validated) ObjectUsages(id string) []Usage {
	return slices.Clone(v.usages[id])
}
