// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package example

import (
	"github.com/woozymasta/dmdoc/model"
)

// placeholders holds sample values of built-in leaf kinds.
var placeholders = map[model.Kind]any{
	model.KindBoolean:  false,
	model.KindInteger:  0,
	model.KindNumber:   0.5,
	model.KindBytes:    "<base64>",
	model.KindString:   "<string>",
	model.KindDate:     "2006-01-02",
	model.KindDateTime: "2006-01-02T15:04:05Z",
	model.KindTime:     "15:04:05",
}

// member is one object member of a generated value, docs become YAML comments.
type member struct {
	Name  string
	Doc   string
	Value any
}

// object is an ordered generated object.
type object []member

// builder turns field shapes into sample values.
type builder struct {
	model  *model.DataModel
	mode   Mode
	active map[string]bool
}

// buildFields materializes one shape, honoring the required-only mode.
func (b *builder) buildFields(fields model.Table[model.Field]) object {
	out := make(object, 0, fields.Len())
	for _, field := range fields.Values() {
		if b.mode == ModeRequired && !field.IsRequired {
			continue
		}

		out = append(out, member{Name: field.Name, Doc: field.Doc, Value: b.buildType(field.Type)})
	}

	return out
}

// buildType returns a sample value of t.
// A shape already being expanded on the current path yields an empty object.
func (b *builder) buildType(t model.DataType) any {
	switch typed := t.(type) {
	case model.Primitive:
		if value, ok := placeholders[typed.Kind()]; ok {
			return value
		}

		return "<" + string(typed.Kind()) + ">"
	case model.EnumRef:
		enum, ok := b.model.Enum(typed.ID)
		if !ok || enum.Values.Len() == 0 {
			return "<" + typed.ID + ">"
		}

		return enum.Values.Values()[0].Value
	case model.ObjectRef:
		return b.buildObject(typed.ID)
	case model.Array:
		return []any{b.buildType(typed.Items)}
	case model.Map:
		return object{{Name: "<key>", Value: b.buildType(typed.Values)}}
	case model.Union:
		if len(typed.Types) == 0 {
			return nil
		}

		return b.buildType(typed.Types[0])
	default:
		return nil
	}
}

// buildObject expands a shared object, or an entity when no object has id.
func (b *builder) buildObject(id string) any {
	if b.active[id] {
		return object{}
	}

	fields, ok := shapeFields(b.model, id)
	if !ok {
		return object{}
	}

	b.active[id] = true
	defer delete(b.active, id)

	return b.buildFields(fields)
}

// shapeFields returns fields of object id, falling back to entity id.
func shapeFields(m *model.DataModel, id string) (model.Table[model.Field], bool) {
	if object, ok := m.Object(id); ok {
		return object.Fields, true
	}

	if entity, ok := m.Entity(id); ok {
		return entity.Fields, true
	}

	return model.Table[model.Field]{}, false
}
