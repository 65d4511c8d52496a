// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package model

import "testing"

// mustEntity builds entity or fails the test.
func mustEntity(t testing.TB, name string, fields []Field, opts ...ObjectOption) *Entity {
	t.Helper()

	entity, err := NewEntity(name, fields, opts...)
	if err != nil {
		t.Fatalf("NewEntity(%q): %v", name, err)
	}

	return entity
}

// mustObject builds shared object or fails the test.
func mustObject(t testing.TB, name string, fields []Field, opts ...ObjectOption) *Object {
	t.Helper()

	object, err := NewObject(name, fields, opts...)
	if err != nil {
		t.Fatalf("NewObject(%q): %v", name, err)
	}

	return object
}

// mustEnum builds enum or fails the test.
func mustEnum(t testing.TB, name string, values ...string) *Enum {
	t.Helper()

	items := make([]EnumValue, 0, len(values))
	for _, value := range values {
		items = append(items, EnumValue{Value: value})
	}

	enum, err := NewEnum(name, items)
	if err != nil {
		t.Fatalf("NewEnum(%q): %v", name, err)
	}

	return enum
}

// modelParts groups definitions for mustModel.
type modelParts struct {
	entities []*Entity
	objects  []*Object
	enums    []*Enum
}

// mustModel builds data model or fails the test.
func mustModel(t testing.TB, parts modelParts) *DataModel {
	t.Helper()

	builder := NewBuilder("test_model")
	for _, entity := range parts.entities {
		if err := builder.AddEntity(entity); err != nil {
			t.Fatalf("AddEntity: %v", err)
		}
	}

	for _, object := range parts.objects {
		if err := builder.AddObject(object); err != nil {
			t.Fatalf("AddObject: %v", err)
		}
	}

	for _, enum := range parts.enums {
		if err := builder.AddEnum(enum); err != nil {
			t.Fatalf("AddEnum: %v", err)
		}
	}

	dm, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	return dm
}

// shopModel is a small valid model: Users, Orders referencing Users, shared Address and Line objects.
func shopModel(t testing.TB) *DataModel {
	t.Helper()

	address := mustObject(t, "Address", []Field{
		{Name: "street", Type: String},
		{Name: "city", Type: String, IsRequired: true},
	})

	line := mustObject(t, "Line", []Field{
		{Name: "sku", Type: String, IsRequired: true},
		{Name: "quantity", Type: Integer, IsRequired: true},
		{Name: "ship_to", Type: ObjectRef{ID: "Address"}},
	})

	users := mustEntity(t, "Users", []Field{
		{Name: "id", Type: String, IsKey: true, IsRequired: true},
		{Name: "email", Type: String, IsRequired: true},
		{Name: "address", Type: ObjectRef{ID: "Address"}},
		{Name: "status", Type: EnumRef{ID: "Status"}},
	}, WithDoc("Registered customers."))

	orders := mustEntity(t, "Orders", []Field{
		{Name: "id", Type: String, IsKey: true, IsRequired: true},
		{Name: "user_id", Type: String, IsRequired: true},
		{Name: "lines", Type: Array{Items: ObjectRef{ID: "Line"}}},
		{Name: "created", Type: DateTime},
	}, WithReferences(EntityReference{
		IDEntity: "Users",
		Name:     "customer",
		Mapping:  []FieldReference{{Source: "user_id", Destination: "id"}},
	}))

	return mustModel(t, modelParts{
		entities: []*Entity{users, orders},
		objects:  []*Object{address, line},
		enums:    []*Enum{mustEnum(t, "Status", "active", "blocked")},
	})
}
