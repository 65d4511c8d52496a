// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package model

import (
	"errors"
	"strings"
	"testing"
)

func TestBuilderRejectsDuplicateNamesPerNamespace(t *testing.T) {
	t.Parallel()

	fields := []Field{{Name: "id", Type: String}}

	cases := []struct {
		name string
		kind IdentifierKind
		add  func(testing.TB, *Builder) error
	}{
		{
			name: "entity",
			kind: IdentifierEntity,
			add: func(t testing.TB, b *Builder) error {
				return b.AddEntity(mustEntity(t, "Users", fields))
			},
		},
		{
			name: "object",
			kind: IdentifierObject,
			add: func(t testing.TB, b *Builder) error {
				return b.AddObject(mustObject(t, "Users", fields))
			},
		},
		{
			name: "enum",
			kind: IdentifierEnum,
			add: func(t testing.TB, b *Builder) error {
				return b.AddEnum(mustEnum(t, "Users", "a"))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			builder := NewBuilder("dup")
			if err := tc.add(t, builder); err != nil {
				t.Fatalf("first add: %v", err)
			}

			err := tc.add(t, builder)
			var duplicate *DuplicateIdentifierError
			if !errors.As(err, &duplicate) {
				t.Fatalf("second add = %v, want DuplicateIdentifierError", err)
			}

			if duplicate.Kind != tc.kind || duplicate.Name != "Users" {
				t.Fatalf("duplicate = %+v", duplicate)
			}
		})
	}
}

func TestBuilderKeepsEntityAndObjectNamespacesSeparate(t *testing.T) {
	t.Parallel()

	fields := []Field{{Name: "id", Type: String}}
	builder := NewBuilder("shared_names")
	if err := builder.AddEntity(mustEntity(t, "Users", fields)); err != nil {
		t.Fatalf("AddEntity: %v", err)
	}

	if err := builder.AddObject(mustObject(t, "Users", fields)); err != nil {
		t.Fatalf("AddObject with entity name: %v", err)
	}

	if err := builder.AddEnum(mustEnum(t, "Users", "a")); err != nil {
		t.Fatalf("AddEnum with entity name: %v", err)
	}

	if _, err := builder.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
}

func TestBuilderValidatesIdentifier(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"", "1model", "my-model", "with space"} {
		builder := NewBuilder(id)
		if err := builder.AddEntity(mustEntity(t, "A", []Field{{Name: "id", Type: String}})); err != nil {
			t.Fatalf("AddEntity: %v", err)
		}

		if _, err := builder.Build(); !errors.Is(err, ErrInvalidIdentifier) {
			t.Fatalf("Build(%q) = %v, want ErrInvalidIdentifier", id, err)
		}
	}

	for _, id := range []string{"_private", "Model2", "shop_v1"} {
		if !ValidIdentifier(id) {
			t.Fatalf("ValidIdentifier(%q) = false", id)
		}
	}
}

func TestBuilderRequiresEntities(t *testing.T) {
	t.Parallel()

	builder := NewBuilder("empty")
	if err := builder.AddObject(mustObject(t, "A", []Field{{Name: "id", Type: String}})); err != nil {
		t.Fatalf("AddObject: %v", err)
	}

	if _, err := builder.Build(); !errors.Is(err, ErrNoEntities) {
		t.Fatalf("Build = %v, want ErrNoEntities", err)
	}
}

func TestBuilderPreservesInsertionOrderAndSnapshots(t *testing.T) {
	t.Parallel()

	fields := []Field{{Name: "id", Type: String}}
	builder := NewBuilder("ordered").SetName("Ordered").SetDoc("doc")
	for _, name := range []string{"Zulu", "Alpha", "Mike"} {
		if err := builder.AddEntity(mustEntity(t, name, fields)); err != nil {
			t.Fatalf("AddEntity: %v", err)
		}
	}

	dm, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if err := builder.AddEntity(mustEntity(t, "Late", fields)); err != nil {
		t.Fatalf("AddEntity after Build: %v", err)
	}

	got := strings.Join(dm.Entities.Keys(), ",")
	if got != "Zulu,Alpha,Mike" {
		t.Fatalf("entity order = %q", got)
	}

	if dm.Title() != "Ordered" {
		t.Fatalf("Title() = %q", dm.Title())
	}
}
