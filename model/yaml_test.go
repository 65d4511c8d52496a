// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package model

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

// readShopFixture decodes testdata/shop.yaml.
func readShopFixture(t testing.TB) *DataModel {
	t.Helper()

	file, err := os.Open(filepath.Join("testdata", "shop.yaml"))
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer func() { _ = file.Close() }()

	dm, err := DecodeYAML(file)
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}

	return dm
}

func TestDecodeYAMLFixture(t *testing.T) {
	t.Parallel()

	dm := readShopFixture(t)
	if dm.ID != "shop" || dm.Title() != "Shop" {
		t.Fatalf("unexpected header: id=%q title=%q", dm.ID, dm.Title())
	}

	if got := strings.Join(dm.Entities.Keys(), ","); got != "Users,Orders" {
		t.Fatalf("entities = %q", got)
	}

	users, _ := dm.Entity("Users")
	if got := strings.Join(users.Fields.Keys(), ","); got != "id,email,address,status,tags" {
		t.Fatalf("users fields = %q", got)
	}

	id, _ := users.Fields.Get("id")
	if !id.IsKey || !id.IsRequired || !EqualTypes(id.Type, String) {
		t.Fatalf("id field = %+v", id)
	}

	orders, _ := dm.Entity("Orders")
	attributes, _ := orders.Fields.Get("attributes")
	want := Map{Values: Union{Types: []DataType{String, Integer}}}
	if diff := cmp.Diff(want, attributes.Type); diff != "" {
		t.Fatalf("attributes type mismatch (-want +got):\n%s", diff)
	}

	status, _ := dm.Enum("Status")
	if got := strings.Join(status.Values.Keys(), ","); got != "active,blocked" {
		t.Fatalf("status values = %q", got)
	}

	if _, err := Validate(dm); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestEncodeYAMLDecodesToSameModel(t *testing.T) {
	t.Parallel()

	original := readShopFixture(t)
	data, err := yaml.Marshal(original)
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}

	decoded, err := UnmarshalYAML(data)
	if err != nil {
		t.Fatalf("UnmarshalYAML: %v\n%s", err, data)
	}

	if diff := cmp.Diff(original.Node(), decoded.Node()); diff != "" {
		t.Fatalf("re-decoded model differs (-original +decoded):\n%s", diff)
	}

	text := string(data)
	if !strings.Contains(text, "user_id: string") && !strings.Contains(text, "type: string") {
		t.Fatalf("encoded yaml lacks shorthand types:\n%s", text)
	}
}

func TestMarshalJSONKeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	dm := readShopFixture(t)
	data, err := json.Marshal(dm)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}

	text := string(data)
	if strings.Index(text, `"Users"`) > strings.Index(text, `"Orders"`) {
		t.Fatalf("entity order lost: %s", text)
	}

	if !strings.Contains(text, `"type":"map","values":{"type":"union","types":["string","integer"]}`) {
		t.Fatalf("map type not encoded in shorthand order: %s", text)
	}

	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
}

func TestDecodeYAMLInlineAndNestedTypesMatch(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		inline string
		nested string
		want   string
	}{
		{
			name:   "object",
			inline: "{type: object, id: A}",
			nested: "{type: {type: object, id: A}}",
			want:   "object(A)",
		},
		{
			name:   "enum",
			inline: "{type: enum, id: E}",
			nested: "{type: {type: enum, id: E}}",
			want:   "enum(E)",
		},
		{
			name:   "array",
			inline: "{type: array, items: string, is_required: true}",
			nested: "{type: {type: array, items: string}, is_required: true}",
			want:   "array<string>",
		},
		{
			name:   "map of union",
			inline: "{type: map, values: {type: union, types: [string, integer]}}",
			nested: "{type: {type: map, values: {type: union, types: [string, integer]}}}",
			want:   "map<union<string, integer>>",
		},
		{
			name:   "array of objects",
			inline: "{type: array, items: {type: object, id: A}}",
			nested: "{type: {type: array, items: {type: object, id: A}}}",
			want:   "array<object(A)>",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			inline := decodeFieldType(t, tc.inline)
			nested := decodeFieldType(t, tc.nested)
			if !EqualTypes(inline, nested) {
				t.Fatalf("inline %s != nested %s", inline, nested)
			}

			if inline.String() != tc.want {
				t.Fatalf("type = %s, want %s", inline, tc.want)
			}
		})
	}
}

func TestDecodeYAMLRejectsMisplacedTypePayload(t *testing.T) {
	t.Parallel()

	cases := []string{
		"{type: {type: array, items: string}, items: integer}",
		"{items: string}",
		"{type: string, id: A}",
		"{type: object, id: 7}",
	}

	for _, field := range cases {
		input := "id: m\nentities:\n  A:\n    fields:\n      id: string\n      f: " + field + "\n"
		_, err := UnmarshalYAML([]byte(input))
		if !errors.Is(err, ErrTypeResolution) || !errors.Is(err, ErrDecodeModel) {
			t.Fatalf("field %s: error = %v, want type resolution", field, err)
		}
	}
}

// decodeFieldType decodes a model with one field f written as field and returns its type.
func decodeFieldType(t *testing.T, field string) DataType {
	t.Helper()

	input := "id: m\nentities:\n  A:\n    fields:\n      id: string\n      f: " + field + "\nenums:\n  E:\n    values: [{value: a}]\n"
	dm, err := UnmarshalYAML([]byte(input))
	if err != nil {
		t.Fatalf("UnmarshalYAML(%s): %v", field, err)
	}

	entity, _ := dm.Entity("A")
	f, ok := entity.Fields.Get("f")
	if !ok {
		t.Fatal("missing field f")
	}

	return f.Type
}

func TestDecodeYAMLErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		input  string
		target error
	}{
		{
			name:   "duplicate field key",
			input:  "id: m\nentities:\n  A:\n    fields:\n      id: string\n      id: integer\n",
			target: ErrDecodeModel,
		},
		{
			name:   "unknown type",
			input:  "id: m\nentities:\n  A:\n    fields:\n      id: decimal\n",
			target: ErrTypeResolution,
		},
		{
			name:   "no fields",
			input:  "id: m\nentities:\n  A:\n    doc: empty\n",
			target: ErrEmptyFields,
		},
		{
			name:   "no entities",
			input:  "id: m\nobjects:\n  A:\n    fields:\n      id: string\n",
			target: ErrNoEntities,
		},
		{
			name:   "bad id",
			input:  "id: 9m\nentities:\n  A:\n    fields:\n      id: string\n",
			target: ErrInvalidIdentifier,
		},
		{
			name:   "name mismatch",
			input:  "id: m\nentities:\n  A:\n    fields:\n      id: {name: other, type: string}\n",
			target: ErrDecodeModel,
		},
		{
			name:   "duplicate enum value",
			input:  "id: m\nentities:\n  A:\n    fields:\n      id: string\nenums:\n  E:\n    values: [{value: a}, {value: a}]\n",
			target: ErrDuplicateIdentifier,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := UnmarshalYAML([]byte(tc.input))
			if !errors.Is(err, tc.target) {
				t.Fatalf("UnmarshalYAML error = %v, want %v", err, tc.target)
			}
		})
	}
}
