// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// schemaValue is a schema node: an object schema or a boolean schema.
type schemaValue struct {
	Object map[string]any
	Bool   *bool
}

// schemaDocument is the decoded root of a schema file.
type schemaDocument struct {
	Root        schemaValue
	Defs        map[string]schemaValue
	Schema      string
	ID          string
	Ref         string
	Title       string
	Description string
	Draft       DraftInfo
}

// isZero reports whether the node carries nothing.
func (v schemaValue) isZero() bool {
	return v.Object == nil && v.Bool == nil
}

// parseSchemaDocument decodes JSON or YAML schema bytes.
func parseSchemaDocument(data []byte) (schemaDocument, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return schemaDocument{}, ErrEmptySchema
	}

	var raw any
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return schemaDocument{}, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
		}
	} else if err := yaml.Unmarshal(trimmed, &raw); err != nil {
		return schemaDocument{}, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
	}

	object, ok := raw.(map[string]any)
	if !ok {
		return schemaDocument{}, ErrSchemaNotObject
	}

	defs := mapSchemaValues(object["$defs"])
	for name, value := range mapSchemaValues(object["definitions"]) {
		if defs == nil {
			defs = make(map[string]schemaValue)
		}

		if _, exists := defs[name]; !exists {
			defs[name] = value
		}
	}

	doc := schemaDocument{
		Root:        schemaValue{Object: object},
		Defs:        defs,
		Schema:      asString(object["$schema"]),
		ID:          asString(object["$id"]),
		Ref:         asString(object["$ref"]),
		Title:       asString(object["title"]),
		Description: asString(object["description"]),
	}
	doc.Draft = DetectDraft(doc.Schema)

	return doc, nil
}

// toSchemaValue converts a decoded value into a schema node.
func toSchemaValue(raw any) (schemaValue, bool) {
	switch typed := raw.(type) {
	case map[string]any:
		return schemaValue{Object: typed}, true
	case bool:
		return schemaValue{Bool: &typed}, true
	default:
		return schemaValue{}, false
	}
}

// mapSchemaValues converts a keyword object into named schema nodes.
func mapSchemaValues(raw any) map[string]schemaValue {
	object, ok := raw.(map[string]any)
	if !ok || len(object) == 0 {
		return nil
	}

	out := make(map[string]schemaValue, len(object))
	for name, value := range object {
		schema, ok := toSchemaValue(value)
		if !ok {
			continue
		}

		out[name] = schema
	}

	return out
}

// asString returns raw as a trimmed string or empty.
func asString(raw any) string {
	text, _ := raw.(string)
	return strings.TrimSpace(text)
}

// asBool returns raw as bool or false.
func asBool(raw any) bool {
	value, _ := raw.(bool)
	return value
}

// asSlice returns raw as a slice or nil.
func asSlice(raw any) []any {
	values, _ := raw.([]any)
	return values
}

// asStringSlice returns the non-empty strings of a decoded array.
func asStringSlice(raw any) []string {
	values := asSlice(raw)
	if len(values) == 0 {
		return nil
	}

	out := make([]string, 0, len(values))
	for _, value := range values {
		text := asString(value)
		if text == "" {
			continue
		}

		out = append(out, text)
	}

	return out
}

// rootDefinitionName extracts definition name from local JSON pointer reference.
func rootDefinitionName(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	for _, prefix := range []string{"#/$defs/", "#/definitions/"} {
		if !strings.HasPrefix(ref, prefix) {
			continue
		}

		path := strings.TrimPrefix(ref, prefix)
		if path == "" {
			return ""
		}

		parts := strings.Split(path, "/")
		return parts[0]
	}

	return ""
}

// definitionOrder returns deterministic definition order with root first.
func definitionOrder(defs map[string]schemaValue, rootName string) []string {
	keys := slices.Sorted(maps.Keys(defs))
	if len(keys) == 0 {
		return nil
	}

	root := strings.TrimSpace(rootName)
	if root == "" {
		if _, ok := defs["Config"]; ok {
			root = "Config"
		} else {
			root = keys[0]
		}
	}

	if _, ok := defs[root]; !ok {
		return keys
	}

	out := make([]string, 0, len(keys))
	out = append(out, root)
	for _, name := range keys {
		if name == root {
			continue
		}

		out = append(out, name)
	}

	return out
}

// propertyOrder returns required properties first, then optional sorted properties.
func propertyOrder(required []string, properties map[string]schemaValue) []string {
	if len(properties) == 0 {
		return nil
	}

	out := make([]string, 0, len(properties))
	seen := make(map[string]struct{}, len(properties))

	for _, name := range required {
		if _, ok := properties[name]; !ok {
			continue
		}

		if _, exists := seen[name]; exists {
			continue
		}

		seen[name] = struct{}{}
		out = append(out, name)
	}

	optional := make([]string, 0, len(properties))
	for name := range properties {
		if _, exists := seen[name]; exists {
			continue
		}

		optional = append(optional, name)
	}

	sort.Strings(optional)
	out = append(out, optional...)
	return out
}

// mergePropertySchemas merges schema property maps while preserving existing keys.
func mergePropertySchemas(left, right map[string]schemaValue) map[string]schemaValue {
	if len(left) == 0 && len(right) == 0 {
		return nil
	}

	out := make(map[string]schemaValue, len(left)+len(right))
	maps.Copy(out, left)

	for key, value := range right {
		if _, exists := out[key]; exists {
			continue
		}

		out[key] = value
	}

	return out
}

// mergeRequiredKeys appends unique required keys while preserving first-seen order.
func mergeRequiredKeys(left, right []string) []string {
	if len(left) == 0 && len(right) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(left)+len(right))
	out := make([]string, 0, len(left)+len(right))

	for _, key := range slices.Concat(left, right) {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, key)
	}

	return out
}

// nodeDescription returns description, falling back to title.
func nodeDescription(node schemaValue) string {
	if node.Object == nil {
		return ""
	}

	if text := asString(node.Object["description"]); text != "" {
		return text
	}

	return asString(node.Object["title"])
}

// schemaTypeNames returns the lowercase non-null names of the "type" keyword.
func schemaTypeNames(object map[string]any) []string {
	raw, exists := object["type"]
	if !exists {
		return nil
	}

	var names []string
	if text := asString(raw); text != "" {
		names = []string{text}
	} else {
		names = asStringSlice(raw)
	}

	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(name)
		if name == "null" || slices.Contains(out, name) {
			continue
		}

		out = append(out, name)
	}

	return out
}

// isNullSchema reports whether node only admits null.
func isNullSchema(node schemaValue) bool {
	if node.Object == nil {
		return false
	}

	raw, exists := node.Object["type"]
	if !exists {
		return false
	}

	return len(schemaTypeNames(node.Object)) == 0 && (asString(raw) != "" || len(asSlice(raw)) > 0)
}

// hasObjectShape reports whether object declares properties or composes them.
func hasObjectShape(object map[string]any) bool {
	if object == nil {
		return false
	}

	if len(mapSchemaValues(object["properties"])) > 0 {
		return true
	}

	if len(asSlice(object["allOf"])) == 0 {
		return false
	}

	names := schemaTypeNames(object)
	return len(names) == 0 || slices.Equal(names, []string{"object"})
}

// hasArrayShape reports whether schema has array structure keywords.
func hasArrayShape(object map[string]any) bool {
	if _, ok := toSchemaValue(object["items"]); ok {
		return true
	}

	return len(asSlice(object["prefixItems"])) > 0
}
