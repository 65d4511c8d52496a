// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package model

import "strings"

// maxPathDepth bounds nested object descents during path resolution.
const maxPathDepth = 20

// pathResolver walks field tables looking for one dotted path.
type pathResolver struct {
	model *DataModel
	path  string
	seen  map[string]struct{}
}

// ResolvePath reports whether dotted path names a field reachable from fields.
// Arrays and maps of objects add no path segment; other element types end the path.
// A union matches when any alternative does.
// The walk terminates on cyclic object graphs.
func (m *DataModel) ResolvePath(fields Table[Field], path string) bool {
	if path == "" {
		return false
	}

	resolver := pathResolver{
		model: m,
		path:  path,
		seen:  make(map[string]struct{}),
	}

	return resolver.resolveFields(fields, "", 0)
}

// ResolveOwnerPath resolves path against the entity, or failing that the shared object, named owner.
func (m *DataModel) ResolveOwnerPath(owner, path string) bool {
	if entity, ok := m.Entities.Get(owner); ok {
		return m.ResolvePath(entity.Fields, path)
	}

	if object, ok := m.Objects.Get(owner); ok {
		return m.ResolvePath(object.Fields, path)
	}

	return false
}

// resolveFields tries every field as the next path segment.
func (resolver *pathResolver) resolveFields(fields Table[Field], prefix string, depth int) bool {
	for name, field := range fields.All() {
		candidate := prefix + name
		if candidate == resolver.path {
			return true
		}

		if !strings.HasPrefix(resolver.path, candidate+".") {
			continue
		}

		if resolver.resolveType(field.Type, candidate+".", depth) {
			return true
		}
	}

	return false
}

// resolveType descends into field type with prefix already consumed.
func (resolver *pathResolver) resolveType(t DataType, prefix string, depth int) bool {
	switch typed := t.(type) {
	case ObjectRef:
		if depth >= maxPathDepth {
			return false
		}

		seenKey := typed.ID + "\x00" + prefix
		if _, ok := resolver.seen[seenKey]; ok {
			return false
		}

		resolver.seen[seenKey] = struct{}{}
		fields, ok := resolver.model.lookupShape(typed.ID)
		if !ok {
			return false
		}

		return resolver.resolveFields(fields, prefix, depth+1)
	case Array:
		if item, ok := typed.Items.(ObjectRef); ok {
			return resolver.resolveType(item, prefix, depth)
		}
	case Map:
		if value, ok := typed.Values.(ObjectRef); ok {
			return resolver.resolveType(value, prefix, depth)
		}
	case Union:
		for _, alternative := range typed.Types {
			if resolver.resolveType(alternative, prefix, depth) {
				return true
			}
		}
	}

	return false
}
