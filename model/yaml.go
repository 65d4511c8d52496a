// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// wireModel is the top-level wire document. Ordered sections stay raw nodes.
// Wire structs are decode-only; encoding builds node trees directly.
type wireModel struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name,omitempty"`
	Doc      string    `yaml:"doc,omitempty"`
	Entities yaml.Node `yaml:"entities"`
	Objects  yaml.Node `yaml:"objects"`
	Enums    yaml.Node `yaml:"enums"`
}

// wireObject is the wire form of an entity or shared object.
type wireObject struct {
	Aliases    []string        `yaml:"aliases,omitempty"`
	Doc        string          `yaml:"doc,omitempty"`
	Fields     yaml.Node       `yaml:"fields"`
	References []wireReference `yaml:"references,omitempty"`
}

// wireField is the long wire form of one field.
// The type payload may sit next to a tag string: {type: array, items: string}.
type wireField struct {
	Name       string `yaml:"name,omitempty"`
	Type       any    `yaml:"type"`
	ID         any    `yaml:"id,omitempty"`
	Items      any    `yaml:"items,omitempty"`
	Values     any    `yaml:"values,omitempty"`
	Types      any    `yaml:"types,omitempty"`
	Doc        string `yaml:"doc,omitempty"`
	IsKey      bool   `yaml:"is_key,omitempty"`
	IsRequired bool   `yaml:"is_required,omitempty"`
}

// dataType returns the raw type of the field with inline payload keys lifted
// into a long form. Payload keys next to a type mapping are rejected.
func (w wireField) dataType() (any, error) {
	payload := make(map[string]any, 5)
	for key, value := range map[string]any{
		wireKeyID:     w.ID,
		wireKeyItems:  w.Items,
		wireKeyValues: w.Values,
		wireKeyTypes:  w.Types,
	} {
		if value != nil {
			payload[key] = value
		}
	}

	if len(payload) == 0 {
		return w.Type, nil
	}

	if w.Type == nil {
		return nil, &TypeResolutionError{Reason: "type tag is missing"}
	}

	tag, ok := w.Type.(string)
	if !ok {
		keys := sortedWireKeys(payload)
		return nil, &TypeResolutionError{Reason: fmt.Sprintf("key %q must be inside the type mapping", keys[0])}
	}

	payload[wireKeyType] = tag
	return payload, nil
}

// wireEnum is the wire form of an enum.
type wireEnum struct {
	Aliases []string        `yaml:"aliases,omitempty"`
	Doc     string          `yaml:"doc,omitempty"`
	Values  []wireEnumValue `yaml:"values"`
}

// wireEnumValue is the wire form of one enum value.
type wireEnumValue struct {
	Name  string `yaml:"name,omitempty"`
	Value string `yaml:"value"`
	Doc   string `yaml:"doc,omitempty"`
}

// wireReference is the wire form of an entity reference.
type wireReference struct {
	IDEntity string             `yaml:"id_entity"`
	Name     string             `yaml:"name,omitempty"`
	Mapping  []wireFieldMapping `yaml:"mapping"`
}

// wireFieldMapping is the wire form of a field reference.
type wireFieldMapping struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
}

// DecodeYAML reads one wire form document. JSON input is accepted as YAML.
func DecodeYAML(r io.Reader) (*DataModel, error) {
	var root yaml.Node
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeModel, err)
	}

	return FromNode(&root)
}

// UnmarshalYAML decodes wire form document bytes.
func UnmarshalYAML(data []byte) (*DataModel, error) {
	return DecodeYAML(bytes.NewReader(data))
}

// FromNode builds a data model from a decoded YAML node tree.
func FromNode(node *yaml.Node) (*DataModel, error) {
	node = resolveNode(node)
	if node == nil {
		return nil, fmt.Errorf("%w: empty document", ErrDecodeModel)
	}

	var wire wireModel
	if err := node.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeModel, err)
	}

	builder := NewBuilder(wire.ID).SetName(wire.Name).SetDoc(wire.Doc)

	err := eachPair(&wire.Entities, func(key string, value *yaml.Node) error {
		object, err := decodeWireObject(value)
		if err != nil {
			return err
		}

		fields, err := decodeWireFields(value.Line, &object.Fields)
		if err != nil {
			return err
		}

		entity, err := NewEntity(key, fields, WithAliases(object.Aliases...), WithDoc(object.Doc),
			WithReferences(decodeWireReferences(object.References)...))
		if err != nil {
			return err
		}

		return builder.AddEntity(entity)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: entities: %w", ErrDecodeModel, err)
	}

	err = eachPair(&wire.Objects, func(key string, value *yaml.Node) error {
		object, err := decodeWireObject(value)
		if err != nil {
			return err
		}

		fields, err := decodeWireFields(value.Line, &object.Fields)
		if err != nil {
			return err
		}

		shared, err := NewObject(key, fields, WithAliases(object.Aliases...), WithDoc(object.Doc),
			WithReferences(decodeWireReferences(object.References)...))
		if err != nil {
			return err
		}

		return builder.AddObject(shared)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: objects: %w", ErrDecodeModel, err)
	}

	err = eachPair(&wire.Enums, func(key string, value *yaml.Node) error {
		var wireValue wireEnum
		if err := value.Decode(&wireValue); err != nil {
			return err
		}

		values := make([]EnumValue, 0, len(wireValue.Values))
		for _, item := range wireValue.Values {
			values = append(values, EnumValue(item))
		}

		enum, err := NewEnum(key, values, WithAliases(wireValue.Aliases...), WithDoc(wireValue.Doc))
		if err != nil {
			return err
		}

		return builder.AddEnum(enum)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: enums: %w", ErrDecodeModel, err)
	}

	return builder.Build()
}

// decodeWireObject decodes entity or object body.
func decodeWireObject(node *yaml.Node) (wireObject, error) {
	var object wireObject
	if err := node.Decode(&object); err != nil {
		return wireObject{}, err
	}

	return object, nil
}

// decodeWireFields decodes ordered field mapping; a bare scalar value is a type shorthand.
func decodeWireFields(line int, node *yaml.Node) ([]Field, error) {
	if resolveNode(node) == nil {
		return nil, fmt.Errorf("line %d: %w", line, ErrEmptyFields)
	}

	var fields []Field
	err := eachPair(node, func(key string, value *yaml.Node) error {
		var wire wireField
		if value.Kind == yaml.ScalarNode {
			wire.Type = value.Value
		} else if err := value.Decode(&wire); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}

		if wire.Name != "" && wire.Name != key {
			return fmt.Errorf("line %d: field key %q does not match name %q", value.Line, key, wire.Name)
		}

		rawType, err := wire.dataType()
		if err != nil {
			return fmt.Errorf("line %d: field %q: %w", value.Line, key, err)
		}

		dataType, err := ParseDataType(rawType)
		if err != nil {
			return fmt.Errorf("line %d: field %q: %w", value.Line, key, err)
		}

		fields = append(fields, Field{
			Name:       key,
			Type:       dataType,
			Doc:        wire.Doc,
			IsKey:      wire.IsKey,
			IsRequired: wire.IsRequired,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return fields, nil
}

// decodeWireReferences converts wire references.
func decodeWireReferences(wire []wireReference) []EntityReference {
	out := make([]EntityReference, 0, len(wire))
	for _, item := range wire {
		mapping := make([]FieldReference, 0, len(item.Mapping))
		for _, pair := range item.Mapping {
			mapping = append(mapping, FieldReference(pair))
		}

		out = append(out, EntityReference{IDEntity: item.IDEntity, Name: item.Name, Mapping: mapping})
	}

	return out
}

// resolveNode unwraps document and alias nodes; null yields nil.
func resolveNode(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch node.Kind {
		case 0:
			return nil
		case yaml.DocumentNode:
			if len(node.Content) == 0 {
				return nil
			}

			node = node.Content[0]
		case yaml.AliasNode:
			node = node.Alias
		case yaml.ScalarNode:
			if node.Tag == "!!null" {
				return nil
			}

			return node
		default:
			return node
		}
	}

	return nil
}

// eachPair visits mapping entries in document order; nil or null mapping is empty.
func eachPair(node *yaml.Node, visit func(key string, value *yaml.Node) error) error {
	node = resolveNode(node)
	if node == nil {
		return nil
	}

	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping", node.Line)
	}

	for index := 0; index+1 < len(node.Content); index += 2 {
		key := node.Content[index]
		value := resolveNode(node.Content[index+1])
		if value == nil {
			value = &yaml.Node{Kind: yaml.MappingNode, Line: key.Line}
		}

		if err := visit(key.Value, value); err != nil {
			return err
		}
	}

	return nil
}

// MarshalYAML implements yaml.Marshaler with ordered sections.
func (m *DataModel) MarshalYAML() (any, error) {
	return m.Node(), nil
}

// MarshalJSON implements json.Marshaler with ordered sections.
func (m *DataModel) MarshalJSON() ([]byte, error) {
	return nodeJSON(m.Node())
}

// MarshalJSON implements json.Marshaler with ordered fields.
func (e *Entity) MarshalJSON() ([]byte, error) {
	return nodeJSON(objectNode(e.BaseObject, e.References))
}

// MarshalJSON implements json.Marshaler with ordered fields.
func (o *Object) MarshalJSON() ([]byte, error) {
	return nodeJSON(objectNode(o.BaseObject, o.References))
}

// MarshalJSON implements json.Marshaler.
func (e *Enum) MarshalJSON() ([]byte, error) {
	return nodeJSON(enumNode(e))
}

// Node returns the wire form of the model as an ordered YAML node tree.
func (m *DataModel) Node() *yaml.Node {
	root := mappingNode()
	appendPair(root, "id", stringNode(m.ID))
	if m.Name != "" {
		appendPair(root, "name", stringNode(m.Name))
	}

	if m.Doc != "" {
		appendPair(root, "doc", stringNode(m.Doc))
	}

	entities := mappingNode()
	for name, entity := range m.Entities.All() {
		appendPair(entities, name, objectNode(entity.BaseObject, entity.References))
	}

	appendPair(root, "entities", entities)

	if m.Objects.Len() > 0 {
		objects := mappingNode()
		for name, object := range m.Objects.All() {
			appendPair(objects, name, objectNode(object.BaseObject, object.References))
		}

		appendPair(root, "objects", objects)
	}

	if m.Enums.Len() > 0 {
		enums := mappingNode()
		for name, enum := range m.Enums.All() {
			appendPair(enums, name, enumNode(enum))
		}

		appendPair(root, "enums", enums)
	}

	return root
}

// TypeNode returns the shorthand wire form of t as a YAML node with the tag first.
func TypeNode(t DataType) *yaml.Node {
	switch typed := t.(type) {
	case Primitive:
		return stringNode(string(typed.kind))
	case ObjectRef:
		node := tagNode(KindObject)
		appendPair(node, wireKeyID, stringNode(typed.ID))
		return node
	case EnumRef:
		node := tagNode(KindEnum)
		appendPair(node, wireKeyID, stringNode(typed.ID))
		return node
	case Array:
		node := tagNode(KindArray)
		appendPair(node, wireKeyItems, TypeNode(typed.Items))
		return node
	case Map:
		node := tagNode(KindMap)
		appendPair(node, wireKeyValues, TypeNode(typed.Values))
		return node
	case Union:
		node := tagNode(KindUnion)
		types := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range typed.Types {
			types.Content = append(types.Content, TypeNode(item))
		}

		appendPair(node, wireKeyTypes, types)
		return node
	}

	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

// objectNode encodes entity or object body.
func objectNode(base BaseObject, references []EntityReference) *yaml.Node {
	node := mappingNode()
	if len(base.Aliases) > 0 {
		appendPair(node, "aliases", stringsNode(base.Aliases))
	}

	if base.Doc != "" {
		appendPair(node, "doc", stringNode(base.Doc))
	}

	fields := mappingNode()
	for name, field := range base.Fields.All() {
		appendPair(fields, name, fieldNode(field))
	}

	appendPair(node, "fields", fields)

	if len(references) > 0 {
		list := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, reference := range references {
			list.Content = append(list.Content, referenceNode(reference))
		}

		appendPair(node, "references", list)
	}

	return node
}

// fieldNode encodes one field.
func fieldNode(field Field) *yaml.Node {
	node := mappingNode()
	appendPair(node, wireKeyType, TypeNode(field.Type))
	if field.Doc != "" {
		appendPair(node, "doc", stringNode(field.Doc))
	}

	if field.IsKey {
		appendPair(node, "is_key", boolNode(true))
	}

	if field.IsRequired {
		appendPair(node, "is_required", boolNode(true))
	}

	return node
}

// referenceNode encodes one entity reference.
func referenceNode(reference EntityReference) *yaml.Node {
	node := mappingNode()
	appendPair(node, "id_entity", stringNode(reference.IDEntity))
	if reference.Name != "" {
		appendPair(node, "name", stringNode(reference.Name))
	}

	mapping := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, pair := range reference.Mapping {
		item := mappingNode()
		appendPair(item, "source", stringNode(pair.Source))
		appendPair(item, "destination", stringNode(pair.Destination))
		mapping.Content = append(mapping.Content, item)
	}

	appendPair(node, "mapping", mapping)
	return node
}

// enumNode encodes one enum.
func enumNode(enum *Enum) *yaml.Node {
	node := mappingNode()
	if len(enum.Aliases) > 0 {
		appendPair(node, "aliases", stringsNode(enum.Aliases))
	}

	if enum.Doc != "" {
		appendPair(node, "doc", stringNode(enum.Doc))
	}

	values := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, value := range enum.Values.All() {
		item := mappingNode()
		if value.Name != "" && value.Name != value.Value {
			appendPair(item, "name", stringNode(value.Name))
		}

		appendPair(item, "value", stringNode(value.Value))
		if value.Doc != "" {
			appendPair(item, "doc", stringNode(value.Doc))
		}

		values.Content = append(values.Content, item)
	}

	appendPair(node, "values", values)
	return node
}

// tagNode starts a long-form type mapping.
func tagNode(kind Kind) *yaml.Node {
	node := mappingNode()
	appendPair(node, wireKeyType, stringNode(string(kind)))
	return node
}

// mappingNode returns empty mapping node.
func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// appendPair appends key and value to mapping node.
func appendPair(node *yaml.Node, key string, value *yaml.Node) {
	node.Content = append(node.Content, stringNode(key), value)
}

// stringNode returns string scalar node.
func stringNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// boolNode returns bool scalar node.
func boolNode(value bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(value)}
}

// stringsNode returns sequence of string scalars.
func stringsNode(values []string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, value := range values {
		node.Content = append(node.Content, stringNode(value))
	}

	return node
}

// nodeJSON encodes a node tree built by this package as compact JSON, keeping key order.
func nodeJSON(node *yaml.Node) ([]byte, error) {
	var out bytes.Buffer
	if err := writeNodeJSON(&out, node); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeModel, err)
	}

	return out.Bytes(), nil
}

// writeNodeJSON appends JSON encoding of node to out.
func writeNodeJSON(out *bytes.Buffer, node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			out.WriteString("null")
			return nil
		}

		return writeNodeJSON(out, node.Content[0])
	case yaml.AliasNode:
		return writeNodeJSON(out, node.Alias)
	case yaml.MappingNode:
		out.WriteByte('{')
		for index := 0; index+1 < len(node.Content); index += 2 {
			if index > 0 {
				out.WriteByte(',')
			}

			if err := writeJSONString(out, node.Content[index].Value); err != nil {
				return err
			}

			out.WriteByte(':')
			if err := writeNodeJSON(out, node.Content[index+1]); err != nil {
				return err
			}
		}

		out.WriteByte('}')
	case yaml.SequenceNode:
		out.WriteByte('[')
		for index, item := range node.Content {
			if index > 0 {
				out.WriteByte(',')
			}

			if err := writeNodeJSON(out, item); err != nil {
				return err
			}
		}

		out.WriteByte(']')
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
			out.WriteString("null")
		case "!!bool", "!!int", "!!float":
			out.WriteString(node.Value)
		default:
			return writeJSONString(out, node.Value)
		}
	default:
		return fmt.Errorf("unsupported yaml node kind %d", node.Kind)
	}

	return nil
}

// writeJSONString appends JSON string literal without HTML escaping.
func writeJSONString(out *bytes.Buffer, value string) error {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return err
	}

	out.Write(bytes.TrimRight(buffer.Bytes(), "\n"))
	return nil
}
