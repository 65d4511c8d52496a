// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package jsonschema

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/woozymasta/dmdoc/model"
)

// maxRefDepth bounds $ref chains followed while collecting shapes and aliases.
const maxRefDepth = 32

// Options configures schema conversion.
type Options struct {
	// Logger receives conversion warnings, nil discards them.
	Logger *slog.Logger
	// ID is the model identifier, derived from the schema title when empty.
	ID string
	// Name is the model display name, the schema title when empty.
	Name string
	// Doc is the model description, the schema description when empty.
	Doc string
	// Root names the entity synthesized from root properties, "Root" when empty.
	Root string
	// Entities lists definitions that become entities.
	// When empty the root $ref definition, or the root object itself, is the entity.
	Entities []string
	// Strict rejects schemas without a resolvable type instead of mapping them to string.
	Strict bool
	// Constraints appends validation keywords and defaults to field docs.
	Constraints bool
}

// definitionClass tells how a definition becomes part of the model.
type definitionClass int

const (
	// classAlias definitions are inlined where referenced.
	classAlias definitionClass = iota
	classEntity
	classObject
	classEnum
)

// pendingObject is an inline object schema waiting to become a shared object.
type pendingObject struct {
	Name   string
	Schema schemaValue
}

// converter turns one schema document into a data model.
type converter struct {
	logger  *slog.Logger
	defs    map[string]schemaValue
	classes map[string]definitionClass
	taken   map[string]struct{}
	enums   map[string]struct{}
	aliases map[string]struct{}
	pending []pendingObject
	inline  []*model.Enum
	opts    Options
	doc     schemaDocument
}

// Convert builds a data model from JSON or YAML schema bytes.
func Convert(data []byte, opts Options) (*model.DataModel, error) {
	doc, err := parseSchemaDocument(data)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if doc.Schema != "" && !doc.Draft.Supported {
		logger.Warn("schema draft is not supported, conversion may be incomplete", "draft", doc.Draft.String())
	}

	c := &converter{
		logger:  logger,
		defs:    make(map[string]schemaValue, len(doc.Defs)+1),
		classes: make(map[string]definitionClass, len(doc.Defs)+1),
		taken:   make(map[string]struct{}),
		enums:   make(map[string]struct{}),
		aliases: make(map[string]struct{}),
		opts:    opts,
		doc:     doc,
	}
	maps.Copy(c.defs, doc.Defs)

	return c.convert()
}

// convert classifies definitions and emits entities, objects and enums.
func (c *converter) convert() (*model.DataModel, error) {
	entities, err := c.entityNames()
	if err != nil {
		return nil, err
	}

	c.classify(entities)
	order := definitionOrder(c.defs, entities[0])

	builder := model.NewBuilder(c.modelID()).
		SetName(firstNonEmpty(c.opts.Name, c.doc.Title)).
		SetDoc(firstNonEmpty(c.opts.Doc, c.doc.Description))

	for _, name := range order {
		if c.classes[name] == classObject {
			c.pending = append(c.pending, pendingObject{Name: name, Schema: c.defs[name]})
		}
	}

	for _, name := range entities {
		fields, references, err := c.shape(name, c.defs[name])
		if err != nil {
			return nil, err
		}

		entity, err := model.NewEntity(name, fields, c.objectOptions(c.defs[name], references)...)
		if err != nil {
			return nil, err
		}

		if err := builder.AddEntity(entity); err != nil {
			return nil, err
		}
	}

	for len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]

		fields, references, err := c.shape(next.Name, next.Schema)
		if err != nil {
			return nil, err
		}

		object, err := model.NewObject(next.Name, fields, c.objectOptions(next.Schema, references)...)
		if err != nil {
			return nil, err
		}

		if err := builder.AddObject(object); err != nil {
			return nil, err
		}
	}

	for _, name := range order {
		if c.classes[name] != classEnum {
			continue
		}

		enum, err := c.enumFromDefinition(name, c.defs[name])
		if err != nil {
			return nil, err
		}

		if err := builder.AddEnum(enum); err != nil {
			return nil, err
		}
	}

	for _, enum := range c.inline {
		if err := builder.AddEnum(enum); err != nil {
			return nil, err
		}
	}

	return builder.Build()
}

// entityNames selects entity definitions, synthesizing the root when needed.
func (c *converter) entityNames() ([]string, error) {
	var entities []string
	for _, name := range c.opts.Entities {
		name = strings.TrimSpace(name)
		if name == "" || slices.Contains(entities, name) {
			continue
		}

		entities = append(entities, name)
	}

	if len(entities) == 0 {
		rootName := rootDefinitionName(c.doc.Ref)
		switch {
		case rootName != "":
			entities = []string{rootName}
		case hasObjectShape(c.doc.Root.Object):
			label := firstNonEmpty(c.opts.Root, "Root")
			c.defs[label] = c.doc.Root
			entities = []string{label}
		default:
			return nil, ErrNoEntity
		}
	}

	for _, name := range entities {
		if _, ok := c.defs[name]; !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownDefinition, name)
		}
	}

	return entities, nil
}

// classify assigns every definition its role in the model.
func (c *converter) classify(entities []string) {
	for name, def := range c.defs {
		c.taken[name] = struct{}{}

		switch {
		case slices.Contains(entities, name):
			c.classes[name] = classEntity
		case def.Object != nil && len(enumValues(def.Object)) > 0 && !hasObjectShape(def.Object):
			c.classes[name] = classEnum
			c.enums[name] = struct{}{}
		case hasObjectShape(def.Object):
			c.classes[name] = classObject
		default:
			c.classes[name] = classAlias
		}
	}
}

// objectOptions maps definition metadata to constructor options.
func (c *converter) objectOptions(schema schemaValue, references []model.EntityReference) []model.ObjectOption {
	opts := []model.ObjectOption{
		model.WithDoc(nodeDescription(schema)),
		model.WithReferences(references...),
	}

	if schema.Object != nil {
		opts = append(opts, model.WithAliases(asStringSlice(schema.Object["x-aliases"])...))
	}

	return opts
}

// shape converts the properties of an object schema into fields and references.
func (c *converter) shape(owner string, schema schemaValue) ([]model.Field, []model.EntityReference, error) {
	properties, required := c.collectObjectShape(schema, 0)
	order := propertyOrder(required, properties)

	fields := make([]model.Field, 0, len(order))
	var references []model.EntityReference
	if schema.Object != nil {
		declared, err := decodeReferences(owner, schema.Object["x-references"])
		if err != nil {
			return nil, nil, err
		}

		references = declared
	}

	for _, name := range order {
		property := properties[name]
		path := owner + "." + name

		dataType, err := c.typeOf(property, owner+pascalCase(name), path)
		if err != nil {
			return nil, nil, err
		}

		field := model.Field{
			Name:       name,
			Type:       dataType,
			Doc:        nodeDescription(property),
			IsRequired: slices.Contains(required, name),
		}

		if property.Object != nil {
			field.IsKey = asBool(property.Object["x-key"])
			if c.opts.Constraints {
				field.Doc = appendNote(field.Doc, constraintNote(property.Object))
			}

			if target := asString(property.Object["x-reference"]); target != "" {
				reference, err := propertyReference(owner, name, target)
				if err != nil {
					return nil, nil, err
				}

				references = append(references, reference)
			}
		}

		fields = append(fields, field)
	}

	return fields, references, nil
}

// collectObjectShape merges local properties, allOf overlays and referenced shapes.
func (c *converter) collectObjectShape(node schemaValue, depth int) (map[string]schemaValue, []string) {
	if node.Object == nil || depth > maxRefDepth {
		return nil, nil
	}

	object := node.Object
	properties := mapSchemaValues(object["properties"])
	required := asStringSlice(object["required"])

	if name := rootDefinitionName(asString(object["$ref"])); name != "" {
		nested, nestedRequired := c.collectObjectShape(c.defs[name], depth+1)
		properties = mergePropertySchemas(properties, nested)
		required = mergeRequiredKeys(required, nestedRequired)
	}

	for _, raw := range asSlice(object["allOf"]) {
		schema, ok := toSchemaValue(raw)
		if !ok {
			continue
		}

		nested, nestedRequired := c.collectObjectShape(schema, depth+1)
		properties = mergePropertySchemas(properties, nested)
		required = mergeRequiredKeys(required, nestedRequired)
	}

	return properties, required
}

// typeOf maps a schema node to a data type.
// hint names synthesized objects and enums, path locates errors.
func (c *converter) typeOf(node schemaValue, hint, path string) (model.DataType, error) {
	if node.Object == nil {
		return c.untyped(path)
	}

	object := node.Object
	if ref := asString(object["$ref"]); ref != "" && !hasObjectShape(object) {
		return c.refType(ref, hint, path)
	}

	if values := enumValues(object); len(values) > 0 {
		return c.inlineEnum(hint, object, values)
	}

	for _, keyword := range []string{"anyOf", "oneOf"} {
		if alternatives := asSlice(object[keyword]); len(alternatives) > 0 {
			return c.unionOf(alternatives, hint, path)
		}
	}

	if parts := asSlice(object["allOf"]); len(parts) == 1 && !hasObjectShape(object) {
		if part, ok := toSchemaValue(parts[0]); ok {
			return c.typeOf(part, hint, path)
		}
	}

	names := schemaTypeNames(object)
	if len(names) > 1 {
		types := make([]model.DataType, 0, len(names))
		for _, name := range names {
			dataType, err := c.namedType(name, object, hint, path)
			if err != nil {
				return nil, err
			}

			types = appendUniqueType(types, dataType)
		}

		if len(types) == 1 {
			return types[0], nil
		}

		return model.Union{Types: types}, nil
	}

	name := ""
	if len(names) == 1 {
		name = names[0]
	}

	return c.namedType(name, object, hint, path)
}

// namedType maps one "type" keyword value.
func (c *converter) namedType(name string, object map[string]any, hint, path string) (model.DataType, error) {
	switch name {
	case "string":
		return stringType(object), nil
	case "integer":
		return model.Integer, nil
	case "number":
		return model.Number, nil
	case "boolean":
		return model.Boolean, nil
	case "array":
		return c.arrayType(object, hint, path)
	case "object":
		return c.objectType(object, hint, path)
	case "":
		switch {
		case hasObjectShape(object) || object["additionalProperties"] != nil:
			return c.objectType(object, hint, path)
		case hasArrayShape(object):
			return c.arrayType(object, hint, path)
		}

		return c.untyped(path)
	default:
		return nil, &model.TypeResolutionError{Reason: fmt.Sprintf("%s: unsupported schema type %q", path, name)}
	}
}

// stringType maps string formats to temporal and binary primitives.
func stringType(object map[string]any) model.DataType {
	switch strings.ToLower(asString(object["format"])) {
	case "date":
		return model.Date
	case "date-time":
		return model.DateTime
	case "time":
		return model.Time
	case "byte", "binary":
		return model.Bytes
	}

	if strings.EqualFold(asString(object["contentEncoding"]), "base64") {
		return model.Bytes
	}

	return model.String
}

// arrayType maps items or the first prefixItems entry.
func (c *converter) arrayType(object map[string]any, hint, path string) (model.DataType, error) {
	items, ok := toSchemaValue(object["items"])
	if !ok {
		if prefix := asSlice(object["prefixItems"]); len(prefix) > 0 {
			items, ok = toSchemaValue(prefix[0])
		}
	}

	if !ok {
		element, err := c.untyped(path + "[]")
		if err != nil {
			return nil, err
		}

		return model.Array{Items: element}, nil
	}

	element, err := c.typeOf(items, hint+"Item", path+"[]")
	if err != nil {
		return nil, err
	}

	return model.Array{Items: element}, nil
}

// objectType maps inline objects to synthesized shared objects and dictionaries to maps.
func (c *converter) objectType(object map[string]any, hint, path string) (model.DataType, error) {
	if properties, _ := c.collectObjectShape(schemaValue{Object: object}, 0); len(properties) > 0 {
		name := c.uniqueName(hint, c.taken)
		c.pending = append(c.pending, pendingObject{Name: name, Schema: schemaValue{Object: object}})
		return model.ObjectRef{ID: name}, nil
	}

	if values, ok := object["additionalProperties"].(map[string]any); ok {
		valueType, err := c.typeOf(schemaValue{Object: values}, hint+"Value", path+"[]")
		if err != nil {
			return nil, err
		}

		return model.Map{Values: valueType}, nil
	}

	valueType, err := c.untyped(path + "[]")
	if err != nil {
		return nil, err
	}

	return model.Map{Values: valueType}, nil
}

// refType maps a local definition reference.
func (c *converter) refType(ref, hint, path string) (model.DataType, error) {
	name := rootDefinitionName(ref)
	if name == "" {
		return nil, &model.TypeResolutionError{Kind: model.KindObject, Reason: fmt.Sprintf("%s: unsupported reference %q", path, ref)}
	}

	def, ok := c.defs[name]
	if !ok {
		return nil, &model.TypeResolutionError{Kind: model.KindObject, Reason: fmt.Sprintf("%s: unknown definition %q", path, name)}
	}

	switch c.classes[name] {
	case classEnum:
		return model.EnumRef{ID: name}, nil
	case classEntity, classObject:
		return model.ObjectRef{ID: name}, nil
	}

	if _, active := c.aliases[name]; active || len(c.aliases) >= maxRefDepth {
		return nil, &model.TypeResolutionError{Reason: fmt.Sprintf("%s: definition %q refers to itself", path, name)}
	}

	c.aliases[name] = struct{}{}
	defer delete(c.aliases, name)

	return c.typeOf(def, name, path)
}

// unionOf maps anyOf/oneOf alternatives, dropping null and duplicates.
func (c *converter) unionOf(alternatives []any, hint, path string) (model.DataType, error) {
	types := make([]model.DataType, 0, len(alternatives))
	for index, raw := range alternatives {
		alternative, ok := toSchemaValue(raw)
		if !ok || isNullSchema(alternative) {
			continue
		}

		dataType, err := c.typeOf(alternative, hint+"Option"+strconv.Itoa(index+1), path)
		if err != nil {
			return nil, err
		}

		types = appendUniqueType(types, dataType)
	}

	switch len(types) {
	case 0:
		return c.untyped(path)
	case 1:
		return types[0], nil
	default:
		return model.Union{Types: types}, nil
	}
}

// inlineEnum synthesizes a shared enum from an inline enum keyword.
func (c *converter) inlineEnum(hint string, object map[string]any, values []string) (model.DataType, error) {
	name := c.uniqueName(hint, c.enums)
	members := make([]model.EnumValue, 0, len(values))
	for _, value := range values {
		members = append(members, model.EnumValue{Value: value})
	}

	enum, err := model.NewEnum(name, members, model.WithDoc(nodeDescription(schemaValue{Object: object})))
	if err != nil {
		return nil, err
	}

	c.inline = append(c.inline, enum)
	return model.EnumRef{ID: name}, nil
}

// enumFromDefinition converts an enum definition.
func (c *converter) enumFromDefinition(name string, def schemaValue) (*model.Enum, error) {
	descriptions := asSlice(def.Object["x-enum-descriptions"])
	values := enumValues(def.Object)

	members := make([]model.EnumValue, 0, len(values))
	for index, value := range values {
		item := model.EnumValue{Value: value}
		if index < len(descriptions) {
			item.Doc = asString(descriptions[index])
		}

		members = append(members, item)
	}

	return model.NewEnum(name, members,
		model.WithDoc(nodeDescription(def)),
		model.WithAliases(asStringSlice(def.Object["x-aliases"])...))
}

// untyped handles schemas without a resolvable type.
func (c *converter) untyped(path string) (model.DataType, error) {
	if c.opts.Strict {
		return nil, &model.TypeResolutionError{Reason: path + ": schema declares no type"}
	}

	c.logger.Warn("schema declares no type, using string", "path", path)
	return model.String, nil
}

// uniqueName derives an unused identifier from hint.
func (c *converter) uniqueName(hint string, used map[string]struct{}) string {
	base := sanitizeIdentifier(hint)
	name := base
	for index := 2; ; index++ {
		if _, exists := used[name]; !exists {
			break
		}

		name = base + strconv.Itoa(index)
	}

	used[name] = struct{}{}
	return name
}

// modelID returns the configured or derived model identifier.
func (c *converter) modelID() string {
	if id := strings.TrimSpace(c.opts.ID); id != "" {
		return id
	}

	if c.doc.Title != "" {
		return sanitizeIdentifier(c.doc.Title)
	}

	return "schema"
}

// enumValues returns enum keyword members as strings, skipping null.
func enumValues(object map[string]any) []string {
	raw := asSlice(object["enum"])
	if len(raw) == 0 {
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, value := range raw {
		if value == nil {
			continue
		}

		text := fmt.Sprint(value)
		if slices.Contains(out, text) {
			continue
		}

		out = append(out, text)
	}

	return out
}

// decodeReferences converts the x-references keyword.
func decodeReferences(owner string, raw any) ([]model.EntityReference, error) {
	if raw == nil {
		return nil, nil
	}

	items := asSlice(raw)
	if items == nil {
		return nil, fmt.Errorf("%w: %s: x-references must be an array", ErrInvalidReference, owner)
	}

	references := make([]model.EntityReference, 0, len(items))
	for index, item := range items {
		object, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: x-references[%d] must be an object", ErrInvalidReference, owner, index)
		}

		reference := model.EntityReference{
			IDEntity: asString(object["id_entity"]),
			Name:     asString(object["name"]),
		}

		for _, rawMapping := range asSlice(object["mapping"]) {
			mapping, ok := rawMapping.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s: x-references[%d] mapping must hold objects", ErrInvalidReference, owner, index)
			}

			reference.Mapping = append(reference.Mapping, model.FieldReference{
				Source:      asString(mapping["source"]),
				Destination: asString(mapping["destination"]),
			})
		}

		references = append(references, reference)
	}

	return references, nil
}

// propertyReference converts "Entity.path" of an x-reference keyword.
func propertyReference(owner, property, target string) (model.EntityReference, error) {
	entity, path, ok := strings.Cut(target, ".")
	if !ok || strings.TrimSpace(entity) == "" || strings.TrimSpace(path) == "" {
		return model.EntityReference{}, fmt.Errorf("%w: %s.%s: x-reference %q must look like Entity.field", ErrInvalidReference, owner, property, target)
	}

	return model.EntityReference{
		IDEntity: strings.TrimSpace(entity),
		Name:     property,
		Mapping:  []model.FieldReference{{Source: property, Destination: strings.TrimSpace(path)}},
	}, nil
}

// appendUniqueType appends t unless an equal type is present.
func appendUniqueType(types []model.DataType, t model.DataType) []model.DataType {
	for _, existing := range types {
		if model.EqualTypes(existing, t) {
			return types
		}
	}

	return append(types, t)
}

// pascalCase converts snake, kebab or dotted names to PascalCase.
func pascalCase(value string) string {
	var out strings.Builder
	upper := true
	for _, r := range value {
		if r == '_' || r == '-' || r == '.' || r == ' ' {
			upper = true
			continue
		}

		if upper {
			out.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}

		out.WriteRune(r)
	}

	return out.String()
}

// sanitizeIdentifier maps value onto the identifier alphabet.
func sanitizeIdentifier(value string) string {
	var out strings.Builder
	for _, r := range strings.TrimSpace(value) {
		if r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
			out.WriteRune(r)
			continue
		}

		out.WriteByte('_')
	}

	name := out.String()
	if name == "" {
		return "_"
	}

	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}

	return name
}

// firstNonEmpty returns the first value that is not blank.
func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}

	return ""
}
