// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package gostruct

import (
	"cmp"
	"fmt"
	"go/constant"
	"go/types"
	"log/slog"
	"reflect"
	"slices"
	"strconv"

	"golang.org/x/tools/go/packages"

	"github.com/woozymasta/dmdoc/model"
)

// pendingStruct is a struct type waiting to become a shared object.
type pendingStruct struct {
	Struct *types.Struct
	Object *types.TypeName
	Name   string
	Hint   string
}

// converter maps the types of one loaded package to a data model.
type converter struct {
	logger   *slog.Logger
	pkg      *packages.Package
	index    packageIndex
	names    map[*types.TypeName]string
	entity   map[string]string
	enums    map[*types.TypeName]string
	used     map[string]struct{}
	usedEnum map[string]struct{}
	pending  []pendingStruct
	out      []*model.Enum
	tag      string
}

// newConverter indexes pkg for conversion.
func newConverter(pkg *packages.Package, tag string, logger *slog.Logger) *converter {
	return &converter{
		logger:   logger,
		pkg:      pkg,
		index:    indexPackage(pkg),
		names:    make(map[*types.TypeName]string),
		entity:   make(map[string]string),
		enums:    make(map[*types.TypeName]string),
		used:     make(map[string]struct{}),
		usedEnum: make(map[string]struct{}),
		tag:      tag,
	}
}

// convert builds the data model from entity type names.
func (c *converter) convert(cfg Config) (*model.DataModel, error) {
	entities, err := c.entityTypes(cfg.Entities)
	if err != nil {
		return nil, err
	}

	for _, object := range entities {
		name := object.Name()
		if table, ok := c.index.tableNames[name]; ok {
			name = table
		}

		c.names[object] = name
		c.entity[object.Name()] = name
		c.used[name] = struct{}{}
	}

	id := cfg.ID
	if id == "" {
		id = c.pkg.Name
	}

	doc := cfg.Doc
	if doc == "" {
		doc = c.index.packageDoc
	}

	builder := model.NewBuilder(id).SetName(cfg.Name).SetDoc(doc)

	for _, object := range entities {
		structType := object.Type().Underlying().(*types.Struct)
		fields, references, err := c.fields(object.Name(), structType)
		if err != nil {
			return nil, err
		}

		entity, err := model.NewEntity(c.names[object], fields,
			model.WithDoc(c.index.docs[object]), model.WithReferences(references...))
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

		fields, references, err := c.fields(next.Hint, next.Struct)
		if err != nil {
			return nil, err
		}

		doc := ""
		if next.Object != nil {
			doc = c.index.docs[next.Object]
		}

		object, err := model.NewObject(next.Name, fields, model.WithDoc(doc), model.WithReferences(references...))
		if err != nil {
			return nil, err
		}

		if err := builder.AddObject(object); err != nil {
			return nil, err
		}
	}

	for _, enum := range c.out {
		if err := builder.AddEnum(enum); err != nil {
			return nil, err
		}
	}

	return builder.Build()
}

// entityTypes returns configured entity types or discovers them.
// Discovery prefers exported structs with a TableName method and falls back
// to every exported struct of the package.
func (c *converter) entityTypes(names []string) ([]*types.TypeName, error) {
	scope := c.pkg.Types.Scope()

	if len(names) > 0 {
		out := make([]*types.TypeName, 0, len(names))
		for _, name := range names {
			object, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !isStruct(object) {
				return nil, fmt.Errorf("%w %q in %s", ErrUnknownType, name, c.pkg.PkgPath)
			}

			out = append(out, object)
		}

		return out, nil
	}

	var structs, tables []*types.TypeName
	for _, name := range scope.Names() {
		object, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !object.Exported() || object.IsAlias() || !isStruct(object) {
			continue
		}

		structs = append(structs, object)
		method, _, _ := types.LookupFieldOrMethod(types.NewPointer(object.Type()), true, object.Pkg(), "TableName")
		if _, ok := method.(*types.Func); ok {
			tables = append(tables, object)
		}
	}

	out := tables
	if len(out) == 0 {
		out = structs
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoStructs, c.pkg.PkgPath)
	}

	slices.SortStableFunc(out, func(a, b *types.TypeName) int {
		return cmp.Compare(a.Pos(), b.Pos())
	})

	return out, nil
}

// fields converts exported struct fields, flattening untagged embedded structs.
func (c *converter) fields(hint string, structType *types.Struct) ([]model.Field, []model.EntityReference, error) {
	var (
		fields     []model.Field
		references []model.EntityReference
	)

	for i := range structType.NumFields() {
		variable := structType.Field(i)
		if !variable.Exported() {
			continue
		}

		tag := parseFieldTag(reflect.StructTag(structType.Tag(i)), c.tag)
		if tag.Skip {
			continue
		}

		if variable.Embedded() && tag.Name == "" {
			if embedded, ok := derefStruct(variable.Type()); ok {
				nested, nestedReferences, err := c.fields(hint, embedded)
				if err != nil {
					return nil, nil, err
				}

				fields = append(fields, nested...)
				references = mergeReferences(references, nestedReferences...)
				continue
			}
		}

		name := tag.Name
		if name == "" {
			name = variable.Name()
		}

		dataType, optional, err := c.fieldType(variable, tag, hint+variable.Name())
		if err != nil {
			return nil, nil, fmt.Errorf("%s.%s: %w", hint, variable.Name(), err)
		}

		required := !optional && !tag.OmitEmpty
		switch {
		case tag.Required:
			required = true
		case tag.Optional:
			required = false
		}

		fields = append(fields, model.Field{
			Name:       name,
			Type:       dataType,
			Doc:        c.index.docs[variable],
			IsKey:      tag.Key,
			IsRequired: required,
		})

		if tag.Ref != "" {
			reference, err := c.reference(name, tag)
			if err != nil {
				return nil, nil, fmt.Errorf("%s.%s: %w", hint, variable.Name(), err)
			}

			references = mergeReferences(references, reference)
		}
	}

	return fields, references, nil
}

// fieldType resolves the field type, honoring a type override in the tag.
func (c *converter) fieldType(variable *types.Var, tag fieldTag, hint string) (model.DataType, bool, error) {
	_, optional := variable.Type().Underlying().(*types.Pointer)
	if tag.Type != "" {
		dataType, err := model.ParseDataType(tag.Type)
		return dataType, optional, err
	}

	dataType, err := c.typeOf(variable.Type(), hint)
	return dataType, optional, err
}

// reference builds the reference declared by a ref tag option.
func (c *converter) reference(field string, tag fieldTag) (model.EntityReference, error) {
	entity, path, ok := splitReference(tag.Ref)
	if !ok {
		return model.EntityReference{}, fmt.Errorf("%w: %q", ErrInvalidReference, tag.Ref)
	}

	if name, ok := c.entity[entity]; ok {
		entity = name
	}

	name := tag.RefName
	if name == "" {
		name = field
	}

	return model.EntityReference{
		IDEntity: entity,
		Name:     name,
		Mapping:  []model.FieldReference{{Source: field, Destination: path}},
	}, nil
}

// typeOf maps a Go type to a data type.
func (c *converter) typeOf(t types.Type, hint string) (model.DataType, error) {
	switch typed := t.(type) {
	case *types.Alias:
		return c.typeOf(types.Unalias(typed), hint)
	case *types.Pointer:
		return c.typeOf(typed.Elem(), hint)
	case *types.Named:
		return c.namedType(typed, hint)
	case *types.Basic:
		return basicType(typed)
	case *types.Slice:
		return c.sequenceType(typed.Elem(), hint)
	case *types.Array:
		return c.sequenceType(typed.Elem(), hint)
	case *types.Map:
		key, ok := typed.Key().Underlying().(*types.Basic)
		if !ok || key.Info()&types.IsString == 0 {
			return nil, &model.TypeResolutionError{Kind: model.KindMap, Reason: "map key " + typed.Key().String() + " is not a string"}
		}

		values, err := c.typeOf(typed.Elem(), hint+"Value")
		if err != nil {
			return nil, err
		}

		return model.Map{Values: values}, nil
	case *types.Struct:
		return c.objectFor(nil, typed, hint), nil
	default:
		return nil, &model.TypeResolutionError{Reason: "Go type " + t.String() + " has no data shape"}
	}
}

// sequenceType maps slices and arrays, byte sequences become bytes.
func (c *converter) sequenceType(elem types.Type, hint string) (model.DataType, error) {
	if basic, ok := elem.(*types.Basic); ok && basic.Kind() == types.Byte {
		return model.Bytes, nil
	}

	items, err := c.typeOf(elem, hint+"Item")
	if err != nil {
		return nil, err
	}

	return model.Array{Items: items}, nil
}

// namedType maps well-known named types, structs, enums and plain definitions.
func (c *converter) namedType(named *types.Named, hint string) (model.DataType, error) {
	object := named.Obj()
	if object.Pkg() != nil && object.Pkg().Path() == "time" && object.Name() == "Time" {
		return model.DateTime, nil
	}

	switch underlying := named.Underlying().(type) {
	case *types.Struct:
		return c.objectFor(object, underlying, object.Name()), nil
	case *types.Basic:
		if name, ok := c.enumFor(named); ok {
			return model.EnumRef{ID: name}, nil
		}
	}

	return c.typeOf(named.Underlying(), hint)
}

// objectFor returns the object reference of a struct, queuing it on first use.
func (c *converter) objectFor(object *types.TypeName, structType *types.Struct, hint string) model.DataType {
	if object != nil {
		if name, ok := c.names[object]; ok {
			return model.ObjectRef{ID: name}
		}
	}

	name := uniqueName(hint, c.used)
	if object != nil {
		c.names[object] = name
	}

	c.pending = append(c.pending, pendingStruct{Struct: structType, Object: object, Name: name, Hint: hint})
	return model.ObjectRef{ID: name}
}

// enumFor returns the enum of a named basic type with declared constants.
func (c *converter) enumFor(named *types.Named) (string, bool) {
	object := named.Obj()
	if name, ok := c.enums[object]; ok {
		return name, true
	}

	if object.Pkg() == nil {
		return "", false
	}

	scope := object.Pkg().Scope()
	var constants []*types.Const
	for _, name := range scope.Names() {
		item, ok := scope.Lookup(name).(*types.Const)
		if !ok || !types.Identical(item.Type(), named) {
			continue
		}

		constants = append(constants, item)
	}

	if len(constants) == 0 {
		return "", false
	}

	slices.SortStableFunc(constants, func(a, b *types.Const) int {
		return cmp.Compare(a.Pos(), b.Pos())
	})

	values := make([]model.EnumValue, 0, len(constants))
	for _, item := range constants {
		values = append(values, model.EnumValue{
			Name:  item.Name(),
			Value: constantText(item.Val()),
			Doc:   c.index.docs[item],
		})
	}

	name := uniqueName(object.Name(), c.usedEnum)
	enum, err := model.NewEnum(name, values, model.WithDoc(c.index.docs[object]))
	if err != nil {
		c.logger.Warn("skipping enum with conflicting constants", "type", object.Name(), "error", err)
		return "", false
	}

	c.enums[object] = name
	c.out = append(c.out, enum)
	return name, true
}

// basicType maps predeclared types.
func basicType(basic *types.Basic) (model.DataType, error) {
	info := basic.Info()
	switch {
	case info&types.IsBoolean != 0:
		return model.Boolean, nil
	case info&types.IsInteger != 0:
		return model.Integer, nil
	case info&types.IsFloat != 0:
		return model.Number, nil
	case info&types.IsString != 0:
		return model.String, nil
	default:
		return nil, &model.TypeResolutionError{Reason: "Go type " + basic.Name() + " has no data shape"}
	}
}

// constantText renders a constant value as enum value text.
func constantText(value constant.Value) string {
	if value.Kind() == constant.String {
		return constant.StringVal(value)
	}

	return value.ExactString()
}

// derefStruct returns the struct behind t and one optional pointer.
func derefStruct(t types.Type) (*types.Struct, bool) {
	if pointer, ok := t.Underlying().(*types.Pointer); ok {
		t = pointer.Elem()
	}

	structType, ok := t.Underlying().(*types.Struct)
	return structType, ok
}

// isStruct reports whether object names a struct type.
func isStruct(object *types.TypeName) bool {
	if object == nil {
		return false
	}

	_, ok := object.Type().Underlying().(*types.Struct)
	return ok
}

// mergeReferences appends references, joining mappings of the same entity and name.
func mergeReferences(references []model.EntityReference, added ...model.EntityReference) []model.EntityReference {
	for _, reference := range added {
		index := slices.IndexFunc(references, func(existing model.EntityReference) bool {
			return existing.IDEntity == reference.IDEntity && existing.Name == reference.Name
		})
		if index < 0 {
			references = append(references, reference)
			continue
		}

		references[index].Mapping = append(references[index].Mapping, reference.Mapping...)
	}

	return references
}

// uniqueName returns base or base with a numeric suffix unused in used.
func uniqueName(base string, used map[string]struct{}) string {
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
