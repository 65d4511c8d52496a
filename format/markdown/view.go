// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/woozymasta/dmdoc/format/example"
	"github.com/woozymasta/dmdoc/model"
)

// documentView is the root view model passed to markdown templates.
type documentView struct {
	Title    string
	SchemaID string
	Doc      string
	Contents []linkView
	Entities []shapeView
	Objects  []shapeView
	Enums    []enumView
}

// linkView is one table of contents entry.
type linkView struct {
	Name   string
	Anchor string
	Items  []linkView
}

// shapeView is an entity or shared object section.
type shapeView struct {
	Name         string
	Anchor       string
	Doc          string
	Aliases      []string
	Fields       []fieldView
	References   []referenceView
	ReferencedBy []referenceView
	UsedBy       []string
	Example      string
	ExampleLang  string
}

// fieldView is one rendered field.
type fieldView struct {
	// Label is the field name, inline code for keys and bold otherwise.
	Label    string
	Name     string
	Type     string
	Key      bool
	Required bool
	// Summary is the doc flattened to one line.
	Summary string
	Doc     string
}

// referenceView is one reference with "left: right" field pairs.
type referenceView struct {
	Title string
	Pairs []string
}

// enumView is an enum section.
type enumView struct {
	Name    string
	Anchor  string
	Doc     string
	Aliases []string
	Values  []enumValueView
}

// enumValueView is one enum value, labeled "name [value]" when they differ.
type enumValueView struct {
	Label string
	Doc   string
}

// anchorSet assigns unique heading anchors in document order.
type anchorSet map[string]int

// next returns the anchor of heading, suffixing repeats like GitHub does.
func (set anchorSet) next(heading string) string {
	slug := headingAnchor(heading)
	count := set[slug]
	set[slug] = count + 1
	if count == 0 {
		return slug
	}

	return slug + "-" + strconv.Itoa(count)
}

// viewBuilder converts a validated model into the document view.
type viewBuilder struct {
	opt       Options
	validated *model.Validated
	model     *model.DataModel
	docs      docFormatter
	anchors   anchorSet
	entities  map[string]string
	objects   map[string]string
	enums     map[string]string
}

// buildView prepares data for markdown template rendering.
// Entities rejected by keep are left out together with links to them.
func buildView(v *model.Validated, opt Options, keep func(*model.Entity) (bool, error)) (documentView, error) {
	b := &viewBuilder{
		opt:       opt,
		validated: v,
		model:     v.Model(),
		docs:      docFormatter{width: opt.WrapWidth, marker: opt.ListMarker},
		anchors:   make(anchorSet),
		entities:  make(map[string]string),
		objects:   make(map[string]string),
		enums:     make(map[string]string),
	}

	var entities []*model.Entity
	for _, entity := range b.model.Entities.Values() {
		ok, err := keep(entity)
		if err != nil {
			return documentView{}, err
		}

		if ok {
			entities = append(entities, entity)
		}
	}

	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = b.model.Title()
	}

	view := documentView{
		Title: cell(title),
		Doc:   b.docs.format(b.model.Doc),
	}

	if b.model.Name != "" && b.model.Name != b.model.ID {
		view.SchemaID = b.model.ID
	}

	b.anchors.next(view.Title)
	b.anchors.next("Contents")

	// Anchors are assigned in the order the built-in templates emit headings.
	sections := []linkView{
		{Name: "Entities", Anchor: b.anchors.next("Entities")},
	}

	for _, entity := range entities {
		b.entities[entity.Name] = b.anchors.next(entity.Name)
		b.reserveShapeHeadings(len(entity.References) > 0, b.validated.ReverseReferences(entity.Name).Len() > 0, false, b.opt.ExampleMode != "")
	}

	sections = append(sections, linkView{Name: "Objects", Anchor: b.anchors.next("Objects")})
	for _, object := range b.model.Objects.Values() {
		b.objects[object.Name] = b.anchors.next(object.Name)
		b.reserveShapeHeadings(len(object.References) > 0, false, len(b.validated.ObjectUsages(object.Name)) > 0, false)
	}

	sections = append(sections, linkView{Name: "Enums", Anchor: b.anchors.next("Enums")})
	for _, enum := range b.model.Enums.Values() {
		b.enums[enum.Name] = b.anchors.next(enum.Name)
		b.anchors.next("Values")
	}

	for _, entity := range entities {
		shape, err := b.entityView(entity)
		if err != nil {
			return documentView{}, err
		}

		view.Entities = append(view.Entities, shape)
		sections[0].Items = append(sections[0].Items, linkView{Name: shape.Name, Anchor: shape.Anchor})
	}

	for _, object := range b.model.Objects.Values() {
		shape := b.objectView(object)
		view.Objects = append(view.Objects, shape)
		sections[1].Items = append(sections[1].Items, linkView{Name: shape.Name, Anchor: shape.Anchor})
	}

	for _, enum := range b.model.Enums.Values() {
		item := b.enumView(enum)
		view.Enums = append(view.Enums, item)
		sections[2].Items = append(sections[2].Items, linkView{Name: item.Name, Anchor: item.Anchor})
	}

	view.Contents = sections
	return view, nil
}

// reserveShapeHeadings consumes anchors of the third level headings of a shape.
func (b *viewBuilder) reserveShapeHeadings(references, referencedBy, usedBy, withExample bool) {
	b.anchors.next("List of fields")
	if references {
		b.anchors.next("External references")
	}

	if referencedBy {
		b.anchors.next("Referenced by")
	}

	if usedBy {
		b.anchors.next("Used by")
	}

	if withExample {
		b.anchors.next("Example")
	}
}

// entityView renders one entity section.
func (b *viewBuilder) entityView(entity *model.Entity) (shapeView, error) {
	view := b.shapeView(entity.BaseObject, entity.References, b.entities[entity.Name])

	for source, references := range b.validated.ReverseReferences(entity.Name).All() {
		for _, reference := range references {
			view.ReferencedBy = append(view.ReferencedBy, b.referenceView(reference, source, true))
		}
	}

	if b.opt.ExampleMode != "" {
		data, err := example.Generate(b.model, entity.Name, b.opt.ExampleMode, b.opt.ExampleFormat)
		if err != nil {
			return shapeView{}, fmt.Errorf("%w %q: %w", ErrExample, entity.Name, err)
		}

		view.Example = strings.TrimRight(string(data), "\n")
		view.ExampleLang = string(b.opt.ExampleFormat)
	}

	return view, nil
}

// objectView renders one shared object section.
func (b *viewBuilder) objectView(object *model.Object) shapeView {
	view := b.shapeView(object.BaseObject, object.References, b.objects[object.Name])
	for _, usage := range b.validated.ObjectUsages(object.Name) {
		view.UsedBy = append(view.UsedBy, b.entityLink(usage.Entity)+": "+"`"+usage.Path+"`")
	}

	return view
}

// shapeView renders fields and outgoing references shared by entities and objects.
func (b *viewBuilder) shapeView(base model.BaseObject, references []model.EntityReference, anchor string) shapeView {
	view := shapeView{
		Name:    base.Name,
		Anchor:  anchor,
		Doc:     b.docs.format(base.Doc),
		Aliases: base.Aliases,
	}

	for _, field := range base.Fields.Values() {
		label := "**" + field.Name + "**"
		if field.IsKey {
			label = "`" + field.Name + "`"
		}

		view.Fields = append(view.Fields, fieldView{
			Label:    label,
			Name:     field.Name,
			Type:     b.typeText(field.Type),
			Key:      field.IsKey,
			Required: field.IsRequired,
			Summary:  cell(field.Doc),
			Doc:      b.docs.format(field.Doc),
		})
	}

	for _, reference := range references {
		view.References = append(view.References, b.referenceView(reference, reference.IDEntity, false))
	}

	return view
}

// referenceView renders a reference toward or from entity target.
// Reversed references list pairs as "destination: source".
func (b *viewBuilder) referenceView(reference model.EntityReference, target string, reversed bool) referenceView {
	title := b.entityLink(target)
	if reference.Name != "" {
		title = "**" + reference.Name + "** (" + title + ")"
	}

	view := referenceView{Title: title}
	for _, pair := range reference.Mapping {
		if reversed {
			view.Pairs = append(view.Pairs, pair.Destination+": "+pair.Source)
			continue
		}

		view.Pairs = append(view.Pairs, pair.Source+": "+pair.Destination)
	}

	return view
}

// enumView renders one enum section.
func (b *viewBuilder) enumView(enum *model.Enum) enumView {
	view := enumView{
		Name:    enum.Name,
		Anchor:  b.enums[enum.Name],
		Doc:     b.docs.format(enum.Doc),
		Aliases: enum.Aliases,
	}

	for _, value := range enum.Values.Values() {
		label := value.Value
		if value.Name != "" && value.Name != value.Value {
			label = value.Name + " [" + value.Value + "]"
		}

		view.Values = append(view.Values, enumValueView{Label: "**" + label + "**", Doc: cell(value.Doc)})
	}

	return view
}

// typeText renders a data type with links to object and enum sections.
func (b *viewBuilder) typeText(t model.DataType) string {
	switch typed := t.(type) {
	case model.Primitive:
		return string(typed.Kind())
	case model.ObjectRef:
		if anchor, ok := b.objects[typed.ID]; ok {
			return link(typed.ID, anchor)
		}

		return b.entityLink(typed.ID)
	case model.EnumRef:
		if anchor, ok := b.enums[typed.ID]; ok {
			return link(typed.ID, anchor)
		}

		return typed.ID
	case model.Array:
		return "array[" + b.typeText(typed.Items) + "]"
	case model.Map:
		return "map[" + b.typeText(typed.Values) + "]"
	case model.Union:
		parts := make([]string, 0, len(typed.Types))
		for _, item := range typed.Types {
			parts = append(parts, b.typeText(item))
		}

		return "union[" + strings.Join(parts, ", ") + "]"
	default:
		return ""
	}
}

// entityLink links a rendered entity, or prints the bare name of a filtered one.
func (b *viewBuilder) entityLink(name string) string {
	if anchor, ok := b.entities[name]; ok {
		return link(name, anchor)
	}

	return name
}

// link formats a local markdown link.
func link(text, anchor string) string {
	return "[" + text + "](#" + anchor + ")"
}
