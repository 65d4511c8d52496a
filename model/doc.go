// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

/*
Package model holds the intermediate schema representation shared by every
source adapter and renderer.

A DataModel is a named collection of entities, shared objects and enums.
Field shapes are described by the closed DataType union: primitives, object
and enum references, arrays, maps and unions. Models are assembled once with
a Builder and validated once with Validate, which checks every declared
reference and returns a read-only Validated graph with derived indexes.

Build a model:

	users, err := model.NewEntity("Users", []model.Field{
		{Name: "id", Type: model.String, IsKey: true, IsRequired: true},
	})
	if err != nil {
		return err
	}

	orders, err := model.NewEntity("Orders", []model.Field{
		{Name: "id", Type: model.String, IsKey: true, IsRequired: true},
		{Name: "user_id", Type: model.String, IsRequired: true},
	}, model.WithReferences(model.EntityReference{
		IDEntity: "Users",
		Mapping:  []model.FieldReference{{Source: "user_id", Destination: "id"}},
	}))
	if err != nil {
		return err
	}

	builder := model.NewBuilder("shop")
	if err := builder.AddEntity(users); err != nil {
		return err
	}

	if err := builder.AddEntity(orders); err != nil {
		return err
	}

	dm, err := builder.Build()
	if err != nil {
		return err
	}

Validate and query derived indexes:

	validated, err := model.Validate(dm)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			for _, problem := range verr.Problems {
				fmt.Println(problem)
			}
		}

		return err
	}

	for name, refs := range validated.ReverseReferences("Users").All() {
		fmt.Println(name, len(refs))
	}

Decode the wire form:

	dm, err := model.DecodeYAML(reader)
*/
package model
