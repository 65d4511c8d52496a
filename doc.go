// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

/*
Package dmdoc documents data models described by external systems.

A source adapter turns an external description (a model file, a JSON Schema,
Go structs, a PostgreSQL schema) into a model.DataModel. The model is
validated once, which resolves every reference and type id, and the validated
model is handed to a renderer (markdown, example, export).

Adapters and renderers are looked up in explicit registries by key:

	fmt.Println(dmdoc.SourceKeys()) // [file gostruct jsonschema postgres]
	fmt.Println(dmdoc.FormatKeys()) // [example export markdown]

A pipeline run loads, validates and writes one output:

	run := dmdoc.NewRun(logger)

	validated, err := run.Load(ctx, "file", source.Params{
		Decode: config.StrictDecoder([]byte("path: model.yaml\n")),
	})
	if err != nil {
		return err
	}

	_, err = run.Generate(validated, "markdown", format.Params{}, dmdoc.Output{
		Path: "docs/model.md",
	})
	if err != nil {
		return err
	}

Check compares rendered output with an existing file and returns a unified
diff together with ErrDrift when they differ.
*/
package dmdoc
