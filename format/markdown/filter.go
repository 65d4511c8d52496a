// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package markdown

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/woozymasta/dmdoc/model"
)

// entityFilter selects entities with a boolean expression.
type entityFilter struct {
	source  string
	program *vm.Program
}

// compileFilter compiles source against the entity environment.
// A blank source keeps every entity.
func compileFilter(source string) (*entityFilter, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, nil
	}

	program, err := expr.Compile(source, expr.Env(filterEnv(nil)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrEntityFilter, source, err)
	}

	return &entityFilter{source: source, program: program}, nil
}

// keep evaluates the filter for entity; a nil filter keeps everything.
func (f *entityFilter) keep(entity *model.Entity) (bool, error) {
	if f == nil {
		return true, nil
	}

	out, err := vm.Run(f.program, filterEnv(entity))
	if err != nil {
		return false, fmt.Errorf("%w %q on %q: %w", ErrEntityFilter, f.source, entity.Name, err)
	}

	keep, _ := out.(bool)
	return keep, nil
}

// filterEnv exposes entity attributes to filter expressions:
// name, doc, aliases, fields, keys and references (target entity names).
func filterEnv(entity *model.Entity) map[string]any {
	env := map[string]any{
		"name":       "",
		"doc":        "",
		"aliases":    []string{},
		"fields":     []string{},
		"keys":       []string{},
		"references": []string{},
	}

	if entity == nil {
		return env
	}

	keys := []string{}
	for _, field := range entity.Fields.Values() {
		if field.IsKey {
			keys = append(keys, field.Name)
		}
	}

	references := []string{}
	for _, reference := range entity.References {
		references = append(references, reference.IDEntity)
	}

	env["name"] = entity.Name
	env["doc"] = entity.Doc
	env["aliases"] = append([]string{}, entity.Aliases...)
	env["fields"] = entity.Fields.Keys()
	env["keys"] = keys
	env["references"] = references
	return env
}
