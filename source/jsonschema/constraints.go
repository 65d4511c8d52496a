// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// constraintKeys lists validation keywords summarized in field docs, in output order.
var constraintKeys = []string{
	"minimum",
	"maximum",
	"exclusiveMinimum",
	"exclusiveMaximum",
	"multipleOf",
	"minLength",
	"maxLength",
	"pattern",
	"minItems",
	"maxItems",
	"uniqueItems",
	"minProperties",
	"maxProperties",
}

// constraintNote summarizes validation keywords and the default value of a property.
// It returns an empty string when the property declares neither.
func constraintNote(object map[string]any) string {
	if object == nil {
		return ""
	}

	parts := make([]string, 0, len(constraintKeys))
	for _, key := range constraintKeys {
		value, ok := object[key]
		if !ok {
			continue
		}

		parts = append(parts, "`"+key+"="+inlineJSON(value)+"`")
	}

	var lines []string
	if len(parts) > 0 {
		lines = append(lines, "Constraints: "+strings.Join(parts, ", ")+".")
	}

	if value, ok := object["default"]; ok {
		lines = append(lines, "Default: `"+inlineJSON(value)+"`.")
	}

	return strings.Join(lines, "\n")
}

// appendNote adds note to doc as a separate paragraph.
func appendNote(doc, note string) string {
	switch {
	case note == "":
		return doc
	case doc == "":
		return note
	default:
		return doc + "\n\n" + note
	}
}

// inlineJSON renders value as compact JSON without HTML escaping.
func inlineJSON(value any) string {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return fmt.Sprint(value)
	}

	return strings.TrimSuffix(out.String(), "\n")
}
