// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package gostruct

import (
	"reflect"
	"strings"
)

// fieldTag is the documentation relevant part of a struct field tag.
type fieldTag struct {
	Name      string
	Ref       string
	RefName   string
	Type      string
	Skip      bool
	Key       bool
	Required  bool
	Optional  bool
	OmitEmpty bool
}

// parseFieldTag merges json, db, validate and the adapter tag.
// The adapter tag is applied last and wins.
func parseFieldTag(tag reflect.StructTag, key string) fieldTag {
	var out fieldTag

	if value, ok := tag.Lookup("json"); ok {
		name, options, hasOptions := strings.Cut(value, ",")
		if name == "-" && !hasOptions {
			out.Skip = true
		} else if name != "" {
			out.Name = name
		}

		for option := range strings.SplitSeq(options, ",") {
			if option == "omitempty" || option == "omitzero" {
				out.OmitEmpty = true
			}
		}
	}

	if value, ok := tag.Lookup("db"); ok {
		for option := range strings.SplitSeq(value, ",") {
			option = strings.TrimSpace(option)
			switch {
			case option == "-":
				out.Skip = true
			case option == "pk":
				out.Key = true
			case option == "not_null":
				out.Required = true
			case strings.HasPrefix(option, "ref="):
				out.Ref = strings.TrimPrefix(option, "ref=")
			}
		}
	}

	if value, ok := tag.Lookup("validate"); ok {
		for option := range strings.SplitSeq(value, ",") {
			if strings.TrimSpace(option) == "required" {
				out.Required = true
			}
		}
	}

	if value, ok := tag.Lookup(key); ok {
		for option := range strings.SplitSeq(value, ",") {
			option = strings.TrimSpace(option)
			name, arg, hasArg := strings.Cut(option, "=")
			switch {
			case option == "-":
				out.Skip = true
			case option == "key":
				out.Key = true
			case option == "required":
				out.Required = true
				out.Optional = false
			case option == "optional":
				out.Optional = true
				out.Required = false
			case hasArg && name == "ref":
				out.Ref = arg
			case hasArg && name == "name":
				out.RefName = arg
			case hasArg && name == "type":
				out.Type = arg
			case hasArg && name == "field":
				out.Name = arg
			}
		}
	}

	return out
}

// splitReference splits "Entity.field" or "table:column".
func splitReference(target string) (entity, path string, ok bool) {
	target = strings.TrimSpace(target)
	if entity, path, ok = strings.Cut(target, ":"); ok {
		return strings.TrimSpace(entity), strings.TrimSpace(path), entity != "" && path != ""
	}

	if entity, path, ok = strings.Cut(target, "."); ok {
		return strings.TrimSpace(entity), strings.TrimSpace(path), entity != "" && path != ""
	}

	return "", "", false
}
