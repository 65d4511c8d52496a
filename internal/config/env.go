// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package config

import (
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// envPattern matches ${NAME} and $NAME references.
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// ExpandEnv replaces environment references in value.
// References to unset variables are left as written.
func ExpandEnv(value string) string {
	return envPattern.ReplaceAllStringFunc(value, func(match string) string {
		groups := envPattern.FindStringSubmatch(match)
		name := groups[1]
		if name == "" {
			name = groups[2]
		}

		if resolved, ok := os.LookupEnv(name); ok {
			return resolved
		}

		return match
	})
}

// Interpolate expands environment references in every scalar of node in place.
// Plain scalars that changed lose their tag so the new value resolves again.
func Interpolate(node *yaml.Node) {
	if node == nil {
		return
	}

	if node.Kind == yaml.ScalarNode {
		expanded := ExpandEnv(node.Value)
		if expanded != node.Value {
			node.Value = expanded
			if node.Style == 0 {
				node.Tag = ""
			}
		}

		return
	}

	for _, child := range node.Content {
		Interpolate(child)
	}
}
