// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package example

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarshalJSON writes members in declaration order.
func (o object) MarshalJSON() ([]byte, error) {
	var out bytes.Buffer
	out.WriteByte('{')
	for i, item := range o {
		if i > 0 {
			out.WriteByte(',')
		}

		if err := writeJSONValue(&out, item.Name); err != nil {
			return nil, err
		}

		out.WriteByte(':')
		if err := writeJSONValue(&out, item.Value); err != nil {
			return nil, err
		}
	}

	out.WriteByte('}')
	return out.Bytes(), nil
}

// writeJSONValue appends compact JSON of value without HTML escaping.
func writeJSONValue(out *bytes.Buffer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return err
	}

	out.Truncate(out.Len() - 1)
	return nil
}

// marshalJSON serializes an example as pretty JSON.
func marshalJSON(value any) ([]byte, error) {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(value); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// marshalYAML serializes an example as YAML with member docs as key comments.
func marshalYAML(value any) ([]byte, error) {
	document := &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{yamlNode(value)},
	}

	var out bytes.Buffer
	encoder := yaml.NewEncoder(&out)
	encoder.SetIndent(2)

	if err := encoder.Encode(document); err != nil {
		return nil, err
	}

	if err := encoder.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// yamlNode builds an ordered node tree from a generated value.
func yamlNode(value any) *yaml.Node {
	switch typed := value.(type) {
	case nil:
		return scalarNode("!!null", "null")
	case bool:
		return scalarNode("!!bool", strconv.FormatBool(typed))
	case int:
		return scalarNode("!!int", strconv.Itoa(typed))
	case float64:
		return scalarNode("!!float", strconv.FormatFloat(typed, 'g', -1, 64))
	case string:
		return scalarNode("!!str", typed)
	case object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, item := range typed {
			key := scalarNode("!!str", item.Name)
			key.HeadComment = comment(item.Doc)
			node.Content = append(node.Content, key, yamlNode(item.Value))
		}

		return node
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range typed {
			node.Content = append(node.Content, yamlNode(item))
		}

		return node
	default:
		return scalarNode("!!str", "")
	}
}

// comment drops blank lines from a doc string used as a YAML comment.
func comment(doc string) string {
	lines := strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, strings.TrimRight(line, " \t"))
		}
	}

	return strings.Join(kept, "\n")
}

// scalarNode creates one scalar node with explicit tag.
func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
