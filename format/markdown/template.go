// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package markdown

import (
	"embed"
	"fmt"
	"slices"
	"strings"
	"text/template"
	"unicode"
)

// templateFS stores built-in markdown templates embedded into the package.
//
//go:embed templates/*.md.gotmpl
var templateFS embed.FS

const (
	templateList  = "list"
	templateTable = "table"
)

// builtInTemplateFiles maps template names to embedded file paths.
var builtInTemplateFiles = map[string]string{
	templateList:  "templates/list.md.gotmpl",
	templateTable: "templates/table.md.gotmpl",
}

// BuiltinTemplateNames returns all built-in template names, sorted.
func BuiltinTemplateNames() []string {
	names := make([]string, 0, len(builtInTemplateFiles))
	for name := range builtInTemplateFiles {
		names = append(names, name)
	}

	slices.Sort(names)
	return names
}

// BuiltinTemplate returns the text of one built-in template.
func BuiltinTemplate(name string) (string, error) {
	name = normalizeTemplateName(name)
	path, ok := builtInTemplateFiles[name]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownTemplate, name)
	}

	data, err := templateFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadTemplate, err)
	}

	return string(data), nil
}

// parseTemplate parses custom text, or the named built-in template when text is blank.
func parseTemplate(opt Options) (*template.Template, error) {
	name, text := "custom", strings.TrimSpace(opt.TemplateText)
	if text == "" {
		name = normalizeTemplateName(opt.Template)
		if name == "" {
			name = defaultTemplate
		}

		builtin, err := BuiltinTemplate(name)
		if err != nil {
			return nil, err
		}

		text = builtin
	}

	parsed, err := template.New(name).Funcs(templateFuncs(opt.ListMarker)).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParseTemplate, name, err)
	}

	return parsed, nil
}

// normalizeTemplateName normalizes built-in template identifiers.
func normalizeTemplateName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// templateFuncs provides helpers available inside markdown templates.
func templateFuncs(listMarker string) template.FuncMap {
	return template.FuncMap{
		"bullet":        func() string { return listMarker },
		"headingAnchor": headingAnchor,
		"cell":          cell,
		"code":          func(value string) string { return "`" + strings.ReplaceAll(value, "`", "\\`") + "`" },
	}
}

// headingAnchor converts heading text into a GitHub style anchor slug.
func headingAnchor(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))

	var out strings.Builder
	out.Grow(len(trimmed))
	for _, r := range trimmed {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '-':
			out.WriteRune(r)
		case unicode.IsSpace(r):
			out.WriteByte('-')
		}
	}

	return out.String()
}
