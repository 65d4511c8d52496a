// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

/*
Package markdown renders a validated data model as CommonMark documentation.

The document lists entities, shared objects and enums, each with its own
section. Field types link to the sections of the objects and enums they use,
and entities show both the references they declare and the references pointing
at them. Two built-in templates exist: "table" prints fields as a table and
"list" prints them as a bullet list. Custom template text receives the same
view model.

	md, err := markdown.Render(validated, markdown.Options{
		Template:     "table",
		WrapWidth:    100,
		EntityFilter: `"users" in references`,
	})
	if err != nil {
		return err
	}
*/
package markdown

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/woozymasta/dmdoc/format"
	"github.com/woozymasta/dmdoc/format/example"
	"github.com/woozymasta/dmdoc/model"
)

// Key is the registry key of the renderer.
const Key = "markdown"

const (
	// defaultTemplate is used when caller does not provide template name.
	defaultTemplate = templateTable
	// defaultWrapWidth wraps plain doc paragraphs at this width.
	defaultWrapWidth = 80
	// defaultListMarker is used when caller does not provide list marker style.
	defaultListMarker = "*"
)

// Options configures markdown rendering.
type Options struct {
	// Title overrides the model name as document title.
	Title string
	// Template selects a built-in template, "table" by default.
	Template string
	// TemplateText is custom template text and wins over Template.
	TemplateText string
	// WrapWidth wraps doc paragraphs, 80 by default.
	WrapWidth int
	// ListMarker is "*" or "-".
	ListMarker string
	// ExampleMode embeds an example document per entity when set.
	ExampleMode   example.Mode
	ExampleFormat example.Format
	// EntityFilter is an expression selecting the entities to render.
	EntityFilter string
}

// Config is the renderer config section.
type Config struct {
	Title         string         `yaml:"title"`
	Template      string         `yaml:"template"`
	TemplateFile  string         `yaml:"template_file"`
	WrapWidth     int            `yaml:"wrap_width"`
	ListMarker    string         `yaml:"list_marker"`
	ExampleMode   example.Mode   `yaml:"example_mode"`
	ExampleFormat example.Format `yaml:"example_format"`
	EntityFilter  string         `yaml:"entity_filter"`
}

// Renderer renders markdown with fixed options.
type Renderer struct {
	logger *slog.Logger
	opt    Options
	filter *entityFilter
}

// New builds a Renderer from params. A template file resolves against BaseDir.
func New(params format.Params) (*Renderer, error) {
	var cfg Config
	if err := params.DecodeConfig(&cfg); err != nil {
		return nil, err
	}

	opt := Options{
		Title:         cfg.Title,
		Template:      cfg.Template,
		WrapWidth:     cfg.WrapWidth,
		ListMarker:    cfg.ListMarker,
		ExampleMode:   cfg.ExampleMode,
		ExampleFormat: cfg.ExampleFormat,
		EntityFilter:  cfg.EntityFilter,
	}

	if path := params.Path(cfg.TemplateFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadTemplate, err)
		}

		opt.TemplateText = string(data)
	}

	renderer, err := NewRenderer(opt, params.Log())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", format.ErrConfig, err)
	}

	return renderer, nil
}

// NewRenderer validates opt and builds a Renderer.
func NewRenderer(opt Options, logger *slog.Logger) (*Renderer, error) {
	opt, err := normalizeOptions(opt)
	if err != nil {
		return nil, err
	}

	if _, err := parseTemplate(opt); err != nil {
		return nil, err
	}

	filter, err := compileFilter(opt.EntityFilter)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Renderer{logger: logger, opt: opt, filter: filter}, nil
}

// Factory adapts New to format.Factory.
func Factory(params format.Params) (format.Format, error) {
	renderer, err := New(params)
	if err != nil {
		return nil, err
	}

	return renderer, nil
}

// Render writes the markdown document for m to w.
func (r *Renderer) Render(w io.Writer, m *model.Validated) error {
	text, err := r.render(m)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, text)
	return err
}

// Extensions lists accepted output extensions.
func (r *Renderer) Extensions() []string {
	return []string{".md"}
}

// render executes the template into a normalized document.
func (r *Renderer) render(m *model.Validated) (string, error) {
	view, err := buildView(m, r.opt, r.filter.keep)
	if err != nil {
		return "", err
	}

	r.logger.Debug("rendering markdown", "entities", len(view.Entities), "objects", len(view.Objects), "enums", len(view.Enums))

	tmpl, err := parseTemplate(r.opt)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, view); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecuteTemplate, err)
	}

	return normalizeOutput(out.String()), nil
}

// Render converts a validated model into a markdown document.
func Render(m *model.Validated, opt Options) (string, error) {
	renderer, err := NewRenderer(opt, nil)
	if err != nil {
		return "", err
	}

	return renderer.render(m)
}

// normalizeOptions applies defaults and validates example settings.
func normalizeOptions(opt Options) (Options, error) {
	if opt.WrapWidth <= 0 {
		opt.WrapWidth = defaultWrapWidth
	}

	switch strings.TrimSpace(opt.ListMarker) {
	case "-":
		opt.ListMarker = "-"
	default:
		opt.ListMarker = defaultListMarker
	}

	if strings.TrimSpace(string(opt.ExampleMode)) == "" && strings.TrimSpace(string(opt.ExampleFormat)) == "" {
		opt.ExampleMode, opt.ExampleFormat = "", ""
		return opt, nil
	}

	var err error
	if opt.ExampleMode, err = example.NormalizeMode(opt.ExampleMode); err != nil {
		return Options{}, err
	}

	if opt.ExampleFormat, err = example.NormalizeFormat(opt.ExampleFormat); err != nil {
		return Options{}, err
	}

	return opt, nil
}
