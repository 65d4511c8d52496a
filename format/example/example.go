// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

/*
Package example generates sample documents for entities and objects.

Every field gets a placeholder of its type: enums use their first value,
arrays hold one item, maps hold one "<key>" member and unions use their first
alternative. Shapes that recurse into themselves stop at an empty object.

	data, err := example.Generate(validated.Model(), "users", example.ModeRequired, example.FormatYAML)
	if err != nil {
		return err
	}

YAML output carries field docs as key comments.
*/
package example

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/woozymasta/dmdoc/format"
	"github.com/woozymasta/dmdoc/model"
)

// Key is the registry key of the renderer.
const Key = "example"

const (
	// ModeAll builds examples with every field.
	ModeAll Mode = "all"
	// ModeRequired builds examples with required fields only.
	ModeRequired Mode = "required"
)

// Mode configures which fields appear in an example.
type Mode string

const (
	// FormatJSON encodes examples as JSON.
	FormatJSON Format = "json"
	// FormatYAML encodes examples as YAML.
	FormatYAML Format = "yaml"
)

// Format configures example encoding.
type Format string

// Generate returns an encoded example of entity or object name.
// Entities win over objects of the same name.
func Generate(m *model.DataModel, name string, mode Mode, encoding Format) ([]byte, error) {
	mode, err := NormalizeMode(mode)
	if err != nil {
		return nil, err
	}

	encoding, err = NormalizeFormat(encoding)
	if err != nil {
		return nil, err
	}

	var fields model.Table[model.Field]
	if entity, ok := m.Entity(name); ok {
		fields = entity.Fields
	} else if object, ok := m.Object(name); ok {
		fields = object.Fields
	} else {
		return nil, fmt.Errorf("%w %q", ErrUnknownTarget, name)
	}

	b := builder{model: m, mode: mode, active: map[string]bool{name: true}}
	value := b.buildFields(fields)

	switch encoding {
	case FormatYAML:
		data, err := marshalYAML(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeYAML, err)
		}

		return data, nil
	default:
		data, err := marshalJSON(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeJSON, err)
		}

		return data, nil
	}
}

// NormalizeMode validates mode; empty selects ModeAll.
func NormalizeMode(mode Mode) (Mode, error) {
	normalized := Mode(strings.ToLower(strings.TrimSpace(string(mode))))
	switch normalized {
	case "":
		return ModeAll, nil
	case ModeAll, ModeRequired:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownMode, mode)
	}
}

// NormalizeFormat validates encoding; empty selects FormatJSON.
func NormalizeFormat(encoding Format) (Format, error) {
	normalized := Format(strings.ToLower(strings.TrimSpace(string(encoding))))
	switch normalized {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatYAML:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownFormat, encoding)
	}
}

// Config is the renderer config section.
type Config struct {
	// Entity names the entity or object to exemplify.
	Entity string `yaml:"entity"`
	Mode   Mode   `yaml:"mode"`
	Format Format `yaml:"format"`
}

// Renderer writes one example document.
type Renderer struct {
	logger *slog.Logger
	cfg    Config
}

// New builds a Renderer from params.
func New(params format.Params) (*Renderer, error) {
	var cfg Config
	if err := params.DecodeConfig(&cfg); err != nil {
		return nil, err
	}

	return NewRenderer(cfg, params.Log())
}

// NewRenderer validates cfg and builds a Renderer.
func NewRenderer(cfg Config, logger *slog.Logger) (*Renderer, error) {
	cfg.Entity = strings.TrimSpace(cfg.Entity)
	if cfg.Entity == "" {
		return nil, fmt.Errorf("%w: %q is required", format.ErrConfig, "entity")
	}

	var err error
	if cfg.Mode, err = NormalizeMode(cfg.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", format.ErrConfig, err)
	}

	if cfg.Format, err = NormalizeFormat(cfg.Format); err != nil {
		return nil, fmt.Errorf("%w: %w", format.ErrConfig, err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Renderer{logger: logger, cfg: cfg}, nil
}

// Factory adapts New to format.Factory.
func Factory(params format.Params) (format.Format, error) {
	renderer, err := New(params)
	if err != nil {
		return nil, err
	}

	return renderer, nil
}

// Render writes the configured example to w.
func (r *Renderer) Render(w io.Writer, m *model.Validated) error {
	r.logger.Debug("generating example", "target", r.cfg.Entity, "mode", r.cfg.Mode, "format", r.cfg.Format)

	data, err := Generate(m.Model(), r.cfg.Entity, r.cfg.Mode, r.cfg.Format)
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}

// Extensions lists file extensions of the configured encoding.
func (r *Renderer) Extensions() []string {
	if r.cfg.Format == FormatYAML {
		return []string{".yaml", ".yml"}
	}

	return []string{".json"}
}
