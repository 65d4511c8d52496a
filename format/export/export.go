// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

// Package export writes the normalized wire form of a validated data model.
//
// The output decodes back into an equal model with the file source adapter,
// so it can be committed next to generated documentation or fed to other tools.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/woozymasta/dmdoc/format"
	"github.com/woozymasta/dmdoc/model"
)

// Key is the registry key of the renderer.
const Key = "export"

// Encoding selects the output document encoding.
type Encoding string

const (
	// EncodingYAML writes block style YAML.
	EncodingYAML Encoding = "yaml"
	// EncodingJSON writes indented JSON.
	EncodingJSON Encoding = "json"
)

// Config is the renderer config section.
type Config struct {
	// Format is "yaml" (default) or "json".
	Format Encoding `yaml:"format"`
}

// Renderer writes a model wire form.
type Renderer struct {
	logger   *slog.Logger
	encoding Encoding
}

// New builds a Renderer from params.
func New(params format.Params) (*Renderer, error) {
	var cfg Config
	if err := params.DecodeConfig(&cfg); err != nil {
		return nil, err
	}

	return NewRenderer(cfg.Format, params.Log())
}

// NewRenderer validates encoding and builds a Renderer.
func NewRenderer(encoding Encoding, logger *slog.Logger) (*Renderer, error) {
	encoding, err := NormalizeEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", format.ErrConfig, err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Renderer{logger: logger, encoding: encoding}, nil
}

// Factory adapts New to format.Factory.
func Factory(params format.Params) (format.Format, error) {
	renderer, err := New(params)
	if err != nil {
		return nil, err
	}

	return renderer, nil
}

// NormalizeEncoding validates encoding; empty selects EncodingYAML.
func NormalizeEncoding(encoding Encoding) (Encoding, error) {
	normalized := Encoding(strings.ToLower(strings.TrimSpace(string(encoding))))
	switch normalized {
	case "":
		return EncodingYAML, nil
	case EncodingYAML, EncodingJSON:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownEncoding, encoding)
	}
}

// Render writes the wire form of m to w.
func (r *Renderer) Render(w io.Writer, m *model.Validated) error {
	data, err := Marshal(m.Model(), r.encoding)
	if err != nil {
		return err
	}

	r.logger.Debug("exporting model", "id", m.Model().ID, "encoding", r.encoding, "bytes", len(data))

	_, err = w.Write(data)
	return err
}

// Extensions lists accepted output extensions.
func (r *Renderer) Extensions() []string {
	if r.encoding == EncodingJSON {
		return []string{".json"}
	}

	return []string{".yaml", ".yml"}
}

// Marshal encodes the wire form of m.
func Marshal(m *model.DataModel, encoding Encoding) ([]byte, error) {
	encoding, err := NormalizeEncoding(encoding)
	if err != nil {
		return nil, err
	}

	if encoding == EncodingJSON {
		var out bytes.Buffer
		encoder := json.NewEncoder(&out)
		encoder.SetEscapeHTML(false)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(m); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncode, err)
		}

		return out.Bytes(), nil
	}

	var out bytes.Buffer
	encoder := yaml.NewEncoder(&out)
	encoder.SetIndent(2)
	if err := encoder.Encode(m.Node()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	return out.Bytes(), nil
}
