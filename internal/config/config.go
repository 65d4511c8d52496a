// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

// Package config loads source and format configuration files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source is a parsed source configuration file.
type Source struct {
	// Type is the registered adapter key.
	Type string `yaml:"type"`
	// Config is the adapter specific section.
	Config yaml.Node `yaml:"config"`

	// Dir is the directory of the configuration file.
	Dir string `yaml:"-"`
}

// Output describes where a renderer writes.
type Output struct {
	// Path is the output file, empty means standard output.
	Path string `yaml:"path"`
	// Overwrite allows replacing an existing file.
	Overwrite bool `yaml:"overwrite"`
}

// Format is a parsed format configuration file.
type Format struct {
	// Format is the registered renderer key.
	Format string `yaml:"format"`
	// Output is the output target.
	Output Output `yaml:"output"`
	// Config is the renderer specific section.
	Config yaml.Node `yaml:"config"`

	// Dir is the directory of the configuration file.
	Dir string `yaml:"-"`
}

// LoadSource reads and parses a source configuration file.
func LoadSource(path string) (*Source, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := ParseSource(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParseConfig, path, err)
	}

	return cfg, nil
}

// ParseSource parses source configuration bytes, dir resolves relative paths.
func ParseSource(data []byte, dir string) (*Source, error) {
	var cfg Source
	if err := decodeStrict(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Type = strings.TrimSpace(cfg.Type)
	if cfg.Type == "" {
		return nil, fmt.Errorf("%w: type", ErrMissingKey)
	}

	cfg.Dir = dir
	return &cfg, nil
}

// Decoder returns a strict decoder of the adapter config section.
func (s *Source) Decoder() func(target any) error {
	return NodeDecoder(&s.Config)
}

// LoadFormat reads and parses a format configuration file.
func LoadFormat(path string) (*Format, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := ParseFormat(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParseConfig, path, err)
	}

	return cfg, nil
}

// ParseFormat parses format configuration bytes, dir resolves relative paths.
func ParseFormat(data []byte, dir string) (*Format, error) {
	var cfg Format
	if err := decodeStrict(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Format = strings.TrimSpace(cfg.Format)
	if cfg.Format == "" {
		return nil, fmt.Errorf("%w: format", ErrMissingKey)
	}

	cfg.Dir = dir
	cfg.Output.Path = strings.TrimSpace(cfg.Output.Path)
	if cfg.Output.Path != "" && !filepath.IsAbs(cfg.Output.Path) && dir != "" {
		cfg.Output.Path = filepath.Join(dir, cfg.Output.Path)
	}

	return &cfg, nil
}

// Decoder returns a strict decoder of the renderer config section.
func (f *Format) Decoder() func(target any) error {
	return NodeDecoder(&f.Config)
}

// NodeDecoder returns a decoder that rejects unknown keys of node.
// An absent node decodes into nothing.
func NodeDecoder(node *yaml.Node) func(target any) error {
	return func(target any) error {
		if node == nil || node.Kind == 0 {
			return nil
		}

		data, err := yaml.Marshal(node)
		if err != nil {
			return err
		}

		return decodeKnown(data, target)
	}
}

// StrictDecoder returns a decoder of YAML data that expands environment
// references and rejects unknown keys.
func StrictDecoder(data []byte) func(target any) error {
	return func(target any) error {
		return decodeStrict(data, target)
	}
}

// IsYAMLPath reports whether path has a YAML extension.
func IsYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// readConfigFile checks path and reads the file.
func readConfigFile(path string) ([]byte, error) {
	if !IsYAMLPath(path) {
		return nil, fmt.Errorf("%w: %q", ErrConfigExtension, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrReadConfig, path, err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %q", ErrConfigNotFile, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrReadConfig, path, err)
	}

	return data, nil
}

// decodeStrict interpolates environment variables and decodes with known fields only.
func decodeStrict(data []byte, target any) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return err
	}

	if root.Kind == 0 {
		return nil
	}

	Interpolate(&root)

	expanded, err := yaml.Marshal(&root)
	if err != nil {
		return err
	}

	return decodeKnown(expanded, target)
}

// decodeKnown decodes data into target rejecting unknown keys.
func decodeKnown(data []byte, target any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}
