// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package dmdoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/woozymasta/dmdoc/format"
	"github.com/woozymasta/dmdoc/model"
	"github.com/woozymasta/dmdoc/source"
)

// Output describes where Generate writes.
type Output struct {
	// Path is the output file, empty writes to Stdout.
	Path string
	// Overwrite allows replacing an existing file.
	Overwrite bool
	// Stdout receives output when Path is empty, os.Stdout when nil.
	Stdout io.Writer
}

// Result reports one written output.
type Result struct {
	// Path is the written file, empty for standard output.
	Path string
	// Size is the number of written bytes.
	Size int
	// Overwritten is set when an existing file was replaced.
	Overwritten bool
}

// Run is one pipeline execution. Every log record carries the run id.
type Run struct {
	ID     string
	logger *slog.Logger
}

// NewRun starts a run with a fresh ULID; a nil logger discards records.
func NewRun(logger *slog.Logger) *Run {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	id := ulid.Make().String()
	return &Run{ID: id, logger: logger.With("run", id)}
}

// Logger returns the run scoped logger.
func (r *Run) Logger() *slog.Logger {
	return r.logger
}

// Parse builds the adapter registered under key and parses a model with it.
func (r *Run) Parse(ctx context.Context, key string, params source.Params) (*model.DataModel, error) {
	if params.Logger == nil {
		params.Logger = r.logger.With("source", key)
	}

	src, err := NewSource(key, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	started := time.Now()
	r.logger.Info("started processing source", "source", key)

	m, err := src.Parse(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	r.logger.Debug("parsed model",
		"id", m.ID,
		"entities", m.Entities.Len(),
		"objects", m.Objects.Len(),
		"enums", m.Enums.Len(),
		"elapsed", time.Since(started),
	)

	return m, nil
}

// Load parses a model and validates it.
// A *model.ValidationError is returned as is.
func (r *Run) Load(ctx context.Context, key string, params source.Params) (*model.Validated, error) {
	m, err := r.Parse(ctx, key, params)
	if err != nil {
		return nil, err
	}

	return Validate(m)
}

// Validate resolves every reference of m, collecting all problems.
func Validate(m *model.DataModel) (*model.Validated, error) {
	return model.Validate(m)
}

// Render builds the renderer registered under key and renders v in memory.
func (r *Run) Render(v *model.Validated, key string, params format.Params) (format.Format, []byte, error) {
	if params.Logger == nil {
		params.Logger = r.logger.With("format", key)
	}

	f, err := NewFormat(key, params)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	var out bytes.Buffer
	if err := f.Render(&out, v); err != nil {
		return nil, nil, fmt.Errorf("%w %s: %w", ErrRender, key, err)
	}

	return f, out.Bytes(), nil
}

// Generate renders v and writes it according to out.
// The output file must carry an extension of the renderer; an existing file
// is replaced only with Overwrite.
func (r *Run) Generate(v *model.Validated, key string, params format.Params, out Output) (Result, error) {
	r.logger.Info("started output generation", "format", key, "output", out.Path)

	f, data, err := r.Render(v, key, params)
	if err != nil {
		return Result{}, err
	}

	if out.Path == "" {
		stdout := out.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}

		if _, err := stdout.Write(data); err != nil {
			return Result{}, fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}

		return Result{Size: len(data)}, nil
	}

	exists, err := checkOutput(f, out)
	if err != nil {
		return Result{}, err
	}

	if exists {
		r.logger.Warn("overwriting existing output", "path", out.Path)
	}

	if err := writeOutput(out.Path, data); err != nil {
		return Result{}, err
	}

	r.logger.Debug("output written", "path", out.Path, "bytes", len(data))
	return Result{Path: out.Path, Size: len(data), Overwritten: exists}, nil
}

// Check renders v and compares it with the file at path.
// On difference it returns a unified diff and ErrDrift.
func (r *Run) Check(v *model.Validated, key string, params format.Params, path string) (string, error) {
	f, data, err := r.Render(v, key, params)
	if err != nil {
		return "", err
	}

	if err := format.CheckExtension(f, path); err != nil {
		return "", err
	}

	current, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	if bytes.Equal(current, data) {
		r.logger.Debug("output is up to date", "path", path)
		return "", nil
	}

	diff := UnifiedDiff(path, string(current), string(data))
	return diff, fmt.Errorf("%w: %s", ErrDrift, path)
}

// checkOutput applies the output path rules and reports whether the file exists.
func checkOutput(f format.Format, out Output) (bool, error) {
	if err := format.CheckExtension(f, out.Path); err != nil {
		return false, err
	}

	info, err := os.Stat(out.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	case info.IsDir():
		return false, fmt.Errorf("%w: %q", ErrOutputIsDirectory, out.Path)
	case !out.Overwrite:
		return false, fmt.Errorf("%w: %q", ErrOutputExists, out.Path)
	}

	return true, nil
}

// writeOutput writes data creating missing parent directories.
func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}
