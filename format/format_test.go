// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package format

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/woozymasta/dmdoc/model"
)

type stubFormat struct{}

func (stubFormat) Render(io.Writer, *model.Validated) error { return nil }
func (stubFormat) Extensions() []string                     { return []string{".md", ".markdown"} }

func TestCheckExtension(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		ok   bool
	}{
		{path: "docs/model.md", ok: true},
		{path: "docs/MODEL.MD", ok: true},
		{path: "model.markdown", ok: true},
		{path: "model.txt"},
		{path: "model"},
	}

	for _, tc := range cases {
		err := CheckExtension(stubFormat{}, tc.path)
		if tc.ok && err != nil {
			t.Fatalf("CheckExtension(%q) = %v, want nil", tc.path, err)
		}

		if !tc.ok && !errors.Is(err, ErrOutputExtension) {
			t.Fatalf("CheckExtension(%q) = %v, want ErrOutputExtension", tc.path, err)
		}
	}
}

func TestParamsDecodeConfig(t *testing.T) {
	t.Parallel()

	var target struct{}
	if err := (Params{}).DecodeConfig(&target); err != nil {
		t.Fatalf("DecodeConfig without decoder: %v", err)
	}

	failure := errors.New("boom")
	err := Params{Decode: func(any) error { return failure }}.DecodeConfig(&target)
	if !errors.Is(err, ErrConfig) || !errors.Is(err, failure) {
		t.Fatalf("DecodeConfig error = %v, want ErrConfig wrapping cause", err)
	}
}

func TestParamsPathAndLog(t *testing.T) {
	t.Parallel()

	params := Params{BaseDir: "docs"}
	if got, want := params.Path("out.md"), filepath.Join("docs", "out.md"); got != want {
		t.Fatalf("Path = %q, want %q", got, want)
	}

	if params.Log() == nil {
		t.Fatal("Log returned nil")
	}
}
