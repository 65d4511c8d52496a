// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package source

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestParamsPath(t *testing.T) {
	t.Parallel()

	base := filepath.Join("configs", "prod")
	params := Params{BaseDir: base}

	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "relative", in: "model.yaml", want: filepath.Join(base, "model.yaml")},
		{name: "absolute", in: filepath.Join(string(filepath.Separator), "tmp", "m.yaml"), want: filepath.Join(string(filepath.Separator), "tmp", "m.yaml")},
		{name: "trimmed", in: "  model.yaml ", want: filepath.Join(base, "model.yaml")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := params.Path(tc.in); got != tc.want {
				t.Fatalf("Path(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParamsDecodeConfigWrapsErrors(t *testing.T) {
	t.Parallel()

	decodeErr := errors.New("field nope not found")
	params := Params{Decode: func(any) error { return decodeErr }}

	var target struct{}
	err := params.DecodeConfig(&target)
	if !errors.Is(err, ErrConfig) || !errors.Is(err, decodeErr) {
		t.Fatalf("DecodeConfig error = %v, want ErrConfig wrapping decode error", err)
	}

	if err := (Params{}).DecodeConfig(&target); err != nil {
		t.Fatalf("DecodeConfig without decoder: %v", err)
	}
}

func TestParamsLogDefaultsToDiscard(t *testing.T) {
	t.Parallel()

	if (Params{}).Log() == nil {
		t.Fatal("Log returned nil logger")
	}
}
